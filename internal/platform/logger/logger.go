package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	"github.com/rs/zerolog"
)

// New は設定に従って zerolog.Logger を構築します。
// グローバルロガーは変更せず、呼び出し元が明示的に受け渡します。
func New(cfg config.LoggingConfig, out io.Writer) (zerolog.Logger, error) {
	if out == nil {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("logger: parse level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
