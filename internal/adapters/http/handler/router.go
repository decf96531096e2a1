package handler

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/ogurasousui/codex-employee-api/internal/adapters/http/middleware"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	"github.com/rs/zerolog"
)

// NewRouter はミドルウェアとルートを登録した echo インスタンスを返します。
func NewRouter(svc employee.UseCase, store Pinger, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(
		echomw.Recover(),
		middleware.RequestID(log),
		middleware.RequestLogger(log),
		echomw.CORS(),
	)

	system := NewSystemHandler(store)
	e.GET("/", system.Welcome)
	e.GET("/health", system.Health)

	NewEmployeeHandler(svc).Register(e.Group("/api/employees"))

	return e
}
