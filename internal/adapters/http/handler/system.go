package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	welcomeMessage     = "Welcome to Employee Management System"
	apiVersion         = "1.0.0"
	healthCheckTimeout = 2 * time.Second
)

// Pinger はストアへの疎通確認を行います。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc は関数を Pinger として扱うためのアダプタです。
type PingerFunc func(ctx context.Context) error

// Ping は f(ctx) を呼び出します。
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// SystemHandler はウェルカムメッセージとヘルスチェックを提供します。
type SystemHandler struct {
	store Pinger
}

// NewSystemHandler は SystemHandler を生成します。
func NewSystemHandler(store Pinger) *SystemHandler {
	return &SystemHandler{store: store}
}

// Welcome は API の概要を返します。
func (h *SystemHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": welcomeMessage,
		"version": apiVersion,
		"status":  "active",
	})
}

// Health はストアへ疎通できる場合に healthy を返します。
func (h *SystemHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		requestLogger(c).Warn().Err(err).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
