package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	"github.com/rs/zerolog"
)

func toHTTPStatus(err error) (int, string) {
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, employee.ErrDuplicateEmail):
		return http.StatusConflict, "Duplicate Email"
	case errors.Is(err, employee.ErrInvalidSalary):
		return http.StatusBadRequest, "Invalid Salary"
	case errors.Is(err, employee.ErrInvalidEmail):
		return http.StatusUnprocessableEntity, "Invalid Email"
	case errors.Is(err, employee.ErrValidation):
		return http.StatusUnprocessableEntity, "Validation Error"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// respondError はドメインエラーを HTTP レスポンスへ変換します。
// 分類できないエラーは詳細を返さずにログへ出力します。
func respondError(c echo.Context, err error) error {
	code, label := toHTTPStatus(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		message = "An unexpected error occurred"
	}
	return c.JSON(code, errorResponse{Error: label, Message: message, Path: c.Request().URL.Path})
}

// HTTPErrorHandler はルーティング失敗などフレームワーク由来のエラーを共通形式で返します。
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	} else {
		requestLogger(c).Error().Err(err).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Error: http.StatusText(code), Message: message, Path: c.Request().URL.Path})
}

func requestLogger(c echo.Context) *zerolog.Logger {
	return zerolog.Ctx(c.Request().Context())
}
