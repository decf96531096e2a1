package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Welcome(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestRouter(&stubUseCase{}), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to Employee Management System","version":"1.0.0","status":"active"}`, rec.Body.String())
}

func TestSystemHandler_Health(t *testing.T) {
	t.Parallel()

	healthy := NewRouter(&stubUseCase{}, PingerFunc(func(context.Context) error { return nil }), zerolog.Nop())
	rec := doRequest(t, healthy, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	down := NewRouter(&stubUseCase{}, PingerFunc(func(context.Context) error { return errors.New("db down") }), zerolog.Nop())
	rec = doRequest(t, down, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy"}`, rec.Body.String())
}
