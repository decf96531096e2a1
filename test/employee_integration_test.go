//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/codex-employee-api/internal/adapters/http/handler"
	repo "github.com/ogurasousui/codex-employee-api/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	pg "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../assets/migrations"

func TestEmployeeAPIIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	require.NoError(t, err)
	if cfg.Database.Driver != config.DriverPostgres {
		t.Skip("integration test requires the postgres driver")
	}

	require.NoError(t, resetMigrations(cfg.Database.DSN(), migrationsDir))

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	svc := employee.NewService(repo.NewEmployeeRepository(pool), nil, pg.NewTransactionManager(pool))
	srv := httptest.NewServer(handler.NewRouter(svc, pool, zerolog.Nop()))
	t.Cleanup(srv.Close)

	created := struct {
		ID         int64   `json:"id"`
		Department string  `json:"department"`
		Salary     float64 `json:"salary"`
	}{}
	resp := call(t, srv, http.MethodPost, "/api/employees",
		`{"name":"John Doe","email":"john@company.com","department":"engineering","salary":75000}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "Engineering", created.Department)

	resp = call(t, srv, http.MethodPost, "/api/employees",
		`{"name":"Johnny","email":"JOHN@company.com","department":"Sales","salary":50000}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	id := jsonID(created.ID)
	resp = call(t, srv, http.MethodPatch, "/api/employees/"+id, `{"salary":95000}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, srv, http.MethodPatch, "/api/employees/"+id, `{"salary":90000}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, srv, http.MethodGet, "/api/employees/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		TotalEmployees int64   `json:"total_employees"`
		AverageSalary  float64 `json:"average_salary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, int64(1), stats.TotalEmployees)
	assert.Equal(t, 90000.0, stats.AverageSalary)

	resp = call(t, srv, http.MethodDelete, "/api/employees/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err = svc.GetEmployee(ctx, employee.GetEmployeeInput{ID: created.ID})
	assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))

	resp = call(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}
