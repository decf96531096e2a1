package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
)

// EmployeeHandler は社員 API の HTTP 実装です。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// Register は社員 API のルートを登録します。
func (h *EmployeeHandler) Register(g *echo.Group) {
	g.POST("", h.CreateEmployee)
	g.POST("/", h.CreateEmployee)
	g.GET("", h.ListEmployees)
	g.GET("/", h.ListEmployees)
	g.GET("/search", h.SearchEmployees)
	g.GET("/stats", h.GetStatistics)
	g.GET("/:id", h.GetEmployee)
	g.PUT("/:id", h.UpdateEmployee)
	g.PATCH("/:id", h.UpdateEmployee)
	g.DELETE("/:id", h.DeleteEmployee)
}

// CreateEmployee は社員を作成します。
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, invalidBody(err))
	}

	var missing []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"name", req.Name.Set && !req.Name.Null},
		{"email", req.Email.Set && !req.Email.Null},
		{"department", req.Department.Set && !req.Department.Null},
		{"salary", req.Salary.Set && !req.Salary.Null},
	} {
		if !f.set {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return respondError(c, fmt.Errorf("missing required fields: %s: %w", strings.Join(missing, ", "), employee.ErrValidation))
	}

	created, err := h.svc.CreateEmployee(c.Request().Context(), employee.CreateEmployeeInput{
		Name:       req.Name.Value,
		Email:      req.Email.Value,
		Department: req.Department.Value,
		Salary:     req.Salary.Value,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// GetEmployee は社員を 1 件取得します。
func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	emp, err := h.svc.GetEmployee(c.Request().Context(), employee.GetEmployeeInput{ID: id})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

// ListEmployees は社員一覧を返します。
func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	skip, err := queryInt(c, "skip")
	if err != nil {
		return respondError(c, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return respondError(c, err)
	}

	employees, err := h.svc.ListEmployees(c.Request().Context(), employee.ListEmployeesInput{Skip: skip, Limit: limit})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toEmployeeResponses(employees))
}

// SearchEmployees は名前の部分一致と部署で社員を検索します。
func (h *EmployeeHandler) SearchEmployees(c echo.Context) error {
	params := c.QueryParams()

	var in employee.SearchEmployeesInput
	if params.Has("name") {
		name := params.Get("name")
		in.Name = &name
	}
	if params.Has("department") {
		department := params.Get("department")
		in.Department = &department
	}

	employees, err := h.svc.SearchEmployees(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toEmployeeResponses(employees))
}

// GetStatistics は社員の集計情報を返します。
func (h *EmployeeHandler) GetStatistics(c echo.Context) error {
	stats, err := h.svc.GetStatistics(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toStatisticsResponse(stats))
}

// UpdateEmployee は指定された項目のみ社員情報を更新します。PUT と PATCH の両方で利用します。
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, invalidBody(err))
	}

	var nulls []string
	if req.Name.Null {
		nulls = append(nulls, "name")
	}
	if req.Email.Null {
		nulls = append(nulls, "email")
	}
	if req.Department.Null {
		nulls = append(nulls, "department")
	}
	if req.Salary.Null {
		nulls = append(nulls, "salary")
	}
	if len(nulls) > 0 {
		return respondError(c, fmt.Errorf("fields must not be null: %s: %w", strings.Join(nulls, ", "), employee.ErrValidation))
	}

	updated, err := h.svc.UpdateEmployee(c.Request().Context(), employee.UpdateEmployeeInput{
		ID:         id,
		Name:       req.Name.ptr(),
		Email:      req.Email.ptr(),
		Department: req.Department.ptr(),
		Salary:     req.Salary.ptr(),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

// DeleteEmployee は社員を削除します。
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.svc.DeleteEmployee(c.Request().Context(), employee.DeleteEmployeeInput{ID: id}); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q is not an integer: %w", c.Param("id"), employee.ErrValidation)
	}
	return id, nil
}

func queryInt(c echo.Context, key string) (int, error) {
	raw := c.QueryParam(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer: %w", key, raw, employee.ErrValidation)
	}
	return v, nil
}

func invalidBody(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			err = he.Internal
		} else {
			err = fmt.Errorf("%v", he.Message)
		}
	}
	return fmt.Errorf("invalid request body: %v: %w", err, employee.ErrValidation)
}
