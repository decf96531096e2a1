package handler

import (
	"encoding/json"
	"time"

	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
)

// optional は JSON の項目について「未指定」と「null 指定」を区別して保持します。
type optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// ptr は指定済みかつ非 null の場合に値へのポインタを返します。
func (o optional[T]) ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

type createEmployeeRequest struct {
	Name       optional[string]  `json:"name"`
	Email      optional[string]  `json:"email"`
	Department optional[string]  `json:"department"`
	Salary     optional[float64] `json:"salary"`
}

type updateEmployeeRequest struct {
	Name       optional[string]  `json:"name"`
	Email      optional[string]  `json:"email"`
	Department optional[string]  `json:"department"`
	Salary     optional[float64] `json:"salary"`
}

type employeeResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Salary     float64   `json:"salary"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type departmentCountResponse struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

type statisticsResponse struct {
	TotalEmployees int64                     `json:"total_employees"`
	AverageSalary  float64                   `json:"average_salary"`
	MinSalary      float64                   `json:"min_salary"`
	MaxSalary      float64                   `json:"max_salary"`
	Departments    []departmentCountResponse `json:"departments"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func toEmployeeResponse(emp *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:         emp.ID,
		Name:       emp.Name,
		Email:      emp.Email,
		Department: emp.Department,
		Salary:     emp.Salary,
		CreatedAt:  emp.CreatedAt,
		UpdatedAt:  emp.UpdatedAt,
	}
}

func toEmployeeResponses(employees []*employee.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(employees))
	for _, emp := range employees {
		out = append(out, toEmployeeResponse(emp))
	}
	return out
}

func toStatisticsResponse(stats *employee.Statistics) statisticsResponse {
	departments := make([]departmentCountResponse, 0, len(stats.Departments))
	for _, dc := range stats.Departments {
		departments = append(departments, departmentCountResponse{Department: dc.Department, Count: dc.Count})
	}
	return statisticsResponse{
		TotalEmployees: stats.TotalEmployees,
		AverageSalary:  stats.AverageSalary,
		MinSalary:      stats.MinSalary,
		MaxSalary:      stats.MaxSalary,
		Departments:    departments,
	}
}
