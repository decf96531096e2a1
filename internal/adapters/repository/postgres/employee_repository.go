package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
)

const (
	employeeUniqueViolationCode = "23505"
	employeeCheckViolationCode  = "23514"
)

const employeeColumns = `id, name, email, department, salary, created_at, updated_at`

const (
	insertEmployeeQuery = `
        INSERT INTO employees (name, email, department, salary, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + employeeColumns

	updateEmployeeQuery = `
        UPDATE employees
           SET name = $1,
               email = $2,
               department = $3,
               salary = $4,
               updated_at = $5
         WHERE id = $6
        RETURNING ` + employeeColumns

	deleteEmployeeQuery = `DELETE FROM employees WHERE id = $1`

	findEmployeeByIDQuery = `
        SELECT ` + employeeColumns + `
          FROM employees
         WHERE id = $1
         LIMIT 1`

	findEmployeeByEmailQuery = `
        SELECT ` + employeeColumns + `
          FROM employees
         WHERE lower(email) = lower($1)
         LIMIT 1`

	listEmployeesQuery = `
        SELECT ` + employeeColumns + `
          FROM employees
         ORDER BY id
         LIMIT $1
        OFFSET $2`

	salaryStatisticsQuery = `
        SELECT COUNT(*),
               COALESCE(AVG(salary), 0),
               COALESCE(MIN(salary), 0),
               COALESCE(MAX(salary), 0)
          FROM employees`

	departmentCountsQuery = `
        SELECT department, COUNT(*)
          FROM employees
         GROUP BY department
         ORDER BY department`
)

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。ID は採番されます。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, insertEmployeeQuery,
		e.Name,
		e.Email,
		e.Department,
		e.Salary,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員情報を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, updateEmployeeQuery,
		e.Name,
		e.Email,
		e.Department,
		e.Salary,
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, deleteEmployeeQuery, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanEmployee(exec.QueryRow(ctx, findEmployeeByIDQuery, id))
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレス (大文字小文字を区別しない) で社員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanEmployee(exec.QueryRow(ctx, findEmployeeByEmailQuery, email))
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は ID 順に社員の一覧を取得します。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]*employee.Employee, error) {
	if filter.Limit <= 0 {
		return nil, employee.ErrInvalidLimit
	}
	if filter.Offset < 0 {
		return nil, employee.ErrInvalidSkip
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, listEmployeesQuery, filter.Limit, filter.Offset)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return collectEmployees(rows, filter.Limit)
}

// Search は氏名の部分一致と部署の完全一致で社員を検索します。
func (r *EmployeeRepository) Search(ctx context.Context, filter employee.SearchFilter) ([]*employee.Employee, error) {
	query, args := buildSearchQuery(filter)

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return collectEmployees(rows, 0)
}

// Aggregate は給与と部署別人数を集計します。
func (r *EmployeeRepository) Aggregate(ctx context.Context) (*employee.Statistics, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	stats := &employee.Statistics{}
	if err := exec.QueryRow(ctx, salaryStatisticsQuery).Scan(
		&stats.TotalEmployees,
		&stats.AverageSalary,
		&stats.MinSalary,
		&stats.MaxSalary,
	); err != nil {
		return nil, translateEmployeePgError(err)
	}

	rows, err := exec.Query(ctx, departmentCountsQuery)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	stats.Departments = []employee.DepartmentCount{}
	for rows.Next() {
		var dc employee.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, translateEmployeePgError(err)
		}
		stats.Departments = append(stats.Departments, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return stats, nil
}

func buildSearchQuery(filter employee.SearchFilter) (string, []any) {
	args := make([]any, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.NameContains != "" {
		args = append(args, "%"+escapeLike(filter.NameContains)+"%")
		conditions = append(conditions, `name ILIKE $`+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}

	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, "department = $"+strconv.Itoa(len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
        SELECT ` + employeeColumns + `
          FROM employees` + whereClause + `
         ORDER BY id`

	return query, args
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func collectEmployees(rows pgx.Rows, capacity int) ([]*employee.Employee, error) {
	defer rows.Close()

	employees := make([]*employee.Employee, 0, capacity)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		emp                  employee.Employee
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.Department,
		&emp.Salary,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp.CreatedAt = createdAt.UTC()
	emp.UpdatedAt = updatedAt.UTC()
	return &emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeUniqueViolationCode:
			return employee.ErrDuplicateEmail
		case employeeCheckViolationCode:
			return employee.ErrInvalidSalary
		}
	}

	return err
}
