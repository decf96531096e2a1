package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/ogurasousui/codex-employee-api/internal/core/employee"
	sqlitedb "github.com/ogurasousui/codex-employee-api/internal/platform/db/sqlite"
)

const employeeColumns = `id, name, email, department, salary, created_at, updated_at`

// EmployeeRepository は SQLite を利用した社員永続化の実装です。
type EmployeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO employees (name, email, department, salary, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, e.Email, e.Department, e.Salary, e.CreatedAt.UTC(), e.UpdatedAt.UTC())
	if err != nil {
		return nil, translateSQLiteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Update は社員情報を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE employees
           SET name = ?, email = ?, department = ?, salary = ?, updated_at = ?
         WHERE id = ?`,
		e.Name, e.Email, e.Department, e.Salary, e.UpdatedAt.UTC(), e.ID)
	if err != nil {
		return nil, translateSQLiteError(err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, employee.ErrEmployeeNotFound
	}
	return r.FindByID(ctx, e.ID)
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return translateSQLiteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

// FindByEmail はメールアドレス (大文字小文字を区別しない) で社員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE lower(email) = lower(?)`, email)
	return scanEmployee(row)
}

// List は ID 順に社員の一覧を取得します。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]*employee.Employee, error) {
	if filter.Limit <= 0 {
		return nil, employee.ErrInvalidLimit
	}
	if filter.Offset < 0 {
		return nil, employee.ErrInvalidSkip
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id LIMIT ? OFFSET ?`, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

// Search は氏名の部分一致と部署の完全一致で社員を検索します。
func (r *EmployeeRepository) Search(ctx context.Context, filter employee.SearchFilter) ([]*employee.Employee, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.NameContains != "" {
		conditions = append(conditions, sqlitedb.UnicodeLowerFunc+`(name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(filter.NameContains))+"%")
	}
	if filter.Department != "" {
		conditions = append(conditions, `department = ?`)
		args = append(args, filter.Department)
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

// Aggregate は給与と部署別人数を集計します。
func (r *EmployeeRepository) Aggregate(ctx context.Context) (*employee.Statistics, error) {
	stats := &employee.Statistics{}
	if err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*),
               COALESCE(AVG(salary), 0),
               COALESCE(MIN(salary), 0),
               COALESCE(MAX(salary), 0)
          FROM employees`).Scan(&stats.TotalEmployees, &stats.AverageSalary, &stats.MinSalary, &stats.MaxSalary); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT department, COUNT(*) FROM employees GROUP BY department ORDER BY department`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.Departments = []employee.DepartmentCount{}
	for rows.Next() {
		var dc employee.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		stats.Departments = append(stats.Departments, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*employee.Employee, error) {
	var (
		emp                  employee.Employee
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Salary, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	emp.CreatedAt = createdAt.UTC()
	emp.UpdatedAt = updatedAt.UTC()
	return &emp, nil
}

func collectEmployees(rows *sql.Rows) ([]*employee.Employee, error) {
	defer rows.Close()

	employees := []*employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func translateSQLiteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return employee.ErrDuplicateEmail
		case sqlite3.ErrConstraintCheck:
			return employee.ErrInvalidSalary
		}
	}
	return err
}
