package employee

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
	SearchEmployees(ctx context.Context, in SearchEmployeesInput) ([]*Employee, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Name       string
	Email      string
	Department string
	Salary     float64
}

// UpdateEmployeeInput は社員更新時の入力です。nil の項目は変更しません。
type UpdateEmployeeInput struct {
	ID         int64
	Name       *string
	Email      *string
	Department *string
	Salary     *float64
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID int64
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID int64
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Skip  int
	Limit int
}

// SearchEmployeesInput は検索時の入力です。
type SearchEmployeesInput struct {
	Name       *string
	Department *string
}

// CreateEmployee は新しい社員を作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	email, err := ValidateEmailFormat(in.Email)
	if err != nil {
		return nil, err
	}

	department, err := normalizeRequiredDepartment(in.Department)
	if err != nil {
		return nil, err
	}

	if err := ValidateSalary(in.Salary); err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailAvailable(txCtx, email, 0); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Employee{
			Name:       name,
			Email:      email,
			Department: department,
			Salary:     in.Salary,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は社員情報を部分更新します。
// すべての検証に通った場合にのみ書き込みを行います。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, ErrEmployeeNotFound
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		next := *existing

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			next.Name = name
		}

		if in.Email != nil {
			email, err := ValidateEmailFormat(*in.Email)
			if err != nil {
				return err
			}
			if email != existing.Email {
				if err := s.ensureEmailAvailable(txCtx, email, existing.ID); err != nil {
					return err
				}
				next.Email = email
			}
		}

		if in.Department != nil {
			department, err := normalizeRequiredDepartment(*in.Department)
			if err != nil {
				return err
			}
			next.Department = department
		}

		if in.Salary != nil {
			if err := ValidateSalary(*in.Salary); err != nil {
				return err
			}
			if err := ValidateSalaryIncrease(existing.Salary, *in.Salary); err != nil {
				return err
			}
			next.Salary = *in.Salary
		}

		next.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, &next)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEmployee は社員を削除します。削除は取り消せません。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if in.ID <= 0 {
		return ErrEmployeeNotFound
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	})
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, ErrEmployeeNotFound
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は ID 順に社員の一覧を取得します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*Employee, error) {
	if in.Skip < 0 {
		return nil, ErrInvalidSkip
	}

	limit, err := normalizeLimit(in.Limit)
	if err != nil {
		return nil, err
	}

	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx, ListFilter{Limit: limit, Offset: in.Skip})
		if err != nil {
			return err
		}
		employees = result
		return nil
	}); err != nil {
		return nil, err
	}

	return employees, nil
}

// SearchEmployees は氏名の部分一致 (大文字小文字を区別しない) と部署の完全一致で社員を検索します。
// 両方指定した場合は AND 条件になります。
func (s *Service) SearchEmployees(ctx context.Context, in SearchEmployeesInput) ([]*Employee, error) {
	var filter SearchFilter
	if in.Name != nil {
		filter.NameContains = strings.TrimSpace(*in.Name)
	}
	if in.Department != nil {
		filter.Department = NormalizeDepartment(*in.Department)
	}

	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Search(txCtx, filter)
		if err != nil {
			return err
		}
		employees = result
		return nil
	}); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetStatistics は全社員の集計値を返します。
func (s *Service) GetStatistics(ctx context.Context) (*Statistics, error) {
	var stats *Statistics
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Aggregate(txCtx)
		if err != nil {
			return err
		}
		stats = result
		return nil
	}); err != nil {
		return nil, err
	}

	if stats == nil || stats.TotalEmployees == 0 {
		return &Statistics{Departments: []DepartmentCount{}}, nil
	}
	if stats.Departments == nil {
		stats.Departments = []DepartmentCount{}
	}
	return stats, nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string, excludingID int64) error {
	found, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if found != nil && found.ID != excludingID {
		return ErrDuplicateEmail
	}
	return nil
}

func normalizeLimit(limit int) (int, error) {
	if limit <= 0 {
		return defaultListLimit, nil
	}
	if limit > maxListLimit {
		return 0, ErrInvalidLimit
	}
	return limit, nil
}
