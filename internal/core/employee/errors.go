package employee

import (
	"errors"
	"fmt"
)

var (
	ErrEmployeeNotFound = errors.New("employee: not found")
	ErrInvalidSalary    = errors.New("employee: invalid salary")
	ErrInvalidEmail     = errors.New("employee: invalid email")
	ErrDuplicateEmail   = errors.New("employee: email already exists")

	// ErrValidation は入力形式の不備を表す基底エラーです。
	ErrValidation = errors.New("employee: validation error")

	ErrInvalidName       = fmt.Errorf("invalid name: %w", ErrValidation)
	ErrInvalidDepartment = fmt.Errorf("invalid department: %w", ErrValidation)
	ErrInvalidSkip       = fmt.Errorf("invalid skip: %w", ErrValidation)
	ErrInvalidLimit      = fmt.Errorf("invalid limit: %w", ErrValidation)
)
