package employee

import (
	"errors"
	"testing"
)

func TestNormalizeDepartment(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"engineering":              "Engineering",
		"SALES":                    "Sales",
		"  human   resources ":     "Human Resources",
		"Research and DEVELOPMENT": "Research And Development",
		"":                         "",
		"   ":                      "",
	}

	for in, want := range cases {
		got := NormalizeDepartment(in)
		if got != want {
			t.Errorf("NormalizeDepartment(%q) = %q, want %q", in, got, want)
		}
		if again := NormalizeDepartment(got); again != got {
			t.Errorf("NormalizeDepartment is not idempotent for %q: %q -> %q", in, got, again)
		}
	}
}

func TestValidateSalary(t *testing.T) {
	t.Parallel()

	valid := []float64{MinSalary, 75000, MaxSalary}
	for _, v := range valid {
		if err := ValidateSalary(v); err != nil {
			t.Errorf("ValidateSalary(%v) returned error: %v", v, err)
		}
	}

	invalid := []float64{0, -1, 20000, MinSalary - 0.01, MaxSalary + 0.01, 1e9}
	for _, v := range invalid {
		if err := ValidateSalary(v); !errors.Is(err, ErrInvalidSalary) {
			t.Errorf("ValidateSalary(%v) expected ErrInvalidSalary, got %v", v, err)
		}
	}
}

func TestValidateSalaryIncrease(t *testing.T) {
	t.Parallel()

	cases := []struct {
		old, new float64
		ok       bool
	}{
		{old: 75000, new: 90000, ok: true},
		{old: 75000, new: 90000.01, ok: false},
		{old: 75000, new: 95000, ok: false},
		{old: 75000, new: 30000, ok: true},
		{old: 100000, new: 100000, ok: true},
	}

	for _, tc := range cases {
		err := ValidateSalaryIncrease(tc.old, tc.new)
		if tc.ok && err != nil {
			t.Errorf("%v -> %v: unexpected error %v", tc.old, tc.new, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidSalary) {
			t.Errorf("%v -> %v: expected ErrInvalidSalary, got %v", tc.old, tc.new, err)
		}
	}
}

func TestValidateEmailFormat(t *testing.T) {
	t.Parallel()

	valid := map[string]string{
		"john@company.com":         "john@company.com",
		"  John.Doe@Company.COM  ": "john.doe@company.com",
		"a+tag@sub.example.org":    "a+tag@sub.example.org",
	}
	for in, want := range valid {
		got, err := ValidateEmailFormat(in)
		if err != nil {
			t.Errorf("ValidateEmailFormat(%q) returned error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ValidateEmailFormat(%q) = %q, want %q", in, got, want)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@company.com",
		"john@localhost",
		"john@company.",
		"john@.com",
		"John <john@company.com>",
		"john@@company.com",
	}
	for _, in := range invalid {
		if _, err := ValidateEmailFormat(in); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("ValidateEmailFormat(%q) expected ErrInvalidEmail, got %v", in, err)
		}
	}
}
