package employee

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinSalary = 30000
	MaxSalary = 500000

	maxNameLength       = 100
	maxEmailLength      = 100
	maxDepartmentLength = 50
)

// ValidateSalary は給与が許容範囲 [MinSalary, MaxSalary] に収まるか検証します。
func ValidateSalary(value float64) error {
	if value < MinSalary || value > MaxSalary {
		return ErrInvalidSalary
	}
	return nil
}

// ValidateSalaryIncrease は 1 回の更新での昇給幅が 20% 以内か検証します。
// 減給は下限チェック (ValidateSalary) 以外に制約を設けません。
func ValidateSalaryIncrease(oldSalary, newSalary float64) error {
	// new <= old * 1.2 を浮動小数の丸めなしで判定する
	if newSalary*5 > oldSalary*6 {
		return ErrInvalidSalary
	}
	return nil
}

// NormalizeDepartment は部署名を Title Case に正規化します。
// 前後の空白を除去し、連続する空白は 1 つにまとめます。空文字列は空文字列を返します。
func NormalizeDepartment(raw string) string {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return ""
	}
	// cases.Caser は状態を持つため呼び出しごとに生成する
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

// ValidateEmailFormat はメールアドレスの書式を検証し、小文字化したアドレスを返します。
func ValidateEmailFormat(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > maxEmailLength {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Name != "" || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}

	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 {
		return "", ErrInvalidEmail
	}

	domain := addr.Address[at+1:]
	if !strings.Contains(domain, ".") {
		return "", ErrInvalidEmail
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return "", ErrInvalidEmail
		}
	}

	return strings.ToLower(addr.Address), nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeRequiredDepartment(raw string) (string, error) {
	department := NormalizeDepartment(raw)
	if department == "" || utf8.RuneCountInString(department) > maxDepartmentLength {
		return "", ErrInvalidDepartment
	}
	return department, nil
}
