package employee

import "time"

// Employee は社員エンティティです。
type Employee struct {
	ID         int64
	Name       string
	Email      string
	Department string
	Salary     float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DepartmentCount は部署ごとの在籍人数です。
type DepartmentCount struct {
	Department string
	Count      int64
}

// Statistics は社員全体の集計値です。
// 社員が 0 件の場合、給与の集計値はすべて 0 になります。
type Statistics struct {
	TotalEmployees int64
	AverageSalary  float64
	MinSalary      float64
	MaxSalary      float64
	Departments    []DepartmentCount
}
