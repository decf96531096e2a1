package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context, filter ListFilter) ([]*Employee, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Employee, error)
	Aggregate(ctx context.Context) (*Statistics, error)
}

// ListFilter は一覧取得用フィルタです。
type ListFilter struct {
	Limit  int
	Offset int
}

// SearchFilter は検索条件です。空文字列の項目は条件に含めません。
type SearchFilter struct {
	NameContains string
	Department   string
}
