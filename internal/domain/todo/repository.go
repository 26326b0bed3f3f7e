package todo

import "context"

// Repository は Todo コレクションのポート。
// Get / Update / Delete は対象が無ければ ErrNotFound を返す。
type Repository interface {
	Create(ctx context.Context, in Input) (*Todo, error)
	Get(ctx context.Context, id int64) (*Todo, error)
	List(ctx context.Context) ([]*Todo, error)
	Update(ctx context.Context, id int64, in Input) (*Todo, error)
	Delete(ctx context.Context, id int64) error
}
