// Package memory はプロセス内メモリに Todo を保持するストア実装。
package memory

import (
	"context"
	"sync"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"go.uber.org/zap"
)

// TodoStore は Todo コレクションの唯一の所有者。
// ID は単調増加で採番し、削除済み ID は再利用しない。
type TodoStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*domain_todo.Todo
	order  []int64 // 挿入順
	logger *zap.Logger
}

var _ domain_todo.Repository = (*TodoStore)(nil)

func NewTodoStore(logger *zap.Logger) *TodoStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoStore{
		nextID: 1,
		items:  make(map[int64]*domain_todo.Todo),
		logger: logger,
	}
}

// Create はバリデーション後に ID を採番して保存する。失敗時は何も保存しない。
func (s *TodoStore) Create(ctx context.Context, in domain_todo.Input) (*domain_todo.Todo, error) {
	t, err := domain_todo.NewTodo(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID
	s.nextID++

	s.items[t.ID] = t
	s.order = append(s.order, t.ID)

	s.logger.Debug("todo stored", zap.Int64("id", t.ID))
	return t.Clone(), nil
}

func (s *TodoStore) Get(ctx context.Context, id int64) (*domain_todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.items[id]
	if !ok {
		return nil, domain_todo.ErrNotFound
	}
	return t.Clone(), nil
}

// List は呼ばれるたびに現在の状態のスナップショットを挿入順で返す。
func (s *TodoStore) List(ctx context.Context) ([]*domain_todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := make([]*domain_todo.Todo, 0, len(s.order))
	for _, id := range s.order {
		todos = append(todos, s.items[id].Clone())
	}
	return todos, nil
}

func (s *TodoStore) Update(ctx context.Context, id int64, in domain_todo.Input) (*domain_todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.items[id]
	if !ok {
		return nil, domain_todo.ErrNotFound
	}

	// 失敗時は t を変更しない（Replace 側で保証）
	if err := t.Replace(in); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (s *TodoStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain_todo.ErrNotFound
	}
	delete(s.items, id)

	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.logger.Debug("todo removed", zap.Int64("id", id))
	return nil
}

// Len は現在保持している件数（metrics の gauge 用）。
func (s *TodoStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
