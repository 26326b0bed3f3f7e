// internal/usecase/todo/usecase_test.go
package todo_usecase

import (
	"context"
	"errors"
	"testing"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"go.uber.org/zap"
)

// テスト用のモック Repository
type mockRepo struct {
	// 挙動を制御するためのフィールド
	createFn func(ctx context.Context, in domain_todo.Input) (*domain_todo.Todo, error)
	getFn    func(ctx context.Context, id int64) (*domain_todo.Todo, error)
	listFn   func(ctx context.Context) ([]*domain_todo.Todo, error)
	updateFn func(ctx context.Context, id int64, in domain_todo.Input) (*domain_todo.Todo, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockRepo) Create(ctx context.Context, in domain_todo.Input) (*domain_todo.Todo, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return domain_todo.NewTodo(in)
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*domain_todo.Todo, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain_todo.ErrNotFound
}

func (m *mockRepo) List(ctx context.Context) ([]*domain_todo.Todo, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*domain_todo.Todo{}, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, in domain_todo.Input) (*domain_todo.Todo, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, in)
	}
	return &domain_todo.Todo{ID: id, Title: in.Title, Description: in.Description, Completed: in.Completed}, nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func TestUsecase_Create_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		createFn: func(ctx context.Context, in domain_todo.Input) (*domain_todo.Todo, error) {
			td, err := domain_todo.NewTodo(in)
			if err != nil {
				return nil, err
			}
			// 疑似的にIDを付与する
			td.ID = 1
			return td, nil
		},
	}

	uc := New(repo, zap.NewNop())

	got, err := uc.Create(context.Background(), domain_todo.Input{Title: "テストタイトル", Description: "説明"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if got.ID != 1 {
		t.Errorf("expected ID=1, got %d", got.ID)
	}
	if got.Title != "テストタイトル" {
		t.Errorf("expected Title=%q, got %q", "テストタイトル", got.Title)
	}
	if got.Description != "説明" {
		t.Errorf("expected Description=%q, got %q", "説明", got.Description)
	}
	if got.Completed {
		t.Errorf("expected Completed=false, got true")
	}
}

func TestUsecase_Create_EmptyTitle(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	uc := New(repo, zap.NewNop())

	_, err := uc.Create(context.Background(), domain_todo.Input{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain_todo.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestUsecase_Get_NotFound(t *testing.T) {
	t.Parallel()

	uc := New(&mockRepo{}, nil)

	_, err := uc.Get(context.Background(), 42)
	if !errors.Is(err, domain_todo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUsecase_List_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		listFn: func(ctx context.Context) ([]*domain_todo.Todo, error) {
			return []*domain_todo.Todo{
				{ID: 1, Title: "A", Completed: false},
				{ID: 2, Title: "B", Completed: true},
			}, nil
		},
	}

	uc := New(repo, zap.NewNop())

	list, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(list))
	}
	if list[0].Title != "A" || list[1].Title != "B" {
		t.Errorf("unexpected titles: %#v", list)
	}
}

func TestUsecase_List_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	repo := &mockRepo{
		listFn: func(ctx context.Context) ([]*domain_todo.Todo, error) {
			return nil, boom
		},
	}

	uc := New(repo, zap.NewNop())

	if _, err := uc.List(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected repo error, got %v", err)
	}
}

func TestUsecase_Delete_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			if id != 1 {
				t.Errorf("expected id=1, got %d", id)
			}
			return nil
		},
	}

	uc := New(repo, zap.NewNop())

	if err := uc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}

func TestUsecase_Delete_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return domain_todo.ErrNotFound // 削除対象なし
		},
	}
	uc := New(repo, zap.NewNop())

	err := uc.Delete(context.Background(), 123)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain_todo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUsecase_Update_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		updateFn: func(ctx context.Context, id int64, in domain_todo.Input) (*domain_todo.Todo, error) {
			if id != 3 {
				t.Errorf("expected id=3, got %d", id)
			}
			return &domain_todo.Todo{ID: id, Title: in.Title, Description: in.Description, Completed: in.Completed}, nil
		},
	}

	uc := New(repo, zap.NewNop())

	got, err := uc.Update(context.Background(), 3, domain_todo.Input{Title: "更新タイトル", Completed: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if got.ID != 3 || got.Title != "更新タイトル" || !got.Completed {
		t.Errorf("unexpected updated todo: %#v", got)
	}
}
