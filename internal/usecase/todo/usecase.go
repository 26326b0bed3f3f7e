package todo_usecase

import (
	"context"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ===== 外部に公開する Usecase インターフェース =====

type Usecase interface {
	Create(ctx context.Context, in domain_todo.Input) (*domain_todo.Todo, error)
	Get(ctx context.Context, id int64) (*domain_todo.Todo, error)
	List(ctx context.Context) ([]*domain_todo.Todo, error)
	Update(ctx context.Context, id int64, in domain_todo.Input) (*domain_todo.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// ===== 実装 =====

type usecase struct {
	repo   domain_todo.Repository
	logger *zap.Logger
	tracer trace.Tracer
}

func New(repo domain_todo.Repository, logger *zap.Logger) Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &usecase{
		repo:   repo,
		logger: logger,
		tracer: otel.Tracer("github.com/hijjiri/todo-api/internal/usecase/todo"),
	}
}

// Create ユースケース
func (u *usecase) Create(ctx context.Context, in domain_todo.Input) (*domain_todo.Todo, error) {
	ctx, span := u.tracer.Start(ctx, "todo.Create")
	defer span.End()

	t, err := u.repo.Create(ctx, in)
	if err != nil {
		endWithError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("todo.id", t.ID))
	u.logger.Info("todo created",
		zap.Int64("id", t.ID),
		zap.String("title", t.Title),
	)
	return t, nil
}

// Get ユースケース
func (u *usecase) Get(ctx context.Context, id int64) (*domain_todo.Todo, error) {
	ctx, span := u.tracer.Start(ctx, "todo.Get", trace.WithAttributes(attribute.Int64("todo.id", id)))
	defer span.End()

	t, err := u.repo.Get(ctx, id)
	if err != nil {
		endWithError(span, err)
		return nil, err
	}
	return t, nil
}

// List ユースケース
func (u *usecase) List(ctx context.Context) ([]*domain_todo.Todo, error) {
	ctx, span := u.tracer.Start(ctx, "todo.List")
	defer span.End()

	list, err := u.repo.List(ctx)
	if err != nil {
		endWithError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("todo.count", len(list)))
	return list, nil
}

// Update ユースケース（title / description / completed を丸ごと置き換え）
func (u *usecase) Update(ctx context.Context, id int64, in domain_todo.Input) (*domain_todo.Todo, error) {
	ctx, span := u.tracer.Start(ctx, "todo.Update", trace.WithAttributes(attribute.Int64("todo.id", id)))
	defer span.End()

	t, err := u.repo.Update(ctx, id, in)
	if err != nil {
		endWithError(span, err)
		return nil, err
	}

	u.logger.Info("todo updated",
		zap.Int64("id", t.ID),
		zap.Bool("completed", t.Completed),
	)
	return t, nil
}

// Delete ユースケース
func (u *usecase) Delete(ctx context.Context, id int64) error {
	ctx, span := u.tracer.Start(ctx, "todo.Delete", trace.WithAttributes(attribute.Int64("todo.id", id)))
	defer span.End()

	if err := u.repo.Delete(ctx, id); err != nil {
		endWithError(span, err)
		return err
	}

	u.logger.Info("todo deleted", zap.Int64("id", id))
	return nil
}

func endWithError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
