package grpcadapter

import (
	"fmt"
	"math"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"google.golang.org/protobuf/types/known/structpb"
)

// --- converter (domain <-> structpb) ---

func toProtoTodo(t *domain_todo.Todo) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
	})
}

func fromProtoTodo(s *structpb.Struct) (*domain_todo.Todo, error) {
	id, err := idField(s)
	if err != nil {
		return nil, err
	}
	in, err := inputFromStruct(s)
	if err != nil {
		return nil, err
	}
	return &domain_todo.Todo{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}, nil
}

// inputFromStruct は型が合わないフィールドだけを弾く。
// title の空チェックは domain 側（ストア境界）で行う。
func inputFromStruct(s *structpb.Struct) (domain_todo.Input, error) {
	var in domain_todo.Input
	fields := s.GetFields()

	if v, ok := fields["title"]; ok {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return in, fmt.Errorf("title must be a string")
		}
		in.Title = sv.StringValue
	}
	if v, ok := fields["description"]; ok {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return in, fmt.Errorf("description must be a string")
		}
		in.Description = sv.StringValue
	}
	if v, ok := fields["completed"]; ok {
		bv, ok := v.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return in, fmt.Errorf("completed must be a bool")
		}
		in.Completed = bv.BoolValue
	}
	return in, nil
}

func inputToStruct(in domain_todo.Input) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"completed":   in.Completed,
	})
}

// idField は Struct の "id"（number）を int64 として取り出す。
func idField(s *structpb.Struct) (int64, error) {
	v, ok := s.GetFields()["id"]
	if !ok {
		return 0, fmt.Errorf("id is required")
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("id must be a number")
	}
	f := nv.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("id must be an integer")
	}
	return int64(f), nil
}
