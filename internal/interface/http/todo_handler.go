package httpadapter

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Create ---
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTodoInput(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	t, err := s.uc.Create(r.Context(), in)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// --- List ---
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.List(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	// 空でも null ではなく [] を返す
	if list == nil {
		list = []*domain_todo.Todo{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- Get ---
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	t, err := s.uc.Get(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// --- Update ---
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	// body のバリデーションが先（404 より 422 を優先）
	in, err := decodeTodoInput(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	t, err := s.uc.Update(r.Context(), id, in)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// --- Delete ---
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	if err := s.uc.Delete(r.Context(), id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// 整数としては正しいが int64 に収まらない → 存在しない id
		return 0, domain_todo.ErrNotFound
	}
	if err != nil {
		return 0, &requestError{msg: "invalid id", details: []string{"id: must be an integer"}}
	}
	return id, nil
}

// --- error mapper ---

// toHTTPStatus は domain / request エラーをステータスコードに寄せる。
func toHTTPStatus(err error) int {
	var re *requestError
	switch {
	case errors.Is(err, errPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &re):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain_todo.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain_todo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := toHTTPStatus(err)

	var re *requestError
	switch {
	case errors.As(err, &re):
		writeError(w, status, re.msg, re.details...)
	case status == http.StatusRequestEntityTooLarge:
		writeError(w, status, "payload too large")
	case status == http.StatusUnprocessableEntity:
		writeError(w, status, "validation failed", err.Error())
	case status == http.StatusNotFound:
		writeError(w, status, "todo not found")
	case status == http.StatusGatewayTimeout:
		writeError(w, status, "request timeout")
	default:
		// Internal詳細はログ側にだけ残す
		s.logger.Error("request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, status, "internal error")
	}
}
