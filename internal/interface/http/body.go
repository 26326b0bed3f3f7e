package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// create / update で共通の body スキーマ。未知フィールドは無視する。
const todoInputSchema = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title":       {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "completed":   {"type": "boolean"}
  }
}`

var todoInput = jsonschema.MustCompileString("todo_input.json", todoInputSchema)

// errPayloadTooLarge は body が maxBodyBytes を超えたとき（413 に寄せる）。
var errPayloadTooLarge = errors.New("payload too large")

// requestError は body / path が形として不正なとき（422 に寄せる）。
type requestError struct {
	msg     string
	details []string
}

func (e *requestError) Error() string {
	if len(e.details) == 0 {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.details)
}

type todoInputRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// decodeTodoInput は body を読み、スキーマ検証してから domain の Input にする。
// description / completed が省略されたらデフォルト値。
func decodeTodoInput(r *http.Request) (domain_todo.Input, error) {
	raw, err := readBody(r, maxBodyBytes)
	if errors.Is(err, errPayloadTooLarge) {
		return domain_todo.Input{}, err
	}
	if err != nil {
		return domain_todo.Input{}, &requestError{msg: "invalid body", details: []string{"body: " + err.Error()}}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain_todo.Input{}, &requestError{msg: "invalid JSON", details: []string{"body: " + err.Error()}}
	}

	if err := todoInput.Validate(doc); err != nil {
		return domain_todo.Input{}, &requestError{msg: "validation failed", details: schemaDetails(err)}
	}

	var req todoInputRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return domain_todo.Input{}, &requestError{msg: "invalid JSON", details: []string{"body: " + err.Error()}}
	}

	in := domain_todo.Input{Title: req.Title}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Completed != nil {
		in.Completed = *req.Completed
	}
	return in, nil
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	defer r.Body.Close()
	lr := io.LimitReader(r.Body, limit+1)

	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, errors.New("failed to read body")
	}
	if int64(len(b)) > limit {
		return nil, errPayloadTooLarge
	}
	return b, nil
}

// schemaDetails は ValidationError の木を "location: message" の一覧に平たくする。
func schemaDetails(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	var out []string
	collectSchemaErrors(ve, &out)
	sort.Strings(out)
	return out
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "body"
		}
		*out = append(*out, loc+": "+err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}
