package todo

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Todo は Todo 集約のルートエンティティ。
type Todo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Input は create / update で受け取る「書き換え可能なフィールド」一式。
// 省略された description / completed はゼロ値（"" / false）になる。
type Input struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// ---- ドメインエラー（sentinel error） ----

var (
	// バリデーション系エラーはすべてこれに errors.Is でマッチする。
	ErrValidation = errors.New("todo validation failed")

	// 指定 ID の Todo が存在しないとき。
	ErrNotFound = errors.New("todo not found")
)

// ValidationError はどのフィールドがどのルールで落ちたかを保持する。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// struct tag ベースのバリデータ。フィールド名は json タグ名で報告する。
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate は Input の不変条件（タイトル必須）をチェックする。
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return &ValidationError{Field: fe.Field(), Reason: reasonFor(fe.Tag())}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func reasonFor(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	default:
		return "failed " + tag + " rule"
	}
}

// ---- ファクトリ / 変更 ----

// NewTodo は「新規作成用」のコンストラクタ。ID はストア側で採番する。
func NewTodo(in Input) (*Todo, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	return &Todo{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}, nil
}

// Replace は書き換え可能なフィールドを丸ごと置き換える。ID は変えない。
// バリデーションに失敗した場合は t を一切変更しない。
func (t *Todo) Replace(in Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Completed = in.Completed
	return nil
}

// Clone はストア内部のレコードと呼び出し側を切り離すためのコピー。
func (t *Todo) Clone() *Todo {
	c := *t
	return &c
}
