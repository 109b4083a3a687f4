package tristate

import (
	"encoding/json"
	"fmt"
)

// FieldError はフィールドの値が期待する型としてデコードできなかった場合の
// typed error。HTTP 層で errors.As を使ってフィールド名を取り出せる。
// 未指定や null とは決して混同しない（デコード失敗は失敗のまま返す）。
type FieldError struct {
	Field string // デコードに失敗したフィールド名
	cause error  // 元のエラー（Unwrap 用）
}

// Error は error インターフェースを満たす。
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.cause)
}

// Unwrap は cause を返す（errors.Unwrap 対応）。
func (e *FieldError) Unwrap() error {
	return e.cause
}

// DecodeField はデコード済み JSON オブジェクトからキー key を取り出し、
// 3状態を判定して f に書き込む。
//   - キーなし        → 未指定
//   - 値が null       → null
//   - それ以外        → T としてデコード（失敗時は *FieldError）
//
// encoding/json はカスタム Unmarshaler が返したエラーにフィールド名を
// 付けないため、フィールド名の特定はオブジェクト側のキー参照で行う。
func DecodeField[T any](obj map[string]json.RawMessage, key string, f *Field[T]) error {
	raw, ok := obj[key]
	if !ok {
		*f = Unset[T]()
		return nil
	}
	if string(raw) == "null" {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return &FieldError{Field: key, cause: err}
	}
	*f = Set(v)
	return nil
}

// EncodeField はフィールドをオブジェクトに書き込む。
// 未指定の場合はキー自体を追加しない（プレースホルダも書かない）。
func EncodeField[T any](obj map[string]json.RawMessage, key string, f Field[T]) error {
	if f.IsUnset() {
		return nil
	}
	b, err := f.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode field %q: %w", key, err)
	}
	obj[key] = b
	return nil
}
