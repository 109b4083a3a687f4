// Package tristate は JSON フィールドの「値あり・null・未指定」の3状態を
// 区別するための型を提供する。PATCH API の部分更新指示として使う。
package tristate

import "encoding/json"

// Field は JSON オブジェクトの1フィールドが取りうる3状態を表す。
//   - Set:   フィールドが存在し、値を持つ
//   - Null:  フィールドが存在し、明示的に null
//   - Unset: フィールドがそもそも存在しない
//
// ゼロ値は Unset。3状態は排他的で、第4の状態は存在しない。
// 構築後は不変として扱う（Apply は対象側だけを変える）。
type Field[T any] struct {
	set   bool // JSON にフィールドが存在したか（未指定=false）
	null  bool // null だったか
	value T
}

// Set は値ありのフィールドを生成する。
func Set[T any](v T) Field[T] { return Field[T]{set: true, value: v} }

// Null は明示的 null のフィールドを生成する。
func Null[T any]() Field[T] { return Field[T]{set: true, null: true} }

// Unset は未指定のフィールドを生成する（ゼロ値と同じ）。
func Unset[T any]() Field[T] { return Field[T]{} }

// FromPtr は nullable なポインタをフィールドに変換する。
// nil は Null になる（未指定にはならない）。
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Set(*p)
}

// IsSet は JSON にフィールドが存在するか（値あり or null）を返す。
func (f Field[T]) IsSet() bool { return f.set }

// IsNull は明示的 null かどうかを返す。
func (f Field[T]) IsNull() bool { return f.set && f.null }

// IsUnset は未指定かどうかを返す。
func (f Field[T]) IsUnset() bool { return !f.set }

// HasValue は値を持つかどうかを返す。
func (f Field[T]) HasValue() bool { return f.set && !f.null }

// Value は保持している値と、値を持つかどうかを返す。
func (f Field[T]) Value() (T, bool) {
	if !f.HasValue() {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Ptr は値ありなら値へのポインタ、それ以外は nil を返す。
func (f Field[T]) Ptr() *T {
	if !f.HasValue() {
		return nil
	}
	v := f.value
	return &v
}

// Apply は部分更新の指示として現在値 cur に適用した結果を返す。
//   - 値あり: 新しい値で上書き
//   - null:   クリア（nil）
//   - 未指定: cur をそのまま返す
//
// 純粋関数であり、何度適用しても結果は同じ（冪等）。
func (f Field[T]) Apply(cur *T) *T {
	switch {
	case f.HasValue():
		v := f.value
		return &v
	case f.IsNull():
		return nil
	default:
		return cur
	}
}

// Equal は2つのフィールドが同じ状態（かつ値ありなら同じ値）かどうかを返す。
func Equal[T comparable](a, b Field[T]) bool {
	if a.set != b.set || a.null != b.null {
		return false
	}
	if a.HasValue() {
		return a.value == b.value
	}
	return true
}

// IsZero は未指定かどうかを返す。
// `json:"...,omitzero"` タグと組み合わせると、未指定フィールドのキーが
// 出力から省略される。キーの省略はコンテナ側の責務であり、この型の
// MarshalJSON 単体ではキーを消せない点に注意。
func (f Field[T]) IsZero() bool { return !f.set }

// MarshalJSON は値ありなら T のエンコード結果、それ以外は null を出力する。
// 未指定のフィールドは呼び出し側が omitzero / EncodeField で省略すること。
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.HasValue() {
		return json.Marshal(f.value)
	}
	return []byte("null"), nil
}

// UnmarshalJSON は JSON 値をデコードし、null と値ありを区別する。
// キーが存在しない場合はそもそも呼ばれないため、ゼロ値（未指定）が残る。
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.set = true
	if string(b) == "null" {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(b, &f.value)
}
