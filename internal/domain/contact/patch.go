package contact

import (
	"encoding/json"
	"time"

	"contactdesk/internal/tristate"
)

// ContactPatch は連絡先の部分更新指示を表す。
// 各フィールドは tri-state（値あり・null・未指定）であり、
//   - 値あり: そのフィールドを上書き
//   - null:   そのフィールドをクリア
//   - 未指定: そのフィールドを変更しない
//
// Name / Status は null を許さない（クリア不可、ApplyPatch で検証）。
type ContactPatch struct {
	Name     tristate.Field[string]
	Status   tristate.Field[ContactStatus]
	Email    tristate.Field[string]
	Phone    tristate.Field[string]
	Birthday tristate.Field[time.Time]
}

// IsEmpty は全フィールドが未指定かどうかを返す。
func (p ContactPatch) IsEmpty() bool {
	return p.Name.IsUnset() &&
		p.Status.IsUnset() &&
		p.Email.IsUnset() &&
		p.Phone.IsUnset() &&
		p.Birthday.IsUnset()
}

// MarshalJSON は patch 文書を JSON オブジェクトとして出力する。
// 未指定フィールドはキーごと省略される（プレースホルダは書かない）。
func (p ContactPatch) MarshalJSON() ([]byte, error) {
	obj := map[string]json.RawMessage{}

	if err := tristate.EncodeField(obj, "name", p.Name); err != nil {
		return nil, err
	}
	if err := tristate.EncodeField(obj, "status", p.Status); err != nil {
		return nil, err
	}
	if err := tristate.EncodeField(obj, "email", p.Email); err != nil {
		return nil, err
	}
	if err := tristate.EncodeField(obj, "phone", p.Phone); err != nil {
		return nil, err
	}
	if err := tristate.EncodeField(obj, "birthday", p.Birthday); err != nil {
		return nil, err
	}

	return json.Marshal(obj)
}

// UnmarshalJSON は JSON オブジェクトから patch 文書をデコードする。
// キーの有無で3状態を判定するため、オブジェクトとして受けてから
// フィールドごとに取り出す。デコードに失敗したフィールドがあれば
// 文書全体のデコードが失敗する（部分的な patch は作らない）。
func (p *ContactPatch) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}

	var out ContactPatch
	if err := tristate.DecodeField(obj, "name", &out.Name); err != nil {
		return err
	}
	if err := tristate.DecodeField(obj, "status", &out.Status); err != nil {
		return err
	}
	if err := tristate.DecodeField(obj, "email", &out.Email); err != nil {
		return err
	}
	if err := tristate.DecodeField(obj, "phone", &out.Phone); err != nil {
		return err
	}
	if err := tristate.DecodeField(obj, "birthday", &out.Birthday); err != nil {
		return err
	}

	*p = out
	return nil
}

// ApplyPatch は patch を連絡先に適用する。
// patch 自体は変更されず、何度適用しても結果は同じ（冪等）。
func (c *Contact) ApplyPatch(p ContactPatch, now time.Time) error {
	// null を許さないフィールドの検証
	if p.Name.IsNull() {
		return ErrInvalidPatch("name cannot be null")
	}
	if p.Status.IsNull() {
		return ErrInvalidPatch("status cannot be null")
	}

	if name, ok := p.Name.Value(); ok {
		if name == "" {
			return ErrInvalidPatch("name must not be empty")
		}
		c.Name = name
	}

	if status, ok := p.Status.Value(); ok {
		if !isValidStatus(status) {
			return ErrInvalidPatch("invalid status")
		}
		c.Status = status
	}

	c.Email = p.Email.Apply(c.Email)
	c.Phone = p.Phone.Apply(c.Phone)
	c.Birthday = p.Birthday.Apply(c.Birthday)

	c.UpdatedAt = now
	return nil
}
