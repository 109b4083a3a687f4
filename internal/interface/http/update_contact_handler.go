package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"contactdesk/internal/tristate"
	usecase "contactdesk/internal/usecase/contact"
)

// UpdateContactHandler は PATCH /api/contacts/{id} を処理する HTTP ハンドラ。
//
// 責務:
//   - パスパラメータから連絡先 ID を抽出する
//   - リクエストボディの JSON をパースし、フィールドごとに
//     値あり・null・未指定の3状態を判定して patch に変換する
//   - 各フィールドのバリデーションを行う（name の空文字チェック、
//     birthday の RFC3339 形式チェックなど）
//   - UpdateContactUsecase を呼び出して連絡先を更新する
//   - 更新された連絡先を JSON レスポンスとして返す
type UpdateContactHandler struct {
	updateUC *usecase.UpdateContactUsecase
	nowFn    func() time.Time
}

// NewUpdateContactHandler は UpdateContactHandler を生成する。
func NewUpdateContactHandler(
	updateUC *usecase.UpdateContactUsecase,
	nowFn func() time.Time,
) http.Handler {
	return &UpdateContactHandler{
		updateUC: updateUC,
		nowFn:    nowFn,
	}
}

// PatchContactRequest は PATCH /api/contacts/{id} のリクエストボディ。
// birthday は RFC3339 文字列として受け、handler 側で time.Time に変換する。
type PatchContactRequest struct {
	Name     tristate.Field[string]
	Status   tristate.Field[string]
	Email    tristate.Field[string]
	Phone    tristate.Field[string]
	Birthday tristate.Field[string]
}

// UnmarshalJSON はキーの有無を見てフィールドごとに3状態を判定する。
// 型が不正なフィールドがあれば *tristate.FieldError でリクエスト全体が失敗する。
func (r *PatchContactRequest) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}

	var out PatchContactRequest
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

	*r = out
	return nil
}

func (h *UpdateContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// /api/contacts/{id} または /contacts/{id} から id を抽出
	var path string
	if strings.HasPrefix(r.URL.Path, "/api/contacts/") {
		path = strings.TrimPrefix(r.URL.Path, "/api/contacts/")
	} else if strings.HasPrefix(r.URL.Path, "/contacts/") {
		path = strings.TrimPrefix(r.URL.Path, "/contacts/")
	} else {
		writeErrorResponse(w, http.StatusBadRequest, "validation error", "invalid contact id")
		return
	}

	if path == "" || strings.Contains(path, "/") {
		writeErrorResponse(w, http.StatusBadRequest, "validation error", "invalid contact id")
		return
	}

	h.handleUpdate(w, r, path)
}

func (h *UpdateContactHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	if h.updateUC == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req PatchContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// フィールドの型不一致は発生したフィールド名を含めて返す
		var fe *tristate.FieldError
		if errors.As(err, &fe) {
			writeJSONResponse(w, http.StatusBadRequest, NewValidationErrorResponse(toValidationIssue(fe)))
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "invalid json", err.Error())
		return
	}

	// 全フィールド未指定なら更新対象がない
	if req.Name.IsUnset() &&
		req.Status.IsUnset() &&
		req.Email.IsUnset() &&
		req.Phone.IsUnset() &&
		req.Birthday.IsUnset() {
		writeErrorResponse(w, http.StatusBadRequest, "validation error", "at least one field must be provided")
		return
	}

	// Name（null 不可、空文字不可）
	var namePatch tristate.Field[string]
	if req.Name.IsNull() {
		writeErrorResponse(w, http.StatusBadRequest, "validation error", "name cannot be null")
		return
	}
	if v, ok := req.Name.Value(); ok {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			writeErrorResponse(w, http.StatusBadRequest, "validation error", "contact name must not be empty")
			return
		}
		namePatch = tristate.Set(trimmed)
	}

	// Status（null 不可、Usecase 層で Parse するため文字列のまま渡す）
	if req.Status.IsNull() {
		writeErrorResponse(w, http.StatusBadRequest, "validation error", "status cannot be null")
		return
	}
	var statusStr *string
	if v, ok := req.Status.Value(); ok {
		statusStr = &v
	}

	// Email（簡易フォーマットチェック）
	if v, ok := req.Email.Value(); ok {
		if !strings.Contains(v, "@") {
			writeErrorResponse(w, http.StatusBadRequest, "validation error", "email must contain @")
			return
		}
	}

	// Birthday（RFC3339 文字列 → time.Time）
	var birthdayPatch tristate.Field[time.Time]
	if req.Birthday.IsNull() {
		birthdayPatch = tristate.Null[time.Time]()
	}
	if v, ok := req.Birthday.Value(); ok {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "validation error", "birthday must be RFC3339")
			return
		}
		birthdayPatch = tristate.Set(parsed)
	}

	in := usecase.UpdateContactInput{
		ID:        id,
		Name:      namePatch,
		StatusStr: statusStr,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  birthdayPatch,
		Now:       h.nowFn(),
	}

	c, err := h.updateUC.Execute(r.Context(), in)
	if err != nil {
		if errors.Is(err, usecase.ErrContactNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if errors.Is(err, usecase.ErrInvalidInput) {
			writeErrorResponse(w, http.StatusBadRequest, "validation error", err.Error())
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, toContactResponse(c))
}
