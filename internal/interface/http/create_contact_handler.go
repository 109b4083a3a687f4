package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	domain "contactdesk/internal/domain/contact"
	usecase "contactdesk/internal/usecase/contact"
)

// CreateContactHandler は POST /api/contacts を処理する HTTP ハンドラ。
type CreateContactHandler struct {
	createUC *usecase.CreateContactUsecase
	nowFn    func() time.Time
}

// NewCreateContactHandler は CreateContactHandler を生成する。
func NewCreateContactHandler(
	createUC *usecase.CreateContactUsecase,
	nowFn func() time.Time,
) http.Handler {
	return &CreateContactHandler{
		createUC: createUC,
		nowFn:    nowFn,
	}
}

// CreateContactRequest は POST /api/contacts のリクエストボディ。
// 作成時は null と未指定を区別する必要がないため、nullable フィールドは
// 単純なポインタで受ける。
type CreateContactRequest struct {
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Birthday *string `json:"birthday"` // RFC3339
	Status   *string `json:"status"`   // 未指定は active
}

func (h *CreateContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if h.createUC == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid json", err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeErrorResponse(w, http.StatusBadRequest, "validation error", "contact name must not be empty")
		return
	}

	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		writeErrorResponse(w, http.StatusBadRequest, "validation error", "email must contain @")
		return
	}

	var birthday *time.Time
	if req.Birthday != nil {
		parsed, err := time.Parse(time.RFC3339, *req.Birthday)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "validation error", "birthday must be RFC3339")
			return
		}
		birthday = &parsed
	}

	// status 未指定は active
	status := domain.StatusActive
	if req.Status != nil {
		parsed, err := domain.ParseStatus(*req.Status)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "validation error", err.Error())
			return
		}
		status = parsed
	}

	c, err := h.createUC.Execute(r.Context(), usecase.CreateContactInput{
		Name:     name,
		Email:    req.Email,
		Phone:    req.Phone,
		Birthday: birthday,
		Status:   status,
		Now:      h.nowFn(),
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			writeErrorResponse(w, http.StatusBadRequest, "validation error", err.Error())
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toContactResponse(c))
}
