package http

import (
	"net/http"
	"time"

	domain "contactdesk/internal/domain/contact"
	usecase "contactdesk/internal/usecase/contact"
)

// ListContactHandler は GET /api/contacts を処理する HTTP ハンドラ。
//
// クエリパラメータ:
//   - status: カンマ区切りの status フィルタ
//   - q:      name 部分一致検索
//   - limit:  1〜200（未指定は 200）
//   - cursor: 前回レスポンスの nextCursor
type ListContactHandler struct {
	listUC       *usecase.ListContactsUsecase
	nowFn        func() time.Time
	cursorSecret []byte
}

// NewListContactHandler は ListContactHandler を生成する。
func NewListContactHandler(
	listUC *usecase.ListContactsUsecase,
	nowFn func() time.Time,
	cursorSecret []byte,
) http.Handler {
	return &ListContactHandler{
		listUC:       listUC,
		nowFn:        nowFn,
		cursorSecret: cursorSecret,
	}
}

// listContactsResponse は一覧取得のレスポンス。
type listContactsResponse struct {
	Contacts   []contactResponse `json:"contacts"`
	NextCursor *string           `json:"nextCursor"`
}

func (h *ListContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if h.listUC == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	params := r.URL.Query()
	now := h.nowFn()

	limit, err := ParseLimit(params.Get("limit"))
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, NewValidationErrorResponse(toValidationIssue(err)))
		return
	}

	opts := []domain.ContactQueryOption{
		domain.WithStatusFilter(params.Get("status")),
		domain.WithSearch(params.Get("q")),
		domain.WithLimit(limit),
	}

	// cursor のデコード・検証（署名、期限、クエリ条件の一致）
	var payload *domain.CursorPayload
	if cursorStr := params.Get("cursor"); cursorStr != "" {
		payload, err = domain.DecodeCursor(cursorStr, h.cursorSecret)
		if err != nil {
			writeJSONResponse(w, http.StatusBadRequest, NewValidationErrorResponse(toValidationIssue(err)))
			return
		}
		if err := domain.ValidateCursorExpiry(payload, now); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, NewValidationErrorResponse(toValidationIssue(err)))
			return
		}

		createdAt, err := domain.ParseCursorCreatedAt(payload.CreatedAt)
		if err != nil {
			writeJSONResponse(w, http.StatusBadRequest, NewValidationErrorResponse(toValidationIssue(domain.ErrCursorInvalidFormat)))
			return
		}

		opts = append(opts, domain.WithCursor(&domain.ContactCursor{
			CreatedAt: createdAt,
			ID:        payload.ID,
			QHash:     payload.QHash,
			IssuedAt:  payload.IssuedAt,
		}))
	}

	query, err := domain.NewContactQuery(opts...)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, NewValidationErrorResponse(toValidationIssue(err)))
		return
	}

	// ページ送り中にフィルタ条件が変わっていないか
	if payload != nil && payload.QHash != query.Hash() {
		writeJSONResponse(w, http.StatusBadRequest, NewValidationErrorResponse(toValidationIssue(domain.ErrCursorQueryMismatch)))
		return
	}

	out, err := h.listUC.Execute(r.Context(), query)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := listContactsResponse{
		Contacts: make([]contactResponse, 0, len(out.Contacts)),
	}
	for _, c := range out.Contacts {
		resp.Contacts = append(resp.Contacts, toContactResponse(c))
	}

	// 次ページがあれば最終要素から cursor を作る
	if out.HasMore && len(out.Contacts) > 0 {
		last := out.Contacts[len(out.Contacts)-1]
		cursor, err := domain.EncodeCursor(domain.CursorPayload{
			V:         1,
			CreatedAt: domain.FormatCursorCreatedAt(last.CreatedAt),
			ID:        last.ID,
			QHash:     query.Hash(),
			IssuedAt:  now.Unix(),
		}, h.cursorSecret)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp.NextCursor = &cursor
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
