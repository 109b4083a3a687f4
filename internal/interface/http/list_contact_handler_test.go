package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	contactinfra "contactdesk/internal/infrastructure/contact"
	httpiface "contactdesk/internal/interface/http"
	usecase "contactdesk/internal/usecase/contact"
)

// seedContacts は createdAt を1秒ずつずらして n 件の連絡先を保存する。
func seedContacts(t *testing.T, repo *contactinfra.MemoryContactRepository, n int) {
	t.Helper()

	createUC := &usecase.CreateContactUsecase{Repo: repo}
	for i := 0; i < n; i++ {
		_, err := createUC.Execute(context.Background(), usecase.CreateContactInput{
			Name:   fmt.Sprintf("contact-%03d", i),
			Status: "active",
			Now:    fixedNow().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("failed to seed contact %d: %v", i, err)
		}
	}
}

type listResponse struct {
	Contacts []struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"contacts"`
	NextCursor *string `json:"nextCursor"`
}

func doList(t *testing.T, handler http.Handler, query url.Values) (*http.Response, listResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/contacts?"+query.Encode(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	res := w.Result()
	var body listResponse
	if res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	res.Body.Close()
	return res, body
}

func TestListContactHandler_Basic(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	seedContacts(t, repo, 3)

	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	res, body := doList(t, handler, url.Values{})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}

	if len(body.Contacts) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(body.Contacts))
	}
	// createdAt ASC 順
	for i := 1; i < len(body.Contacts); i++ {
		if body.Contacts[i].CreatedAt.Before(body.Contacts[i-1].CreatedAt) {
			t.Errorf("expected contacts sorted by createdAt ASC")
		}
	}
	if body.NextCursor != nil {
		t.Errorf("expected no nextCursor, got %s", *body.NextCursor)
	}
}

func TestListContactHandler_CursorPagination(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	seedContacts(t, repo, 5)

	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	// 1ページ目: limit=2
	res1, page1 := doList(t, handler, url.Values{"limit": {"2"}})
	if res1.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res1.StatusCode)
	}
	if len(page1.Contacts) != 2 {
		t.Fatalf("expected 2 contacts on page 1, got %d", len(page1.Contacts))
	}
	if page1.NextCursor == nil {
		t.Fatalf("expected nextCursor on page 1")
	}

	// 2ページ目: cursor を使って続きから取得
	res2, page2 := doList(t, handler, url.Values{"limit": {"2"}, "cursor": {*page1.NextCursor}})
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res2.StatusCode)
	}
	if len(page2.Contacts) != 2 {
		t.Fatalf("expected 2 contacts on page 2, got %d", len(page2.Contacts))
	}
	if page2.NextCursor == nil {
		t.Fatalf("expected nextCursor on page 2")
	}

	// 重複なし
	seen := map[string]bool{}
	for _, c := range append(page1.Contacts, page2.Contacts...) {
		if seen[c.ID] {
			t.Errorf("contact %s appeared on both pages", c.ID)
		}
		seen[c.ID] = true
	}

	// 最終ページ: 残り1件、nextCursor なし
	res3, page3 := doList(t, handler, url.Values{"limit": {"2"}, "cursor": {*page2.NextCursor}})
	if res3.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res3.StatusCode)
	}
	if len(page3.Contacts) != 1 {
		t.Fatalf("expected 1 contact on page 3, got %d", len(page3.Contacts))
	}
	if page3.NextCursor != nil {
		t.Errorf("expected no nextCursor on last page")
	}
}

func TestListContactHandler_StatusFilter(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	createUC := &usecase.CreateContactUsecase{Repo: repo}
	ctx := context.Background()

	if _, err := createUC.Execute(ctx, usecase.CreateContactInput{
		Name: "active one", Status: "active", Now: fixedNow(),
	}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	if _, err := createUC.Execute(ctx, usecase.CreateContactInput{
		Name: "archived one", Status: "archived", Now: fixedNow().Add(time.Second),
	}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	res, body := doList(t, handler, url.Values{"status": {"archived"}})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if len(body.Contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(body.Contacts))
	}
	if body.Contacts[0].Status != "archived" {
		t.Errorf("expected status 'archived', got %s", body.Contacts[0].Status)
	}
}

func TestListContactHandler_SearchFilter(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	createUC := &usecase.CreateContactUsecase{Repo: repo}
	ctx := context.Background()

	for i, name := range []string{"Alice Young", "Bob Stone", "alice cooper"} {
		if _, err := createUC.Execute(ctx, usecase.CreateContactInput{
			Name: name, Status: "active", Now: fixedNow().Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}

	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	// name 部分一致は大文字小文字を無視
	res, body := doList(t, handler, url.Values{"q": {"alice"}})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if len(body.Contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(body.Contacts))
	}
}

func TestListContactHandler_InvalidStatus(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	res, _ := doList(t, handler, url.Values{"status": {"deleted"}})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", res.StatusCode)
	}
}

func TestListContactHandler_InvalidLimit(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	res, _ := doList(t, handler, url.Values{"limit": {"abc"}})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", res.StatusCode)
	}
}

func TestListContactHandler_CursorSignatureMismatch(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	seedContacts(t, repo, 3)

	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	// 別の鍵で署名された cursor を取得
	otherHandler := httpiface.NewListContactHandler(listUC, time.Now, []byte("other-secret"))
	res1, page1 := doList(t, otherHandler, url.Values{"limit": {"1"}})
	if res1.StatusCode != http.StatusOK || page1.NextCursor == nil {
		t.Fatalf("failed to obtain cursor: status %d", res1.StatusCode)
	}

	res2, _ := doList(t, handler, url.Values{"limit": {"1"}, "cursor": {*page1.NextCursor}})
	if res2.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", res2.StatusCode)
	}
}

func TestListContactHandler_CursorExpired(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	seedContacts(t, repo, 3)

	listUC := &usecase.ListContactsUsecase{Repo: repo}

	// cursor 発行時刻を固定
	issuedHandler := httpiface.NewListContactHandler(listUC, fixedNow, testCursorSecret)
	res1, page1 := doList(t, issuedHandler, url.Values{"limit": {"1"}})
	if res1.StatusCode != http.StatusOK || page1.NextCursor == nil {
		t.Fatalf("failed to obtain cursor: status %d", res1.StatusCode)
	}

	// 25時間後に同じ cursor を使う → 期限切れ
	laterNow := func() time.Time { return fixedNow().Add(25 * time.Hour) }
	laterHandler := httpiface.NewListContactHandler(listUC, laterNow, testCursorSecret)

	res2, _ := doList(t, laterHandler, url.Values{"limit": {"1"}, "cursor": {*page1.NextCursor}})
	if res2.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", res2.StatusCode)
	}
}

func TestListContactHandler_CursorQueryMismatch(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	seedContacts(t, repo, 3)

	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	res1, page1 := doList(t, handler, url.Values{"limit": {"1"}})
	if res1.StatusCode != http.StatusOK || page1.NextCursor == nil {
		t.Fatalf("failed to obtain cursor: status %d", res1.StatusCode)
	}

	// ページ送り中にフィルタ条件を変えると QUERY_MISMATCH
	res2, _ := doList(t, handler, url.Values{
		"limit":  {"1"},
		"status": {"archived"},
		"cursor": {*page1.NextCursor},
	})
	if res2.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", res2.StatusCode)
	}
}

func TestListContactHandler_CursorGarbage(t *testing.T) {
	repo := contactinfra.NewMemoryContactRepository()
	listUC := &usecase.ListContactsUsecase{Repo: repo}
	handler := httpiface.NewListContactHandler(listUC, time.Now, testCursorSecret)

	res, _ := doList(t, handler, url.Values{"cursor": {"not-a-cursor"}})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", res.StatusCode)
	}
}
