package contact

import (
	"context"
	"fmt"
	"testing"
	"time"

	domain "contactdesk/internal/domain/contact"
)

func TestListContacts_HasMore(t *testing.T) {
	repo := newMemoryRepo()
	uc := &ListContactsUsecase{Repo: repo}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("c%d", i+1)
		c, err := domain.NewContact(id, "名前", nil, nil, nil, domain.StatusActive, base.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}
		if err := repo.Save(context.Background(), c); err != nil {
			t.Fatalf("failed to save contact: %v", err)
		}
	}

	q, _ := domain.NewContactQuery(domain.WithLimit(2))
	out, err := uc.Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// limit 件に切り詰められ、超過分は HasMore に変換される
	if len(out.Contacts) != 2 {
		t.Errorf("expected 2 contacts, got=%d", len(out.Contacts))
	}
	if !out.HasMore {
		t.Errorf("expected HasMore=true")
	}
}

func TestListContacts_NoMore(t *testing.T) {
	repo := newMemoryRepo()
	uc := &ListContactsUsecase{Repo: repo}

	c, err := domain.NewContact("c1", "名前", nil, nil, nil, domain.StatusActive, time.Now())
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if err := repo.Save(context.Background(), c); err != nil {
		t.Fatalf("failed to save contact: %v", err)
	}

	q, _ := domain.NewContactQuery(domain.WithLimit(10))
	out, err := uc.Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Contacts) != 1 {
		t.Errorf("expected 1 contact, got=%d", len(out.Contacts))
	}
	if out.HasMore {
		t.Errorf("expected HasMore=false")
	}
}
