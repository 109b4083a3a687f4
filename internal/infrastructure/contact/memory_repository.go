package contactinfra

import (
	"context"
	"sort"
	"strings"

	domain "contactdesk/internal/domain/contact"
	usecase "contactdesk/internal/usecase/contact"
)

// MemoryContactRepository はメモリ上に連絡先を保持するシンプルな実装。
type MemoryContactRepository struct {
	contacts map[string]*domain.Contact
}

// コンパイル時にインターフェース実装を保証する。
var _ usecase.ContactRepository = (*MemoryContactRepository)(nil)

// NewMemoryContactRepository は空のインメモリリポジトリを生成する。
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		contacts: make(map[string]*domain.Contact),
	}
}

// Save は連絡先を保存する。ID をキーにして上書き保存する。
func (r *MemoryContactRepository) Save(_ context.Context, c *domain.Contact) error {
	if r.contacts == nil {
		r.contacts = make(map[string]*domain.Contact)
	}
	cp := *c
	r.contacts[c.ID] = &cp
	return nil
}

// Update は既存の連絡先を上書き保存する。
func (r *MemoryContactRepository) Update(_ context.Context, c *domain.Contact) error {
	if r.contacts == nil {
		return usecase.ErrContactNotFound
	}
	if _, ok := r.contacts[c.ID]; !ok {
		return usecase.ErrContactNotFound
	}
	cp := *c
	r.contacts[c.ID] = &cp
	return nil
}

// FindByID は ID を指定して連絡先を取得する。
func (r *MemoryContactRepository) FindByID(_ context.Context, id string) (*domain.Contact, error) {
	if r.contacts == nil {
		return nil, usecase.ErrContactNotFound
	}
	c, ok := r.contacts[id]
	if !ok {
		return nil, usecase.ErrContactNotFound
	}
	cp := *c
	return &cp, nil
}

// FindPage は query に従って連絡先を取得する（最大 Limit+1 件）。
// 並び順は createdAt ASC, id ASC に固定（cursor の seek 条件と揃える）。
func (r *MemoryContactRepository) FindPage(_ context.Context, query *domain.ContactQuery) ([]*domain.Contact, error) {
	out := make([]*domain.Contact, 0)
	if r.contacts == nil {
		return out, nil
	}

	for _, c := range r.contacts {
		if !matchesQuery(c, query) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	// Cursor がある場合の seek: (createdAt, id) が cursor より後のものだけ
	if query.Cursor != nil {
		seek := out[:0]
		for _, c := range out {
			if c.CreatedAt.After(query.Cursor.CreatedAt) ||
				(c.CreatedAt.Equal(query.Cursor.CreatedAt) && c.ID > query.Cursor.ID) {
				seek = append(seek, c)
			}
		}
		out = seek
	}

	// nextCursor 判定のため limit+1 件まで返す
	if len(out) > query.Limit+1 {
		out = out[:query.Limit+1]
	}
	return out, nil
}

func matchesQuery(c *domain.Contact, query *domain.ContactQuery) bool {
	if len(query.Statuses) > 0 {
		found := false
		for _, s := range query.Statuses {
			if c.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if query.Search != nil {
		if !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*query.Search)) {
			return false
		}
	}

	return true
}
