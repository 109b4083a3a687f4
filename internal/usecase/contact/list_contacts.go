package contact

import (
	"context"

	domain "contactdesk/internal/domain/contact"
)

// ListContactsUsecase は連絡先一覧取得ユースケース。
type ListContactsUsecase struct {
	Repo ContactRepository
}

// ListContactsOutput は一覧取得の結果。
// HasMore が true の場合、呼び出し側は最終要素から次ページの cursor を作る。
type ListContactsOutput struct {
	Contacts []*domain.Contact
	HasMore  bool
}

// Execute は query に従って連絡先を取得する。
// リポジトリは最大 Limit+1 件を返し、超過分で次ページの有無を判定する。
func (uc *ListContactsUsecase) Execute(ctx context.Context, query *domain.ContactQuery) (*ListContactsOutput, error) {
	contacts, err := uc.Repo.FindPage(ctx, query)
	if err != nil {
		return nil, err
	}

	out := &ListContactsOutput{Contacts: contacts}
	if len(contacts) > query.Limit {
		out.Contacts = contacts[:query.Limit]
		out.HasMore = true
	}

	return out, nil
}
