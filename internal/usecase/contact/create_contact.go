package contact

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "contactdesk/internal/domain/contact"
)

// ContactRepository は連絡先の永続化・取得を担当する抽象。
type ContactRepository interface {
	Save(ctx context.Context, c *domain.Contact) error
	Update(ctx context.Context, c *domain.Contact) error
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	// FindPage は query に従って最大 Limit+1 件を返す（nextCursor 判定のため）。
	FindPage(ctx context.Context, query *domain.ContactQuery) ([]*domain.Contact, error)
}

// ChangeLog は連絡先に適用した patch の記録を担当する抽象。
// patch 文書はエンコードされた JSON として永続化される。
type ChangeLog interface {
	Record(ctx context.Context, contactID string, patch domain.ContactPatch, at time.Time) error
}

// CreateContactInput は連絡先作成ユースケースの入力。
type CreateContactInput struct {
	Name     string
	Email    *string
	Phone    *string
	Birthday *time.Time
	Status   domain.ContactStatus
	Now      time.Time
}

// CreateContactUsecase は連絡先作成ユースケースを表す。
type CreateContactUsecase struct {
	Repo ContactRepository
}

// Execute は新しい連絡先を作成し、リポジトリに保存する。
// ID はサーバ側で採番する。
func (uc *CreateContactUsecase) Execute(ctx context.Context, in CreateContactInput) (*domain.Contact, error) {
	c, err := domain.NewContact(
		uuid.NewString(),
		in.Name,
		in.Email,
		in.Phone,
		in.Birthday,
		in.Status,
		in.Now,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.Repo.Save(ctx, c); err != nil {
		return c, err
	}

	return c, nil
}
