package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "contactdesk/internal/domain/contact"
	"contactdesk/internal/tristate"
)

// UpdateContactInput は連絡先更新ユースケースの入力。
// HTTP 層から受け取った情報を ContactPatch に変換する。
type UpdateContactInput struct {
	ID        string
	Name      tristate.Field[string]
	StatusStr *string // Usecase 層で Parse する
	Email     tristate.Field[string]
	Phone     tristate.Field[string]
	Birthday  tristate.Field[time.Time]
	Now       time.Time
}

// UpdateContactUsecase は連絡先更新ユースケースを表す。
type UpdateContactUsecase struct {
	Repo    ContactRepository
	Changes ChangeLog // nil の場合は記録しない
}

// Execute は既存の連絡先を取得し、patch で指定されたフィールドだけを更新する。
// 未指定のフィールドは変更されない。
func (uc *UpdateContactUsecase) Execute(ctx context.Context, in UpdateContactInput) (*domain.Contact, error) {
	existing, err := uc.Repo.FindByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrContactNotFound, err)
		}
		return nil, err
	}

	// ContactPatch を組み立てる
	patch := domain.ContactPatch{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Birthday: in.Birthday,
	}

	// Status (Usecase 層で Parse)
	if in.StatusStr != nil {
		parsed, err := domain.ParseStatus(*in.StatusStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		patch.Status = tristate.Set(parsed)
	}

	if err := existing.ApplyPatch(patch, in.Now); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := uc.Repo.Update(ctx, existing); err != nil {
		if errors.Is(err, ErrContactNotFound) {
			return existing, fmt.Errorf("%w: %v", ErrContactNotFound, err)
		}
		return existing, err
	}

	// 適用した patch を変更履歴に残す
	if uc.Changes != nil {
		if err := uc.Changes.Record(ctx, existing.ID, patch, in.Now); err != nil {
			return existing, fmt.Errorf("failed to record change: %w", err)
		}
	}

	return existing, nil
}
