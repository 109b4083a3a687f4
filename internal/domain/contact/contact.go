package contact

import (
	"errors"
	"time"
)

// ContactStatus は連絡先の状態を表す型。
type ContactStatus string

const (
	StatusActive   ContactStatus = "active"
	StatusArchived ContactStatus = "archived"
)

// ParseStatus は文字列を ContactStatus に変換する。
// 不正な値の場合は ValidationError (INVALID_ENUM) を返す。
func ParseStatus(s string) (ContactStatus, error) {
	switch ContactStatus(s) {
	case StatusActive, StatusArchived:
		return ContactStatus(s), nil
	default:
		rejected := s
		return "", NewInvalidEnum("status", nil, &rejected)
	}
}

// Contact は contactdesk における連絡先のドメインモデル。
// Email / Phone / Birthday は nullable（nil = 未設定）。
type Contact struct {
	ID        string
	Name      string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	Status    ContactStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewContact は新しい連絡先を生成する。
func NewContact(
	id string,
	name string,
	email *string,
	phone *string,
	birthday *time.Time,
	status ContactStatus,
	now time.Time,
) (*Contact, error) {
	if name == "" {
		return nil, errors.New("contact name must not be empty")
	}

	if !isValidStatus(status) {
		return nil, errors.New("invalid contact status")
	}

	return &Contact{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Birthday:  birthday,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func isValidStatus(s ContactStatus) bool {
	switch s {
	case StatusActive, StatusArchived:
		return true
	default:
		return false
	}
}
