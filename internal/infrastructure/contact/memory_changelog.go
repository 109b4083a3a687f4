package contactinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "contactdesk/internal/domain/contact"
	usecase "contactdesk/internal/usecase/contact"
)

// ChangeEntry は記録された patch 1件を表す。
// Patch はエンコード済みの JSON 文書（未指定フィールドのキーは含まれない）。
type ChangeEntry struct {
	ContactID string
	Patch     json.RawMessage
	At        time.Time
}

// MemoryChangeLog は変更履歴をメモリ上に保持する実装。
type MemoryChangeLog struct {
	entries []ChangeEntry
}

// コンパイル時にインターフェース実装を保証する。
var _ usecase.ChangeLog = (*MemoryChangeLog)(nil)

// NewMemoryChangeLog は空の変更履歴を生成する。
func NewMemoryChangeLog() *MemoryChangeLog {
	return &MemoryChangeLog{}
}

// Record は patch をエンコードして履歴に追加する。
func (l *MemoryChangeLog) Record(_ context.Context, contactID string, patch domain.ContactPatch, at time.Time) error {
	b, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}
	l.entries = append(l.entries, ChangeEntry{
		ContactID: contactID,
		Patch:     b,
		At:        at,
	})
	return nil
}

// Entries は記録済みの履歴を返す（テスト用）。
func (l *MemoryChangeLog) Entries() []ChangeEntry {
	return l.entries
}
