package contactinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	domain "contactdesk/internal/domain/contact"
	usecase "contactdesk/internal/usecase/contact"
)

// SQLChangeLog は変更履歴を PostgreSQL (JSONB) に記録する実装。
type SQLChangeLog struct {
	db *pgxpool.Pool
}

// コンパイル時にインターフェース実装を保証する。
var _ usecase.ChangeLog = (*SQLChangeLog)(nil)

// NewSQLChangeLog は新しい SQLChangeLog を生成する。
func NewSQLChangeLog(db *pgxpool.Pool) *SQLChangeLog {
	return &SQLChangeLog{
		db: db,
	}
}

// Record は patch をエンコードして contact_changes に追加する。
// 未指定フィールドのキーは JSONB にも現れない。
func (l *SQLChangeLog) Record(ctx context.Context, contactID string, patch domain.ContactPatch, at time.Time) error {
	b, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	_, err = l.db.Exec(ctx, `
		INSERT INTO contact_changes (contact_id, patch, applied_at)
		VALUES ($1, $2, $3)
	`, contactID, b, at)
	if err != nil {
		return fmt.Errorf("failed to insert change: %w", err)
	}
	return nil
}
