package contactinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "contactdesk/internal/domain/contact"
	usecase "contactdesk/internal/usecase/contact"
)

// SQLContactRepository は PostgreSQL を使用した ContactRepository 実装。
type SQLContactRepository struct {
	db *pgxpool.Pool
}

// コンパイル時にインターフェース実装を保証する。
var _ usecase.ContactRepository = (*SQLContactRepository)(nil)

// NewSQLContactRepository は新しい SQLContactRepository を生成する。
func NewSQLContactRepository(db *pgxpool.Pool) *SQLContactRepository {
	return &SQLContactRepository{
		db: db,
	}
}

// Save は連絡先を保存する。
func (r *SQLContactRepository) Save(ctx context.Context, c *domain.Contact) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO contacts (id, name, email, phone, birthday, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Name, c.Email, c.Phone, c.Birthday, string(c.Status), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// Update は既存の連絡先を上書きする。
// 該当行がない場合は ErrContactNotFound を返す。
func (r *SQLContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE contacts
		SET name = $2, email = $3, phone = $4, birthday = $5, status = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Phone, c.Birthday, string(c.Status), c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrContactNotFound
	}
	return nil
}

// FindByID は ID を指定して連絡先を取得する。
func (r *SQLContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, birthday, status, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`, id)

	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usecase.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return c, nil
}

// FindPage は query に従って連絡先を取得する（最大 Limit+1 件）。
func (r *SQLContactRepository) FindPage(ctx context.Context, query *domain.ContactQuery) ([]*domain.Contact, error) {
	querySQL, args := r.buildQuery(query)

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return contacts, nil
}

// rowScanner は pgx.Row と pgx.Rows の共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	var c domain.Contact
	var email, phone sql.NullString
	var birthday *time.Time

	err := row.Scan(
		&c.ID,
		&c.Name,
		&email,
		&phone,
		&birthday,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	c.Birthday = birthday

	return &c, nil
}

// buildQuery は FindPage 用の SQL クエリを構築する。
// 戻り値: (SQL文字列, パラメータ配列)
func (r *SQLContactRepository) buildQuery(query *domain.ContactQuery) (string, []interface{}) {
	var whereParts []string
	var args []interface{}
	argIndex := 1

	// Status filter
	if len(query.Statuses) > 0 {
		placeholders := make([]string, len(query.Statuses))
		for i, status := range query.Statuses {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, string(status))
			argIndex++
		}
		whereParts = append(whereParts, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	// Search filter (name ILIKE)
	if query.Search != nil {
		whereParts = append(whereParts, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+*query.Search+"%")
		argIndex++
	}

	// Cursor がある場合の seek 条件
	if query.Cursor != nil {
		// WHERE: (created_at, id) > (cursor.createdAt, cursor.id)
		// 他の条件と AND で結合されるため全体を括弧で囲む
		seekCondition := fmt.Sprintf("((created_at > $%d) OR (created_at = $%d AND id > $%d))", argIndex, argIndex, argIndex+1)
		whereParts = append(whereParts, seekCondition)
		args = append(args, query.Cursor.CreatedAt, query.Cursor.ID)
		argIndex += 2
	}

	whereClause := ""
	if len(whereParts) > 0 {
		whereClause = "WHERE " + strings.Join(whereParts, " AND ")
	}

	// 並び順は cursor の seek 条件と揃えて固定
	orderByClause := "ORDER BY created_at ASC, id ASC"

	// LIMIT句（nextCursor 判定のため limit + 1 件取得）
	limitClause := fmt.Sprintf("LIMIT $%d", argIndex)
	args = append(args, query.Limit+1)

	querySQL := fmt.Sprintf(`
		SELECT
			id,
			name,
			email,
			phone,
			birthday,
			status,
			created_at,
			updated_at
		FROM contacts
		%s
		%s
		%s
	`, whereClause, orderByClause, limitClause)

	return querySQL, args
}
