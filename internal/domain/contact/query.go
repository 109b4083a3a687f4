package contact

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ContactQuery は連絡先検索条件を表す Query Object。
// 条件定義のみを担当し、フィルタリング・リミット処理の実装詳細は
// リポジトリ層に委譲する。
type ContactQuery struct {
	// Filters
	Statuses []ContactStatus // status フィルタ
	Search   *string         // q (name 部分一致検索)

	// Limit
	Limit int // limit (default 200, max 200, min 1)

	// Cursor
	Cursor *ContactCursor // cursor デコード結果
}

// ContactCursor は cursor のデコード結果を保持する。
type ContactCursor struct {
	CreatedAt time.Time
	ID        string
	QHash     string
	IssuedAt  int64
}

// NewContactQuery は Query Object を構築し、正規化を行う。
// エラーはバリデーションエラーの場合のみ返す。
func NewContactQuery(opts ...ContactQueryOption) (*ContactQuery, error) {
	q := &ContactQuery{
		Limit: 200, // default
	}

	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}

	// Limit の正規化（1-200にクランプ）
	if q.Limit < 1 {
		q.Limit = 200
	}
	if q.Limit > 200 {
		q.Limit = 200
	}

	return q, nil
}

// ContactQueryOption は Query Object の構築オプション。
type ContactQueryOption func(*ContactQuery) error

// WithStatusFilter は status フィルタを設定する（カンマ区切り文字列）。
func WithStatusFilter(statusStr string) ContactQueryOption {
	return func(q *ContactQuery) error {
		if statusStr == "" {
			return nil
		}

		parts := strings.Split(statusStr, ",")
		statuses := make([]ContactStatus, 0, len(parts))
		seen := make(map[ContactStatus]bool)

		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			status, err := ParseStatus(part)
			if err != nil {
				return fmt.Errorf("invalid status in filter: %w", err)
			}

			// 重複排除
			if !seen[status] {
				statuses = append(statuses, status)
				seen[status] = true
			}
		}

		q.Statuses = statuses
		return nil
	}
}

// WithSearch は q（name 部分一致検索）フィルタを設定する。
func WithSearch(queryStr string) ContactQueryOption {
	return func(q *ContactQuery) error {
		trimmed := strings.TrimSpace(queryStr)
		if trimmed == "" {
			return nil
		}
		q.Search = &trimmed
		return nil
	}
}

// WithLimit は limit を設定する。正規化は NewContactQuery 側で行う。
func WithLimit(limit int) ContactQueryOption {
	return func(q *ContactQuery) error {
		q.Limit = limit
		return nil
	}
}

// WithCursor は cursor を設定する。
func WithCursor(c *ContactCursor) ContactQueryOption {
	return func(q *ContactQuery) error {
		q.Cursor = c
		return nil
	}
}

// Hash はフィルタ条件の正規化ハッシュを返す。
// cursor にフィルタ条件を埋め込み、ページ送り中の条件変更を検出する。
func (q *ContactQuery) Hash() string {
	statuses := make([]string, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)

	search := ""
	if q.Search != nil {
		search = *q.Search
	}

	canonical := "statuses=" + strings.Join(statuses, ",") + "&q=" + search

	sum := sha256.Sum256([]byte(canonical))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
