package http

import (
	"errors"
	"log"
	"strconv"

	domain "contactdesk/internal/domain/contact"
	"contactdesk/internal/tristate"
)

// ValidationIssue は 400 レスポンスに含める検証エラー1件を表す。
type ValidationIssue struct {
	Location      string  `json:"location"`                // "query" | "path" | "body"
	Field         string  `json:"field"`                   // 例: status, cursor, birthday
	Code          string  `json:"code"`                    // 例: INVALID_ENUM
	Message       string  `json:"message"`                 // クライアントが直すべき内容がわかる文言
	RejectedValue *string `json:"rejectedValue,omitempty"` // 出せる場合のみ
}

type ErrorResponse struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details,omitempty"`
}

type ErrorDetails struct {
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidationErrorResponse は 400 用の統一レスポンスを生成する。
func NewValidationErrorResponse(issues ...ValidationIssue) ErrorResponse {
	resp := ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: "Invalid parameters",
	}
	if len(issues) > 0 {
		resp.Details = &ErrorDetails{Issues: issues}
	}
	return resp
}

// toValidationIssue は domain / tristate のエラーを ValidationIssue に変換する。
// errors.Is / errors.As を使用し、文字列判定は行わない。
func toValidationIssue(err error) ValidationIssue {
	if err == nil {
		return ValidationIssue{
			Location: "query",
			Field:    "unknown",
			Code:     "UNKNOWN",
			Message:  "Unknown validation error",
		}
	}

	// 1. Handler 側 typed error: InvalidLimitError
	var ile *InvalidLimitError
	if errors.As(err, &ile) {
		rejected := ile.RejectedValue
		return ValidationIssue{
			Location:      "query",
			Field:         "limit",
			Code:          "INVALID_FORMAT",
			Message:       "limit は整数で指定してください（例: limit=50）。",
			RejectedValue: &rejected,
		}
	}

	// 2. tristate typed error: FieldError（body のフィールド型不一致）
	var fe *tristate.FieldError
	if errors.As(err, &fe) {
		return ValidationIssue{
			Location: "body",
			Field:    fe.Field,
			Code:     "INVALID_TYPE",
			Message:  "フィールド " + fe.Field + " の型が不正です。",
		}
	}

	// 3. Domain typed error: ValidationError (INVALID_ENUM / INVALID_FORMAT)
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ValidationIssue{
			Location:      "query",
			Field:         ve.Field,
			Code:          ve.Code,
			Message:       getMessageForFieldAndCode(ve.Field, ve.Code),
			RejectedValue: ve.RejectedValue,
		}
	}

	// 4. Domain sentinel errors
	switch {
	case errors.Is(err, domain.ErrLimitOutOfRange):
		return ValidationIssue{
			Location: "query",
			Field:    "limit",
			Code:     "INVALID_RANGE",
			Message:  "limit は 1〜200 の整数で指定してください（未指定または 1 未満は 200 に正規化されます）。",
		}

	case errors.Is(err, domain.ErrCursorInvalidFormat):
		return ValidationIssue{
			Location: "query",
			Field:    "cursor",
			Code:     "INVALID_FORMAT",
			Message:  "cursor の形式が不正です。",
		}

	case errors.Is(err, domain.ErrCursorInvalidSignature):
		return ValidationIssue{
			Location: "query",
			Field:    "cursor",
			Code:     "INVALID_SIGNATURE",
			Message:  "cursor の署名が不正です。",
		}

	case errors.Is(err, domain.ErrCursorExpired):
		return ValidationIssue{
			Location: "query",
			Field:    "cursor",
			Code:     "EXPIRED",
			Message:  "cursor の有効期限が切れています。",
		}

	case errors.Is(err, domain.ErrCursorQueryMismatch):
		return ValidationIssue{
			Location: "query",
			Field:    "cursor",
			Code:     "QUERY_MISMATCH",
			Message:  "cursor のクエリ条件が一致しません。フィルタ等が変更された可能性があります。",
		}
	}

	// fallback: 想定外でも 400 の形式は崩さない（ログ出力してデバッグ可能に）
	log.Printf("WARNING: unmapped validation error: %T %v", err, err)
	return ValidationIssue{
		Location: "query",
		Field:    "unknown",
		Code:     "UNKNOWN",
		Message:  "パラメータが不正です。入力内容を確認してください。",
	}
}

// getMessageForFieldAndCode は field と code の組み合わせから固定メッセージを返す。
func getMessageForFieldAndCode(field, code string) string {
	switch field {
	case "status":
		if code == "INVALID_ENUM" {
			return "status は 'active','archived' のいずれかをカンマ区切りで指定してください（例: status=active,archived）。"
		}
	case "birthday":
		if code == "INVALID_FORMAT" {
			return "birthday は RFC3339 形式で指定してください（例: birthday=1990-04-01T00:00:00Z）。"
		}
	}

	// fallback
	return "パラメータが不正です。入力内容を確認してください。"
}

// --- InvalidLimitError: handler側の limit パースエラー用 typed error ---

// InvalidLimitError は limit パース失敗時のエラー。
// 文字列パースに頼らず、構造化された rejectedValue を持つ。
type InvalidLimitError struct {
	RejectedValue string // パースに失敗した元の値
	cause         error  // 元のエラー（strconv.Atoi の戻り値など）
}

// Error は error インターフェースを満たす。
func (e *InvalidLimitError) Error() string {
	return "invalid limit format: " + e.RejectedValue
}

// Unwrap は cause を返す（errors.Unwrap 対応）。
func (e *InvalidLimitError) Unwrap() error {
	return e.cause
}

// ParseLimit は limit クエリパラメータをパースする。
// 失敗したら InvalidLimitError を返し、toValidationIssue で errors.As で判定できる。
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		// 未指定は Query Object 側で default を入れる
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidLimitError{RejectedValue: raw, cause: err}
	}
	return v, nil
}
