package contact

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// cursorTTLSeconds は cursor の有効期間（24時間）。
const cursorTTLSeconds = 86400

// CursorPayload は cursor の payload を表す。
type CursorPayload struct {
	V         int    `json:"v"`
	CreatedAt string `json:"createdAt"` // RFC3339Nano だが **micro秒精度**
	ID        string `json:"id"`
	QHash     string `json:"qhash"`
	IssuedAt  int64  `json:"iat"`
}

// EncodeCursor は cursor をエンコードする。
// payload(JSON) → base64.RawURLEncoding（paddingなし） = encodedPayload
// sig = HMAC-SHA256(secret, encodedPayload) → base64.RawURLEncoding
// cursor = encodedPayload + "." + sig
func EncodeCursor(payload CursorPayload, secret []byte) (string, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadJSON)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(encodedPayload))
	sig := mac.Sum(nil)

	encodedSig := base64.RawURLEncoding.EncodeToString(sig)

	return encodedPayload + "." + encodedSig, nil
}

// DecodeCursor は cursor をデコードし、署名を検証する。
// エラーは validation error として返す（500にしない）。
func DecodeCursor(cursorStr string, secret []byte) (*CursorPayload, error) {
	// フォーマットチェック: "payload.sig" の形式
	parts := strings.Split(cursorStr, ".")
	if len(parts) != 2 {
		return nil, ErrCursorInvalidFormat
	}

	encodedPayload := parts[0]
	encodedSig := parts[1]

	payloadJSON, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, ErrCursorInvalidFormat
	}

	var payload CursorPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, ErrCursorInvalidFormat
	}

	expectedSig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return nil, ErrCursorInvalidFormat
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(encodedPayload))
	computedSig := mac.Sum(nil)

	if !hmac.Equal(expectedSig, computedSig) {
		return nil, ErrCursorInvalidSignature
	}

	return &payload, nil
}

// ParseCursorCreatedAt は cursor の createdAt 文字列を time.Time に変換し、
// micro秒に丸める。
func ParseCursorCreatedAt(createdAtStr string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cursor format: %w", err)
	}
	return t.Truncate(time.Microsecond), nil
}

// FormatCursorCreatedAt は time.Time を RFC3339Nano 形式の文字列に変換する
// （micro秒精度）。
func FormatCursorCreatedAt(t time.Time) string {
	return t.Truncate(time.Microsecond).Format(time.RFC3339Nano)
}

// ValidateCursorExpiry は cursor の有効期限をチェックする（24時間）。
func ValidateCursorExpiry(payload *CursorPayload, now time.Time) error {
	if now.Unix()-payload.IssuedAt > cursorTTLSeconds {
		return ErrCursorExpired
	}
	return nil
}
