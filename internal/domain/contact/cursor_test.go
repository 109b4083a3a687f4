package contact

import (
	"errors"
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestCursor_RoundTrip(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	payload := CursorPayload{
		V:         1,
		CreatedAt: FormatCursorCreatedAt(now),
		ID:        "contact-1",
		QHash:     "abc",
		IssuedAt:  now.Unix(),
	}

	cursor, err := EncodeCursor(payload, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := DecodeCursor(cursor, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decoded.ID != payload.ID || decoded.CreatedAt != payload.CreatedAt || decoded.QHash != payload.QHash {
		t.Errorf("expected %+v, got=%+v", payload, *decoded)
	}
}

func TestDecodeCursor_InvalidFormat(t *testing.T) {
	cases := []string{
		"",
		"no-dot-here",
		"a.b.c",
		"!!!.???",
	}

	for _, c := range cases {
		if _, err := DecodeCursor(c, testSecret); !errors.Is(err, ErrCursorInvalidFormat) {
			t.Errorf("cursor %q: expected ErrCursorInvalidFormat, got=%v", c, err)
		}
	}
}

func TestDecodeCursor_TamperedSignature(t *testing.T) {
	payload := CursorPayload{V: 1, ID: "contact-1", IssuedAt: time.Now().Unix()}

	cursor, err := EncodeCursor(payload, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 別の secret で検証すると署名不一致
	if _, err := DecodeCursor(cursor, []byte("other-secret")); !errors.Is(err, ErrCursorInvalidSignature) {
		t.Errorf("expected ErrCursorInvalidSignature, got=%v", err)
	}
}

func TestValidateCursorExpiry(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	fresh := &CursorPayload{IssuedAt: now.Add(-1 * time.Hour).Unix()}
	if err := ValidateCursorExpiry(fresh, now); err != nil {
		t.Errorf("unexpected error for fresh cursor: %v", err)
	}

	expired := &CursorPayload{IssuedAt: now.Add(-25 * time.Hour).Unix()}
	if err := ValidateCursorExpiry(expired, now); !errors.Is(err, ErrCursorExpired) {
		t.Errorf("expected ErrCursorExpired, got=%v", err)
	}
}

func TestParseCursorCreatedAt_TruncatesToMicro(t *testing.T) {
	// nano 秒が落ちて micro 秒に丸まる
	in := "2026-02-01T12:00:00.123456789Z"
	got, err := ParseCursorCreatedAt(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 2, 1, 12, 0, 0, 123456000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got=%v", want, got)
	}
}
