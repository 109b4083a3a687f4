package main

import (
	"errors"
	"log"
)

const placeholderSecret = "change-me-in-production"

// #nosec G101 -- 本物のクレデンシャルではなく、開発環境専用のフォールバック値
const devFallbackSecret = "contactdesk-dev-secret"

// resolveCursorSecret は CURSOR_SECRET を環境に応じて解決する。
// production (APP_ENV=production) では未設定・プレースホルダのままはエラー。
// dev / test では警告を出して開発用の固定値にフォールバックする。
func resolveCursorSecret(appEnv string, raw string) ([]byte, error) {
	if appEnv == "production" {
		if raw == "" {
			return nil, errors.New("CURSOR_SECRET must be set in production")
		}
		if raw == placeholderSecret {
			return nil, errors.New("CURSOR_SECRET must not be the placeholder value in production")
		}
		return []byte(raw), nil
	}

	if raw == "" {
		log.Println("WARNING: CURSOR_SECRET is not set, using dev fallback secret (not for production)")
		return []byte(devFallbackSecret), nil
	}

	return []byte(raw), nil
}
