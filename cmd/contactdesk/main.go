package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	contactinfra "contactdesk/internal/infrastructure/contact"
	httphandler "contactdesk/internal/interface/http"
	usecase "contactdesk/internal/usecase/contact"
)

var serveOpts = struct {
	Addr string
	DSN  string
}{}

var rootCmd = &cobra.Command{
	Use:   "contactdesk",
	Short: "Contact management service with patch-style updates.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server.",
	Long: `Start the HTTP server.

Without --dsn (or DB_DSN), contacts are kept in memory and lost on
restart. With a PostgreSQL DSN, contacts and their change history are
persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.Addr, "addr", "", "listen address (default :8080, env CONTACTDESK_ADDR)")
	serveCmd.Flags().StringVar(&serveOpts.DSN, "dsn", "", "PostgreSQL DSN (env DB_DSN)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	addr := serveOpts.Addr
	if addr == "" {
		addr = os.Getenv("CONTACTDESK_ADDR")
	}
	if addr == "" {
		addr = ":8080"
	}

	dsn := serveOpts.DSN
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}

	// リポジトリ（DSN があれば PostgreSQL、なければインメモリ）
	var repo usecase.ContactRepository
	var changes usecase.ChangeLog
	if dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return err
		}
		repo = contactinfra.NewSQLContactRepository(pool)
		changes = contactinfra.NewSQLChangeLog(pool)
		logger.Info("using postgresql repository")
	} else {
		repo = contactinfra.NewMemoryContactRepository()
		changes = contactinfra.NewMemoryChangeLog()
		logger.Warn("DB_DSN is not set, using in-memory repository (data is lost on restart)")
	}

	// ユースケース
	createUC := &usecase.CreateContactUsecase{Repo: repo}
	listUC := &usecase.ListContactsUsecase{Repo: repo}
	updateUC := &usecase.UpdateContactUsecase{Repo: repo, Changes: changes}

	// cursor secret（環境変数から取得、環境に応じて検証）
	cursorSecret, err := resolveCursorSecret(os.Getenv("APP_ENV"), os.Getenv("CURSOR_SECRET"))
	if err != nil {
		return err
	}

	// HTTP ハンドラ
	createHandler := httphandler.NewCreateContactHandler(createUC, time.Now)
	listHandler := httphandler.NewListContactHandler(listUC, time.Now, cursorSecret)
	updateHandler := httphandler.NewUpdateContactHandler(updateUC, time.Now)

	// /api/contacts の統合ハンドラ（POST と GET の両方を処理）
	contactsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createHandler.ServeHTTP(w, r)
		case http.MethodGet:
			listHandler.ServeHTTP(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux := http.NewServeMux()

	// API はすべて /api 配下
	mux.Handle("/api/contacts", contactsHandler)
	// PATCH /api/contacts/{id}
	mux.Handle("/api/contacts/", updateHandler)

	// ヘルスチェック
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	logger.Info("contactdesk listening", zap.String("addr", addr))

	return http.ListenAndServe(addr, httphandler.WithRequestLogging(logger, mux))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
