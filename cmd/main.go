package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"newsdigest/internal/agent"
	"newsdigest/internal/config"
	"newsdigest/internal/creds"
	"newsdigest/internal/notifier"
	"newsdigest/internal/pipeline"
	"newsdigest/internal/search"
	"newsdigest/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, cleanup, err := buildStore(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to set up store: %v", err)
		return
	}
	defer cleanup()

	var gen agent.Generator
	switch config.Get().AIType {
	case "ollama":
		if config.Get().AIBaseURL == "" {
			log.Printf("[ERROR] ai_base_url is required when ai_type is \"ollama\"")
			return
		}
		gen = agent.NewOllamaGenerator(
			config.Get().AIBaseURL,
			config.Get().AIModel,
			config.Get().AITimeout,
		)
		log.Printf("[INFO] using Ollama generator (model: %s)", config.Get().AIModel)
	default:
		if config.Get().AIKey == "" {
			log.Printf("[ERROR] ai_key is required when ai_type is \"openai\"")
			return
		}
		gen = agent.NewOpenAIGenerator(
			config.Get().AIBaseURL,
			config.Get().AIKey,
			config.Get().AIModel,
			config.Get().AITimeout,
		)
		log.Printf("[INFO] using OpenAI-compatible generator (model: %s)", config.Get().AIModel)
	}

	notif, err := buildNotifier()
	if err != nil {
		log.Printf("[ERROR] failed to set up notifier: %v", err)
		return
	}

	runner := pipeline.NewRunner(pipeline.Deps{
		Search: search.NewGoogleNews(
			config.Get().SearchFeedURL,
			config.Get().SearchTimeout,
			config.Get().SearchMaxHits,
		),
		Research: agent.NewResearcher(gen, config.Get().Keywords),
		Rate:     agent.NewRater(gen, config.Get().Keywords),
		Store:    store,
		Notifier: notif,
		Keywords: config.Get().Keywords,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "AI News Bot is live.")
	})
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		runCtx, cancel := context.WithTimeout(r.Context(), config.Get().RunTimeout)
		defer cancel()

		res, err := runner.Run(runCtx)
		if errors.Is(err, pipeline.ErrRunInProgress) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		fmt.Fprintln(w, res.Summary())
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              config.Get().ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] failed to shut down http server: %v", err)
		}
	}()

	log.Printf("[INFO] listening on %s", config.Get().ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[ERROR] failed to run http server: %v", err)
	}
}

// buildStore wires the configured store backend. The returned cleanup releases
// whatever the backend holds open: the decoded credential file for sheets, the
// connection pool for postgres.
func buildStore(ctx context.Context) (pipeline.Store, func(), error) {
	switch config.Get().StoreType {
	case "postgres":
		db, err := sqlx.Connect("postgres", config.Get().DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to db: %w", err)
		}

		pg := storage.NewPostgresStore(db)
		if err := pg.Init(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		log.Printf("[INFO] using Postgres store")
		return pg, func() { db.Close() }, nil
	default:
		if config.Get().SpreadsheetID == "" {
			return nil, nil, fmt.Errorf("spreadsheet_id is required when store_type is \"sheets\"")
		}

		credsPath, cleanup, err := creds.WriteServiceAccount(config.Get().GoogleCredentialsB64)
		if err != nil {
			return nil, nil, fmt.Errorf("prepare google credentials: %w", err)
		}

		st, err := storage.NewSheetsStore(ctx, credsPath, config.Get().SpreadsheetID, config.Get().SheetName)
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		log.Printf("[INFO] using Google Sheets store (spreadsheet: %s)", config.Get().SpreadsheetID)
		return st, cleanup, nil
	}
}

func buildNotifier() (pipeline.Notifier, error) {
	switch config.Get().NotifierType {
	case "telegram":
		if config.Get().TelegramToken == "" {
			return nil, fmt.Errorf("telegram_bot_token is required when notifier_type is \"telegram\"")
		}

		botAPI, err := tgbotapi.NewBotAPI(config.Get().TelegramToken)
		if err != nil {
			return nil, fmt.Errorf("create botAPI: %w", err)
		}

		log.Printf("[INFO] using Telegram notifier (chat: %d)", config.Get().TelegramChatID)
		return notifier.NewTelegramNotifier(botAPI, config.Get().TelegramChatID), nil
	default:
		if config.Get().SlackWebhookURL == "" {
			return nil, fmt.Errorf("slack_webhook_url is required when notifier_type is \"slack\"")
		}

		log.Printf("[INFO] using Slack webhook notifier")
		return notifier.NewSlackNotifier(config.Get().SlackWebhookURL, 30*time.Second), nil
	}
}
