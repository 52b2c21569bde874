package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"tubecert-service/internal/app"
	"tubecert-service/internal/auth"
	"tubecert-service/internal/config"
	"tubecert-service/internal/gateway/gemini"
	"tubecert-service/internal/gateway/youtubeapi"
	"tubecert-service/internal/infra/memory"
	pgstore "tubecert-service/internal/infra/postgres"
	rediscache "tubecert-service/internal/infra/redis"
	transport "tubecert-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the certificate server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var quizStore app.QuizStore = memory.NewQuizStore()
	var certStore app.CertificateStore = memory.NewCertificateStore()
	if pool != nil {
		quizStore = pgstore.NewQuizStore(pool)
		certStore = pgstore.NewCertificateStore(pool)
	} else {
		log.Printf("postgres not configured, using in-memory stores")
	}

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		quizStore = rediscache.NewQuizCache(redisClient, quizStore, cacheTTL)
	}

	titles := youtubeapi.NewClient(cfg.YouTube.APIKey)
	generator := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)

	var verifier auth.Verifier
	if cfg.Auth.ClientID != "" {
		verifier = auth.NewGoogleVerifier(cfg.Auth.ClientID)
	} else {
		log.Printf("auth client_id not configured, using dev token verifier")
		verifier = auth.StaticVerifier{"dev-token": {UserID: "dev-user", Name: "Dev User"}}
	}

	quizService := app.NewQuizService(quizStore, titles, generator)
	certService := app.NewCertificateService(quizStore, certStore)
	handler := transport.NewHandler(quizService, certService, verifier)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // quiz generation can take a while
	}

	go func() {
		log.Printf("starting tubecert service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
