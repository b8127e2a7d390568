package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/spiderworks-akhil/website-monitor-client/internals/clients/backend"
	"github.com/spiderworks-akhil/website-monitor-client/internals/config"
	"github.com/spiderworks-akhil/website-monitor-client/internals/routes"
	"github.com/spiderworks-akhil/website-monitor-client/internals/session"
	"github.com/spiderworks-akhil/website-monitor-client/internals/signin"
)

// accountType is the tenant discriminator the auth backend expects in the
// primary login payload.
const accountType = "HR"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	apiURL, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		log.Fatalf("invalid API base URL: %v", err)
	}
	authURL, err := url.Parse(cfg.AuthBaseURL)
	if err != nil {
		log.Fatalf("invalid auth base URL: %v", err)
	}

	httpClient := backend.DefaultHTTPClient()
	authClient := backend.NewAuthClient(httpClient, *authURL)
	monitor := backend.NewMonitorClient(httpClient, *apiURL)

	store, err := buildMirrorStore(cfg)
	if err != nil {
		log.Fatalf("failed to set up session mirror: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(ctx, store, monitor, cfg.ValidateInterval)
	go sessions.Run(ctx)

	flow := signin.New(authClient, monitor, sessions, accountType)

	r := routes.SetupRouter(cfg, sessions, flow, monitor)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("dashboard client listening on %s (mirror: %s)", cfg.Addr, cfg.MirrorMode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func buildMirrorStore(cfg *config.Config) (session.Store, error) {
	switch cfg.MirrorMode {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return session.NewRedisStore(client), nil
	case "file":
		return session.NewFileStore(cfg.MirrorPath)
	default:
		return session.NewMemoryStore(), nil
	}
}
