// Command callgate-server runs the token-issuance HTTP service.
//
// Deployment configuration comes from AWS Secrets Manager when reachable,
// falling back to environment variables for local runs.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"callgate"
	"callgate/secrets"
	"callgate/server"
)

const (
	defaultSecretName = "asr-media-server-config"
	defaultAWSRegion  = "ap-southeast-1"
	defaultRedisAddr  = "localhost:6379"
	defaultAgentName  = "ivy"
	listenAddr        = ":8000"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deployment := loadDeployment(ctx)

	cfg := callgate.DefaultConfig()
	cfg.Media.URL = deployment.MediaServerURL
	cfg.Media.APIKey = deployment.MediaServerAPIKey
	cfg.Media.APISecret = deployment.MediaServerAPISecret
	cfg.Agent.DefaultName = deployment.DefaultAgent
	if cfg.Agent.DefaultName == "" {
		cfg.Agent.DefaultName = defaultAgentName
	}
	cfg.Audit.Enabled = true
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	redisAddr := deployment.KeyStoreAddr
	if redisAddr == "" {
		redisAddr = envOr("KEY_STORE_ADDR", defaultRedisAddr)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: deployment.KeyStorePassword,
	})
	defer rdb.Close()

	engine, err := callgate.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAuditSink(callgate.NewJSONWriterSink(os.Stderr)).
		Build()
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           server.New(engine).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", listenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// loadDeployment prefers Secrets Manager and falls back to the environment,
// so local runs work without AWS credentials.
func loadDeployment(ctx context.Context) *secrets.MediaServerConfig {
	secretName := envOr("AWS_SECRET_NAME", defaultSecretName)
	region := envOr("CUSTOM_AWS_REGION", defaultAWSRegion)

	loader, err := secrets.NewLoader(ctx, region)
	if err == nil {
		deployment, loadErr := loader.Load(ctx, secretName)
		if loadErr == nil {
			return deployment
		}
		err = loadErr
	}
	log.Printf("secrets manager unavailable (%v), falling back to environment", err)

	deployment, err := secrets.FromEnv()
	if err != nil {
		log.Fatalf("deployment config: %v", err)
	}
	return deployment
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
