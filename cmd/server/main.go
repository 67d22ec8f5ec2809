package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"user-auth-service/internal/audit"
	auditrepo "user-auth-service/internal/audit/repository"
	"user-auth-service/internal/auth/service"
	"user-auth-service/internal/config"
	"user-auth-service/internal/db"
	"user-auth-service/internal/events"
	"user-auth-service/internal/mail"
	"user-auth-service/internal/ratelimit"
	"user-auth-service/internal/security"
	"user-auth-service/internal/server"
	sessionrepo "user-auth-service/internal/session/repository"
	tokenrepo "user-auth-service/internal/token/repository"
	userrepo "user-auth-service/internal/user/repository"
	"user-auth-service/internal/verification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("jwt private key: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("jwt public key: %v", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey,
		cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())

	var limiter ratelimit.Limiter
	var verifier verification.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb)
		verifier = verification.NewRedisStore(rdb, cfg.VerificationTTL())
	} else {
		log.Println("REDIS_ADDR not set; using in-process rate limiter and verification store")
		limiter = ratelimit.NewMemoryLimiter()
		verifier = verification.NewMemoryStore(cfg.VerificationTTL())
	}

	var mailer mail.Sender = mail.LogSender{}
	if cfg.SMTPAddr != "" {
		mailer = mail.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	bus, err := events.NewKafkaBus(cfg.KafkaBrokersList(), cfg.EventsKafkaTopic)
	if err != nil {
		log.Fatalf("events: %v", err)
	}
	if bus != nil {
		defer bus.Close()
	}

	authService := service.NewAuthService(
		userrepo.NewPostgresRepository(database),
		tokenrepo.NewPostgresRepository(database),
		sessionrepo.NewPostgresRepository(database),
		security.NewHasher(cfg.BcryptCost),
		tokens,
		limiter,
		verifier,
		mailer,
		bus,
		audit.NewLogger(auditrepo.NewPostgresRepository(database)),
		ratelimit.Policy{
			MaxAttempts:   cfg.LoginMaxAttempts,
			Window:        cfg.LoginWindowDuration(),
			BlockDuration: cfg.LoginBlock(),
		},
	)

	e := server.New(authService)

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil {
			log.Printf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	// Give in-flight async event publishes time to finish.
	time.Sleep(events.ShutdownDrainDuration)
	log.Println("HTTP server stopped")
}
