package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/maxruizg/Kaak-ecommerce/internal/catalog"
	"github.com/maxruizg/Kaak-ecommerce/internal/checkout"
	"github.com/maxruizg/Kaak-ecommerce/internal/httpx"
	"github.com/maxruizg/Kaak-ecommerce/internal/orders"
	"github.com/maxruizg/Kaak-ecommerce/internal/payment"
	"github.com/maxruizg/Kaak-ecommerce/internal/session"
	"github.com/maxruizg/Kaak-ecommerce/internal/zipcode"
)

type Config struct {
	HTTPPort        string
	SessionSecret   string
	SecureCookies   bool
	RedisAddr       string
	MongoURI        string
	MongoDBName     string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsPath  string
	KafkaBrokers    string
	SepomexBaseURL  string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		SessionSecret:   getEnv("SESSION_SECRET", "dev-secret-change-me"),
		SecureCookies:   getEnv("SECURE_COOKIES", "false") == "true",
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDBName:     getEnv("MONGO_DB_NAME", "kaakdb"),
		PostgresHost:    getEnv("POSTGRES_HOST", ""),
		PostgresPort:    getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:    getEnv("POSTGRES_USER", "kaak"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:      getEnv("POSTGRES_DB", "kaakdb"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		SepomexBaseURL:  getEnv("SEPOMEX_BASE_URL", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := loadConfig()
	ctx := context.Background()

	// Redis backs both the zip cache and, when present, the cart store.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Printf("Connected to Redis at %s", cfg.RedisAddr)
	}

	var cartStore session.Store
	if redisClient != nil {
		cartStore = session.NewRedisStore(redisClient, cfg.SecureCookies)
	} else {
		cartStore = session.NewCookieStore(cfg.SessionSecret, cfg.SecureCookies)
		log.Println("Redis not configured, carts live in signed cookies")
	}

	var products catalog.Repository
	if cfg.MongoURI != "" {
		mongoDB, err := catalog.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		products = catalog.NewMongoRepository(mongoDB)
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
	} else {
		products = catalog.NewSeededStore()
		log.Println("MongoDB not configured, serving the seeded in-memory catalog")
	}

	var orderRepo orders.Repository
	if cfg.PostgresHost != "" {
		cred := &orders.Credentials{
			Host:              cfg.PostgresHost,
			Port:              cfg.PostgresPort,
			User:              cfg.PostgresUser,
			Password:          cfg.PostgresPass,
			DBName:            cfg.PostgresDB,
			MigrationsDirPath: cfg.MigrationsPath,
		}
		repo, err := orders.NewPostgresRepository(cred)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		if err := repo.RunMigrations(cred); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		orderRepo = repo
		log.Printf("Connected to Postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)
	} else {
		orderRepo = orders.NewMemoryRepository()
		log.Println("Postgres not configured, orders live in memory")
	}
	defer orderRepo.Close()

	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if cfg.KafkaBrokers != "" {
		poller := orders.NewOutboxPoller(orderRepo, cfg.KafkaBrokers)
		go poller.Run(pollerCtx)
		log.Printf("Outbox poller publishing to %s", cfg.KafkaBrokers)
	}

	zipClient := zipcode.NewClient(cfg.SepomexBaseURL, redisClient)
	checkoutService := checkout.NewService(payment.NewStubGateway(nil), orderRepo)

	router := httpx.NewRouter(httpx.Handlers{
		Cart:     httpx.NewCartHandler(cartStore, products),
		ZipCode:  httpx.NewZipCodeHandler(zipClient.Lookup),
		Checkout: httpx.NewCheckoutHandler(cartStore, products, checkoutService),
		Orders:   httpx.NewOrdersHandler(orderRepo),
		Products: httpx.NewProductHandler(products),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "kaak-storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
