package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"flash/internal/cache"
	"flash/internal/mtnmomo"
	"flash/internal/payments"
	"flash/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 200
	defaultEnabled := false

	// Retrieve request count with error handling
	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	// Retrieve enabled flag with error handling
	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "0.3.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}

	redisDB := 0
	if val, exists := os.LookupEnv("REDIS_DB"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			redisDB = parsedVal
		}
	}

	cfg := config{
		addr:   os.Getenv("ADDR"),
		env:    os.Getenv("ENV"),
		apiURL: os.Getenv("EXTERNAL_URL"),
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		mtn: mtnConfig{
			baseURL:            os.Getenv("MTN_BASE_URL"),
			userID:             os.Getenv("MTN_USER_ID"),
			apiKey:             os.Getenv("MTN_API_KEY"),
			collectionsSubKey:  os.Getenv("MTN_COLLECTIONS_SUB_KEY"),
			disbursementSubKey: os.Getenv("MTN_DISBURSEMENT_PRIMARY_KEY"),
			targetEnv:          os.Getenv("MTN_TARGET_ENV"),
		},
		redis: redisConfig{
			addr:     os.Getenv("REDIS_ADDR"),
			password: os.Getenv("REDIS_PASSWORD"),
			db:       redisDB,
		},
		rateLimiter: LoadRateLimiterConfig(),
	}
	if cfg.addr == "" {
		cfg.addr = ":8080"
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Optional Redis-backed token cache; without it every MTN call
	// fetches a fresh access token.
	var tokenCache mtnmomo.TokenCache
	if cfg.redis.addr != "" {
		tokenCache = cache.NewTokenStore(cfg.redis.addr, cfg.redis.password, cfg.redis.db)
		logger.Infow("token cache enabled", "addr", cfg.redis.addr)
	}

	// Provider registry. Order matters: the first provider whose
	// prefix set claims a number wins.
	collections := mtnmomo.NewCollectionsClient(mtnmomo.Config{
		BaseURL:         cfg.mtn.baseURL,
		SubscriptionKey: cfg.mtn.collectionsSubKey,
		UserID:          cfg.mtn.userID,
		APIKey:          cfg.mtn.apiKey,
		TargetEnv:       cfg.mtn.targetEnv,
		TokenCache:      tokenCache,
	})
	disbursement := mtnmomo.NewDisbursementClient(mtnmomo.Config{
		BaseURL:         cfg.mtn.baseURL,
		SubscriptionKey: cfg.mtn.disbursementSubKey,
		UserID:          cfg.mtn.userID,
		APIKey:          cfg.mtn.apiKey,
		TargetEnv:       cfg.mtn.targetEnv,
		TokenCache:      tokenCache,
	})

	router := payments.NewRouter(logger,
		payments.NewMTNZambiaProvider(collections, disbursement),
		payments.NewAirtelZambiaProvider(),
	)

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		router:      router,
		logger:      logger,
		rateLimiter: rateLimiter,
	}

	// Metrics collected at http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("providers", expvar.Func(func() any {
		return router.ListProviders()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
