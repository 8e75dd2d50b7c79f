package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverFirestore = "firestore"
	StoreDriverPostgres  = "postgres"
)

type Config struct {
	Port            string
	JWTSecret       string
	SessionTTL      time.Duration
	GoogleAudiences []string
	AllowOrigins    []string
	LogstashTCPAddr string
	LogLevel        string
	SwaggerSpecPath string

	StoreDriver              string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	DatabaseURL              string
	TripsCollection          string
	UsageCollection          string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOUseSSL       bool
	MinIOBucketShares string
	MinIOPublicURL    string

	AIAPIKey            string
	AIBaseURL           string
	AIRestBaseURL       string
	AIModel             string
	AIFallbackModels    []string
	AIModelPreferences  []string
	AIDiscoveryAttempts int
	AITimeout           time.Duration
	AIMaxOutputTokens   int64

	DailyTripLimit    int
	QuotaTimezone     string
	GenerationLockTTL time.Duration

	LocationIQAPIKey  string
	LocationIQBaseURL string
	PlacesCacheTTL    time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := Config{
		Port:            getenv("PORT", "8080"),
		JWTSecret:       must("JWT_SECRET"),
		SessionTTL:      durationEnv("SESSION_TTL", 24*time.Hour),
		GoogleAudiences: splitList(getenv("GOOGLE_CLIENT_IDS", "")),
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		SwaggerSpecPath: getenv("SWAGGER_SPEC_PATH", "docs/swagger.yaml"),

		StoreDriver:              strings.ToLower(getenv("STORE_DRIVER", StoreDriverFirestore)),
		FirestoreCredentialsFile: getenv("FIRESTORE_CREDENTIALS_FILE", ""),
		TripsCollection:          getenv("TRIPS_COLLECTION", "Trips"),
		UsageCollection:          getenv("USAGE_COLLECTION", "UserDailyUsage"),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       intEnv("REDIS_DB", 0),

		MinIOEndpoint:     getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:    getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:    getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:       getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketShares: getenv("MINIO_BUCKET_SHARES", "trip-shares"),
		MinIOPublicURL:    getenv("MINIO_PUBLIC_URL", ""),

		AIAPIKey:            must("AI_API_KEY"),
		AIBaseURL:           getenv("AI_BASE_URL", "https://api.groq.com/openai/v1"),
		AIRestBaseURL:       getenv("AI_REST_BASE_URL", "https://api.groq.com/openai/v1"),
		AIModel:             getenv("AI_MODEL", "llama-3.3-70b-versatile"),
		AIFallbackModels:    splitList(getenv("AI_FALLBACK_MODELS", "llama-3.1-70b-versatile,llama-3.1-8b-instant,mixtral-8x7b-32768")),
		AIModelPreferences:  splitList(getenv("AI_MODEL_PREFERENCES", "llama-3.3,llama-3.1,llama3,mixtral,gemma")),
		AIDiscoveryAttempts: intEnv("AI_DISCOVERY_ATTEMPTS", 1),
		AITimeout:           durationEnv("AI_TIMEOUT", 60*time.Second),
		AIMaxOutputTokens:   int64(intEnv("AI_MAX_OUTPUT_TOKENS", 0)),

		DailyTripLimit:    intEnv("DAILY_TRIP_LIMIT", 1),
		QuotaTimezone:     getenv("QUOTA_TIMEZONE", "UTC"),
		GenerationLockTTL: durationEnv("GENERATION_LOCK_TTL", 2*time.Minute),

		LocationIQAPIKey:  getenv("LOCATIONIQ_API_KEY", ""),
		LocationIQBaseURL: getenv("LOCATIONIQ_BASE_URL", "https://api.locationiq.com/v1"),
		PlacesCacheTTL:    durationEnv("PLACES_CACHE_TTL", 10*time.Minute),
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		cfg.DatabaseURL = must("DATABASE_URL")
	default:
		cfg.StoreDriver = StoreDriverFirestore
		cfg.FirestoreProjectID = must("FIRESTORE_PROJECT_ID")
	}

	if cfg.DailyTripLimit < 1 {
		cfg.DailyTripLimit = 1
	}
	if cfg.AIDiscoveryAttempts < 0 {
		cfg.AIDiscoveryAttempts = 0
	}
	return cfg
}

// QuotaLocation resolves QuotaTimezone, falling back to UTC when it is unknown.
func (c Config) QuotaLocation() *time.Location {
	loc, err := time.LoadLocation(c.QuotaTimezone)
	if err != nil {
		log.Printf("Warning: unknown QUOTA_TIMEZONE %q, using UTC: %v", c.QuotaTimezone, err)
		return time.UTC
	}
	return loc
}

func (c Config) MinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

func splitAndTrim(input string) []string {
	out := splitList(input)
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func intEnv(k string, d int) int {
	v, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return d
	}
	return v
}

func durationEnv(k string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(k, ""))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
