package config

import "time"

// APIConfig holds runtime configuration for the identity and project API.
type APIConfig struct {
	Environment        string
	Addr               string
	DatabaseURL        string
	MigrationsDir      string
	SessionTTL         time.Duration
	SuperAdminUsername string
	SuperAdminPassword string
	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
	CORSOrigin         string
}

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:        GetString("APP_ENV", "development"),
		Addr:               GetString("API_ADDR", ":4000"),
		DatabaseURL:        GetString("DATABASE_URL", "postgres://agilesync:agilesync@db:5432/agilesync?sslmode=disable"),
		MigrationsDir:      GetString("DB_MIGRATIONS_DIR", "./db/migrations"),
		SessionTTL:         time.Duration(GetInt("SESSION_TTL_HOURS", 8)) * time.Hour,
		SuperAdminUsername: GetString("SUPERADMIN_USERNAME", ""),
		SuperAdminPassword: GetString("SUPERADMIN_PASSWORD", ""),
		RateLimitRedisAddr: GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass: GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   GetInt("RATE_LIMIT_REDIS_DB", 0),
		CORSOrigin:         GetString("CORS_ORIGIN", "http://localhost:5001"),
	}
}
