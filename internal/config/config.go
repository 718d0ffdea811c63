package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"beanthere/internal/domain"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	// SupabaseServiceKey is only needed by the seed CLI (admin user creation)
	SupabaseServiceKey string
	CORSOrigins        string
	TablePrefix        string
	// Backends
	StoreBackend  string // "supabase" (PostgREST) or "postgres" (direct pgx)
	BlobBackend   string // "supabase" or "s3"
	StorageBucket string
	S3            S3Config
	// Places provider
	PlacesAPIKey   string
	PlacesBaseURL  string
	PlacesCacheTTL time.Duration
	RedisAddr      string
	RedisPassword  string
	// Device-local key/value store
	LocalStorePath string
	IPLookupURL    string
	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
	// TrustedProxies lists the CIDRs or IPs allowed to set X-Forwarded-For
	TrustedProxies string
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

// S3Config holds settings for the S3-compatible blob backend.
type S3Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string // leave empty for real AWS
	BaseURL  string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	// Construct JWKS URL from Supabase URL
	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		SupabaseURL:        supabaseURL,
		SupabaseKey:        getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:      getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL:    jwksURL,
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:        tablePrefix,
		StoreBackend:       getEnv("STORE_BACKEND", "supabase"),
		BlobBackend:        getEnv("BLOB_BACKEND", "supabase"),
		StorageBucket:      getEnv("STORAGE_BUCKET", "avatars"),
		S3: S3Config{
			Bucket:   getEnv("S3_BUCKET", ""),
			Region:   getEnv("S3_REGION", "us-east-1"),
			Key:      getEnv("S3_KEY", ""),
			Secret:   getEnv("S3_SECRET", ""),
			Endpoint: getEnv("S3_ENDPOINT", ""),
			BaseURL:  strings.TrimRight(getEnv("S3_URL", ""), "/"),
		},
		PlacesAPIKey:   getEnv("GOOGLE_PLACES_API_KEY", ""),
		PlacesBaseURL:  getEnv("PLACES_BASE_URL", ""),
		PlacesCacheTTL: getDuration("PLACES_CACHE_TTL", 5*time.Minute),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		LocalStorePath: getEnv("LOCAL_STORE_PATH", "beanthere-local.db"),
		IPLookupURL:    getEnv("IP_LOOKUP_URL", ""),
		RateLimitRPS:   getInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 20),
		TrustedProxies: getEnv("TRUSTED_PROXIES", ""),
		LogDir:         getEnv("LOG_DIR", ""),
		LogMaxFiles:    getInt("LOG_MAX_FILES", 5),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate reports required settings that are missing. The returned error
// wraps domain.ErrConfig so callers can switch the server into setup mode.
func (c *Config) Validate() error {
	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if c.StoreBackend == "postgres" && c.SupabaseDBURL == "" {
		missing = append(missing, "SUPABASE_DB_URL")
	}
	if c.BlobBackend == "s3" && c.S3.Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}

	switch c.StoreBackend {
	case "supabase", "postgres":
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", domain.ErrConfig, c.StoreBackend)
	}
	switch c.BlobBackend {
	case "supabase", "s3":
	default:
		return fmt.Errorf("%w: unknown BLOB_BACKEND %q", domain.ErrConfig, c.BlobBackend)
	}

	if _, err := ParseTrustedProxies(c.TrustedProxies); err != nil {
		return err
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrConfig, strings.Join(missing, ", "))
	}
	return nil
}

// ParseTrustedProxies parses a comma-separated list of CIDRs or bare IPs.
// An empty list trusts no proxy.
func ParseTrustedProxies(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			prefix, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid TRUSTED_PROXIES entry %q", domain.ErrConfig, part)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid TRUSTED_PROXIES entry %q", domain.ErrConfig, part)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	case "dev":
		return "dev_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
