package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIME_ZONE funciona en imágenes sin zoneinfo

	"github.com/joho/godotenv"
)

type AuthMode string

const (
	AuthModeDev  AuthMode = "dev"  // X-Debug-User-ID, sin verificación
	AuthModeJWT  AuthMode = "jwt"  // tokens emitidos por /auth/login
	AuthModeOdin AuthMode = "odin" // IAM externo
)

type Config struct {
	Port  string
	DBDSN string // vacío => store en memoria

	Auth  AuthConfig
	Media MediaConfig
	Seed  SeedConfig
	Log   LogConfig

	Location           *time.Location
	CORSAllowedOrigins []string
}

type AuthConfig struct {
	Mode        AuthMode
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	OdinBaseURL string
	OdinAPIKey  string
}

type MediaConfig struct {
	Root           string
	URL            string
	MaxUploadBytes int64
}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	Taxonomy      bool
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

// Load lee un .env opcional y luego el entorno del proceso.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup arma la config con cualquier fuente clave => valor (tests).
func FromLookup(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:  get("PORT", "8080"),
		DBDSN: get("DB_DSN", ""),
		Auth: AuthConfig{
			Mode:        AuthMode(strings.ToLower(get("AUTH_MODE", ""))),
			JWTSecret:   get("JWT_SECRET", ""),
			JWTIssuer:   get("JWT_ISSUER", "pet-records"),
			OdinBaseURL: get("ODIN_BASE_URL", ""),
			OdinAPIKey:  get("ODIN_API_KEY", ""),
		},
		Media: MediaConfig{
			Root: get("MEDIA_ROOT", "./media"),
			URL:  get("MEDIA_URL", "/media/"),
		},
		Seed: SeedConfig{
			AdminUsername: get("SEED_ADMIN_USERNAME", ""),
			AdminPassword: get("SEED_ADMIN_PASSWORD", ""),
		},
		Log: LogConfig{
			Level:  get("LOG_LEVEL", "info"),
			Format: get("LOG_FORMAT", "text"),
			App:    get("APP_NAME", "pet-records"),
		},
	}

	switch cfg.Auth.Mode {
	case "":
		cfg.Auth.Mode = AuthModeDev
		if cfg.Auth.JWTSecret != "" {
			cfg.Auth.Mode = AuthModeJWT
		}
	case AuthModeDev, AuthModeJWT, AuthModeOdin:
	default:
		return Config{}, fmt.Errorf("config: AUTH_MODE %q must be dev, jwt or odin", cfg.Auth.Mode)
	}
	if cfg.Auth.Mode == AuthModeJWT && len(cfg.Auth.JWTSecret) < 16 {
		return Config{}, fmt.Errorf("config: JWT_SECRET must be at least 16 characters")
	}
	if cfg.Auth.Mode == AuthModeOdin && (cfg.Auth.OdinBaseURL == "" || cfg.Auth.OdinAPIKey == "") {
		return Config{}, fmt.Errorf("config: AUTH_MODE=odin requires ODIN_BASE_URL and ODIN_API_KEY")
	}

	ttl, err := time.ParseDuration(get("JWT_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("config: invalid JWT_TTL: %q", getenv("JWT_TTL"))
	}
	cfg.Auth.JWTTTL = ttl

	maxUpload, err := strconv.ParseInt(get("MAX_UPLOAD_BYTES", strconv.Itoa(10<<20)), 10, 64)
	if err != nil || maxUpload <= 0 {
		return Config{}, fmt.Errorf("config: invalid MAX_UPLOAD_BYTES: %q", getenv("MAX_UPLOAD_BYTES"))
	}
	cfg.Media.MaxUploadBytes = maxUpload
	if !strings.HasSuffix(cfg.Media.URL, "/") {
		cfg.Media.URL += "/"
	}

	loc, err := time.LoadLocation(get("TIME_ZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid TIME_ZONE: %w", err)
	}
	cfg.Location = loc

	// Por defecto sólo se siembra la taxonomía cuando no hay base (modo dev).
	seedTaxonomy, err := strconv.ParseBool(get("SEED_TAXONOMY", strconv.FormatBool(cfg.DBDSN == "")))
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid SEED_TAXONOMY: %w", err)
	}
	cfg.Seed.Taxonomy = seedTaxonomy

	if v := get("CORS_ALLOWED_ORIGINS", ""); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

// Addr devuelve la dirección de escucha para http.Server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
