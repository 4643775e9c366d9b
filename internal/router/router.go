package router

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	_ "pet-records/docs" // registra la spec de swag
	"pet-records/internal/adapters/blob/localfs"
	"pet-records/internal/adapters/storage"
	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/healthlogs"
	"pet-records/internal/domain/injectionlogs"
	"pet-records/internal/domain/pets"
	"pet-records/internal/domain/profiles"
	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/domain/weightlogs"
	"pet-records/internal/middleware"
	"pet-records/internal/platform/logger"
	"pet-records/internal/ports/auth"
	"pet-records/internal/ports/blobstore"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const defaultMaxUploadBytes = 10 << 20

type Options struct {
	// Repos vacío => store en memoria.
	Repos storage.Repositories
	// Blobs nil => localfs sobre MediaDir.
	Blobs blobstore.Store

	AuthVerifier auth.AuthVerifier // nil => modo dev (X-Debug-User-ID)
	TokenIssuer  auth.TokenIssuer  // no nil => se monta POST /auth/login
	Passwords    *accounts.Passwords

	Logger logger.Logger

	// MediaDir se sirve en MediaURL (sólo lectura). Vacío => sin file server.
	MediaDir string
	MediaURL string // default /media/

	CORSAllowedOrigins []string
	MaxUploadBytes     int64

	// Location define el "hoy" de fechas por defecto y edades. Now pisa el
	// reloj completo (tests).
	Location *time.Location
	Now      func() time.Time
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	repos := opts.Repos
	if repos.Pets == nil {
		repos = storage.Memory()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	now := clock(opts)
	mediaURL := normalizePrefix(opts.MediaURL)

	blobs := opts.Blobs
	if blobs == nil {
		if opts.MediaDir == "" {
			return nil, fmt.Errorf("router: Blobs or MediaDir required")
		}
		base := opts.MediaURL
		if base == "" {
			base = mediaURL
		}
		fsStore, err := localfs.New(opts.MediaDir, base)
		if err != nil {
			return nil, fmt.Errorf("router: %w", err)
		}
		blobs = fsStore
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	// Sin orígenes configurados no se monta CORS.
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept", "Authorization", "Content-Type", "X-Request-Id",
				middleware.HeaderDebugUserID, middleware.HeaderDebugUsername,
			},
			MaxAge: 300,
		}))
	}
	r.Use(chimw.RequestSize(maxUpload))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger", http.RedirectHandler("/swagger/index.html", http.StatusMovedPermanently).ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.MediaDir != "" {
		mountMedia(r, mediaURL, opts.MediaDir)
	}

	// Services por módulo. Los logs dependen del guard de mascotas y pets de
	// los agregados de logs (vía StatsReader), nunca de los services.
	taxSvc := taxonomy.NewService(repos.Taxonomy)
	guard := pets.NewGuard(repos.Pets)

	weightSvc := weightlogs.NewService(repos.WeightLogs, guard)
	weightSvc.UseClock(now)
	healthSvc := healthlogs.NewService(repos.HealthLogs, guard, blobs)
	healthSvc.UseClock(now)
	injectionSvc := injectionlogs.NewService(repos.InjectionLogs, guard)
	injectionSvc.UseClock(now)

	petsSvc := pets.NewService(repos.Pets, repos.Taxonomy, repos.PetStats, blobs)
	petsSvc.UseClock(now)
	profilesSvc := profiles.NewService(repos.Profiles)

	if opts.TokenIssuer != nil {
		accountsSvc := accounts.NewService(repos.Users, opts.Passwords, opts.TokenIssuer)
		accountsSvc.UseClock(now)
		accounts.RegisterRoutes(r, accountsSvc, log)
	}

	// Rutas por módulo
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		taxonomy.RegisterRoutes(r, taxSvc, log)
		pets.RegisterRoutes(r, petsSvc, log)
		weightlogs.RegisterRoutes(r, weightSvc, log)
		healthlogs.RegisterRoutes(r, healthSvc, log)
		injectionlogs.RegisterRoutes(r, injectionSvc, log)
		profiles.RegisterRoutes(r, profilesSvc, log)
	})

	return r, nil
}

func clock(opts Options) func() time.Time {
	if opts.Now != nil {
		return opts.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

func normalizePrefix(prefix string) string {
	if prefix == "" || !strings.HasPrefix(prefix, "/") {
		return "/media/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// mountMedia sirve archivos (no directorios) bajo prefix.
func mountMedia(r chi.Router, prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(filesOnly{http.Dir(dir)}))
	r.Get(prefix+"*", fs.ServeHTTP)
	r.Head(prefix+"*", fs.ServeHTTP)
}
