package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/serdarakin/shoply-backend/internal/events"
	"github.com/serdarakin/shoply-backend/internal/metrics"
	"github.com/serdarakin/shoply-backend/internal/modules/analytics"
	"github.com/serdarakin/shoply-backend/internal/modules/auth"
	"github.com/serdarakin/shoply-backend/internal/modules/order"
	"github.com/serdarakin/shoply-backend/internal/modules/product"
	"github.com/serdarakin/shoply-backend/internal/modules/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	// ── Router ──────────────────────────────────────────────
	serverMetrics := metrics.NewServerMetrics()

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(serverMetrics.Middleware)
	router.Use(httprate.LimitByIP(120, time.Minute))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// ── Identity ────────────────────────────────────────────
	tokens := auth.NewTokenManager(
		os.Getenv("JWT_ACCESS_SECRET"),
		os.Getenv("JWT_REFRESH_SECRET"),
	)

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)

	authService := auth.NewService(userRepo, tokens)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Optional collaborators ──────────────────────────────
	var analyticsCache analytics.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		analyticsCache = analytics.NewRedisCache(redis.NewClient(&redis.Options{Addr: addr}))
	}

	var orderEvents order.EventPublisher
	if url := os.Getenv("AMQP_URL"); url != "" {
		publisher, err := events.NewPublisher(url)
		if err != nil {
			log.Fatal(err)
		}
		defer publisher.Close()
		orderEvents = publisher
	}

	// ── Authenticated API ───────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		user.NewHandler(userService, auth.UserIDFromRequest).RegisterRoutes(r)

		productRepo := product.NewPostgresRepository(db)
		product.NewHandler(product.NewService(productRepo)).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(user.RoleAdmin, user.RoleManager))

			orderRepo := order.NewPostgresRepository(db)
			order.NewHandler(order.NewService(orderRepo, orderEvents)).RegisterRoutes(r)

			analyticsRepo := analytics.NewPostgresRepository(db)
			analyticsService := analytics.WithCache(analytics.NewService(analyticsRepo), analyticsCache)
			analytics.NewHandler(analyticsService).RegisterRoutes(r)
		})
	})

	// ── Start Server ─────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Shoply API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:5173"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
