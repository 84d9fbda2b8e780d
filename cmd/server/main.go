package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hard75/internal/db"
	"hard75/internal/handlers"
	mw "hard75/internal/middleware"
	"hard75/internal/notify"
	"hard75/internal/progress"
	"hard75/internal/remote"
	"hard75/internal/services"
	"hard75/internal/store"
	syncer "hard75/internal/sync"
)

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	blindIndexKey := os.Getenv("BLIND_INDEX_KEY")
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		logger.Fatal("FIRESTORE_PROJECT_ID is required")
	}
	port := getenv("PORT", "8080")
	probeAddr := getenv("CONNECTIVITY_PROBE_ADDR", "firestore.googleapis.com:443")

	encSvc, err := services.NewEncryptionService([]byte(encryptionKey), []byte(blindIndexKey))
	if err != nil {
		logger.Fatal("invalid encryption keys", zap.Error(err))
	}

	dbConn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		logger.Fatal("failed to open db", zap.Error(err))
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		logger.Fatal("failed to ping db", zap.Error(err))
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Fatal("failed migrations", zap.Error(err))
	}

	ctx := context.Background()
	fsClient, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		logger.Fatal("failed to init firestore", zap.Error(err))
	}
	defer fsClient.Close()

	local := store.NewPostgres(dbConn, encSvc)
	rem := remote.NewFirestore(fsClient)
	clock := progress.NewClock(local, nil)
	recon := progress.NewReconciler(local, clock, nil, logger)
	online := syncer.ProbeConnectivity(probeAddr)
	sy := syncer.New(local, local, rem, recon, online, logger)

	scheduler := notify.NewScheduler(local, clock, notify.LogNotifier{Log: logger}, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start reminder scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.StructuredLogger(logger))

	authHandler := handlers.NewAuthHandler(local, clock, sy, []byte(jwtSecret), logger)
	userHandler := handlers.NewUserHandler(local)
	daysHandler := handlers.NewDaysHandler(local, sy)
	progressHandler := handlers.NewProgressHandler(clock, recon, local)
	syncHandler := handlers.NewSyncHandler(sy)
	rankingHandler := handlers.NewRankingHandler(rem)
	feedbackHandler := handlers.NewFeedbackHandler(rem)
	notificationsHandler := handlers.NewNotificationsHandler(clock)
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/users/me", userHandler.GetMe)
			pr.Put("/users/me", userHandler.UpdateMe)
			pr.Get("/days", daysHandler.List)
			pr.Get("/days/{dayNumber}", daysHandler.Get)
			pr.Put("/days/{dayNumber}", daysHandler.Upsert)
			pr.Put("/days/{dayNumber}/weight", daysHandler.UpdateWeight)
			pr.Get("/weights", daysHandler.Weights)
			pr.Get("/photos", daysHandler.Photos)
			pr.Get("/progress", progressHandler.Get)
			pr.Post("/progress/reset", progressHandler.Reset)
			pr.Post("/sync/push", syncHandler.Push)
			pr.Post("/sync/pull", syncHandler.Pull)
			pr.Get("/ranking", rankingHandler.Get)
			pr.Post("/feedback", feedbackHandler.Post)
			pr.Get("/notifications", notificationsHandler.Get)
			pr.Put("/notifications", notificationsHandler.Put)
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
