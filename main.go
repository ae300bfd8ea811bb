package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/camden-git/camerahub/capture"
	"github.com/camden-git/camerahub/config"
	"github.com/camden-git/camerahub/database"
	"github.com/camden-git/camerahub/detection"
	"github.com/camden-git/camerahub/handlers"
	"github.com/camden-git/camerahub/media"
	"github.com/camden-git/camerahub/realtime"
	"github.com/camden-git/camerahub/recognition"
	"github.com/camden-git/camerahub/repository"
	"github.com/camden-git/camerahub/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.SnapshotsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer db.Close()
	eventDB := database.NewEventDB(db)

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize GORM database: %v", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}
	encodingRepo := repository.NewEncodingRepository(gormDB)

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeSnapshot: filepath.Base(cfg.SnapshotsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	extractor, err := detection.NewFaceExtractor(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to load face models: %v", err)
	}
	defer extractor.Close()

	registry := recognition.NewRegistry(encodingRepo, extractor)
	if err := registry.Reload(); err != nil {
		log.Fatalf("FATAL: Failed to load face registry: %v", err)
	}

	// person detection is optional; the pipeline runs faces-only without it
	var personDetector recognition.PersonDetector
	if cfg.Model != nil {
		detector, err := detection.NewPersonDetector(*cfg.Model)
		if err != nil {
			log.Printf("Warning: person detection disabled: %v", err)
		} else {
			defer detector.Close()
			personDetector = detector
		}
	} else {
		log.Println("Person detection not configured; running faces-only")
	}

	pipeline := recognition.NewPipeline(cfg, eventDB, registry, extractor, personDetector)

	hub := realtime.NewHub()
	go hub.Run()

	cameraActive := false
	var captureWorker *workers.CaptureWorker
	camera, err := capture.NewCamera(cfg.Camera)
	if err != nil {
		log.Printf("Warning: live capture disabled: %v", err)
	} else {
		defer camera.Close()
		captureWorker = workers.NewCaptureWorker(camera, pipeline, hub)
		captureWorker.Start()
		defer captureWorker.Stop()
		cameraActive = true
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing snapshots in: %s", cfg.SnapshotsPath)
	log.Printf("Recognition tolerance: %g", cfg.RecognitionTolerance)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	eventHandler := &handlers.EventHandler{Events: eventDB}
	identityHandler := &handlers.IdentityHandler{Registry: registry, Store: mediaStore, Hub: hub}
	statusHandler := &handlers.StatusHandler{
		CameraSource:    cfg.Camera.Source,
		CameraActive:    cameraActive,
		PersonDetection: personDetector != nil,
		Registry:        registry,
		Events:          eventDB,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", eventHandler.ListEvents)

		r.Route("/identities", func(r chi.Router) {
			r.Get("/", identityHandler.ListIdentities)
			r.Post("/{label}", identityHandler.RegisterIdentity)
		})

		r.Post("/registry/reload", identityHandler.ReloadRegistry)
		r.Get("/status", statusHandler.GetStatus)
		r.Get("/ws", hub.ServeWS)

		snapshotSubDir := filepath.Base(cfg.SnapshotsPath)
		r.Get(fmt.Sprintf("/%s/*", snapshotSubDir), handlers.AssetServer(mediaStore, snapshotSubDir))
		log.Printf("Registered snapshot server at /%s/*", snapshotSubDir)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
