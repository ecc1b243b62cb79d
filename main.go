package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/shelfshare/shelfshare/config"
	"github.com/shelfshare/shelfshare/handlers"
	"github.com/shelfshare/shelfshare/middleware"
	"github.com/shelfshare/shelfshare/service"
	"github.com/shelfshare/shelfshare/store"
	"github.com/shelfshare/shelfshare/templates"
)

func main() {
	_ = godotenv.Load()
	config.ValidateEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()

	s3Service, err := service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
	if err != nil {
		log.Fatal("s3:", err)
	}

	shelf, err := config.LoadShelfData(cfg.DataFile)
	if err != nil {
		log.Fatal("shelf data:", err)
	}

	tmpl := templates.NewManager(cfg.TemplatesDir)
	credentials := service.NewCredentialService(db)
	sessions := service.NewSessionService(db, cfg.SessionSecret)
	interactions := service.NewInteractionService(db)
	catalog := service.NewOpenLibraryClient()
	maxBytes := cfg.MaxUploadMB * 1024 * 1024

	authHandler := &handlers.AuthHandler{
		Credentials: credentials,
		Sessions:    sessions,
		Templates:   tmpl,
	}
	pagesHandler := &handlers.PagesHandler{
		DB:        db,
		Catalog:   catalog,
		Templates: tmpl,
		Shelf:     shelf,
	}
	booksHandler := &handlers.BooksHandler{
		DB:           db,
		S3:           s3Service,
		Publish:      service.NewPublishService(s3Service, db),
		Interactions: interactions,
		Templates:    tmpl,
		MaxBytes:     maxBytes,
	}
	readingListHandler := &handlers.ReadingListHandler{DB: db, Templates: tmpl}
	profileHandler := &handlers.ProfileHandler{
		DB:        db,
		S3:        s3Service,
		Templates: tmpl,
		MaxBytes:  maxBytes,
	}

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Static assets
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Public pages
	r.Get("/", pagesHandler.Home)
	r.Get("/signup", authHandler.GetSignup)
	r.Post("/signup", authHandler.PostSignup)
	r.Get("/signin", authHandler.GetSignin)
	r.Post("/signin", authHandler.PostSignin)
	r.Get("/logout", authHandler.Logout)
	r.Get("/books", pagesHandler.Search)
	r.Get("/books/{id}", pagesHandler.BookDetail)
	r.Get("/books/{id}/download", booksHandler.Download)
	r.Get("/api/books/public", pagesHandler.PublicBooks)

	// Pages requiring a session
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/publish", booksHandler.GetPublish)
		r.Post("/publish", booksHandler.PostPublish)
		r.Get("/storebook", booksHandler.Storebook)
		r.Post("/storebook/remove", booksHandler.RemoveBook)
		r.Get("/readingList", readingListHandler.List)
		r.Post("/readingList", readingListHandler.Add)
		r.Post("/removeFromReadingList", readingListHandler.Remove)
		r.Get("/profile", profileHandler.Get)
		r.Post("/profile", profileHandler.Update)
		r.Post("/profile/avatar", profileHandler.UploadAvatar)
	})

	// JSON interaction endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthJSON)
		r.Post("/api/books/{id}/like", booksHandler.Like)
		r.Post("/api/books/{id}/save", booksHandler.Save)
		r.Post("/api/books/{id}/comment", booksHandler.Comment)
	})

	// Expired session records are ignored on resolve but still take up
	// space; sweep them periodically.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n, err := db.DeleteExpiredSessions(sweepCtx, time.Now()); err != nil {
					log.Println("session sweep:", err)
				} else if n > 0 {
					log.Printf("session sweep removed %d expired sessions", n)
				}
			}
		}
	}()

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
