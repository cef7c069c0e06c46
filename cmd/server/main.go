package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmhub-server/internal/cache"
	"farmhub-server/internal/config"
	"farmhub-server/internal/domain"
	"farmhub-server/internal/handler"
	"farmhub-server/internal/middleware"
	"farmhub-server/internal/notify"
	"farmhub-server/internal/repository"
	"farmhub-server/internal/service"
	"farmhub-server/internal/storage"
	"farmhub-server/internal/store"
	"farmhub-server/internal/upstream"
	"farmhub-server/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)

	client, err := kivik.New("couch", couchURL)
	if err != nil {
		log.Fatalf("Failed to connect to CouchDB: %v", err)
	}

	exists, err := client.DBExists(context.Background(), cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to check database existence: %v", err)
	}

	if !exists {
		if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
		log.Printf("Created database: %s", cfg.Database.Name)
	}

	dbName := cfg.Database.Name
	userRepo := repository.NewUserRepository(client, dbName)
	profileRepo := repository.NewProfileRepository(client, dbName)
	categoryRepo := repository.NewCategoryRepository(client, dbName)
	messageRepo := repository.NewChatMessageRepository(client, dbName)
	diagnosisRepo := repository.NewEntityRepository[*domain.CropDiagnosis](client, dbName, "diagnosis", "user_id")
	soilRepo := repository.NewEntityRepository[*domain.SoilAnalysis](client, dbName, "soil", "user_id")
	postRepo := repository.NewEntityRepository[*domain.ForumPost](client, dbName, "post", "user_id")
	commentRepo := repository.NewEntityRepository[*domain.ForumComment](client, dbName, "comment", "user_id")
	listingRepo := repository.NewEntityRepository[*domain.MarketListing](client, dbName, "listing", "user_id")
	outbreakRepo := repository.NewEntityRepository[*domain.DiseaseOutbreak](client, dbName, "outbreak", "reported_by")

	if err := categoryRepo.Seed(context.Background()); err != nil {
		log.Printf("Failed to seed forum categories: %v", err)
	}

	// WebSocket Manager
	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)
	wsManager.SetMessageHandler(handler.NewWebSocketMessageHandler())
	go wsManager.Run()

	// AI calls share a generous timeout; weather lookups get a tighter one.
	aiFetcher := upstream.NewFetcher(cfg.AI.Timeout)
	weatherFetcher := upstream.NewFetcher(cfg.Weather.Timeout)
	weatherClient := upstream.NewWeatherClient(weatherFetcher, cfg.Weather.BaseURL, cfg.Weather.GeoURL, cfg.Weather.APIKey)
	diagnosisClient := upstream.NewDiagnosisClient(aiFetcher, cfg.AI.DiagnosisEndpoint, cfg.AI.DiagnosisAPIKey)
	chatClient := upstream.NewChatClient(aiFetcher, cfg.AI.ChatEndpoint, cfg.AI.ChatAPIKey, cfg.AI.ChatModel)

	var uploader *storage.Uploader
	if cfg.Storage.AccessKey != "" {
		uploader, err = storage.NewUploader(context.Background(), storage.Config{
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.Fatalf("Failed to configure object storage: %v", err)
		}
	} else {
		log.Println("Object storage not configured; inline images will not be persisted")
	}

	// The weather cache survives restarts through a JSON file; entries are
	// re-checked for staleness on read, so loading old state is safe.
	weatherCache := cache.New[string, *domain.WeatherReport](cfg.Weather.TTL)
	if cfg.Cache.File != "" {
		if err := cache.LoadFile(cfg.Cache.File, weatherCache); err != nil {
			log.Printf("Failed to load weather cache: %v", err)
		}
	}

	// Starter alerts so the bell has content before the first real event.
	notifications := notify.NewCenter()
	notifications.Add("Weather Alert", "Heavy rainfall expected in your area in the next 24 hours")
	notifications.Add("Crop Health", "Possible pest infestation detected in your north field")
	marketUpdate := notifications.Add("Market Update", "Wheat prices have increased by 5% since yesterday")
	notifications.MarkRead(marketUpdate.ID)

	diagnosisStore := store.NewEntityStore[*domain.CropDiagnosis](diagnosisRepo, nil)
	soilStore := store.NewEntityStore[*domain.SoilAnalysis](soilRepo, nil)
	postStore := store.NewEntityStore[*domain.ForumPost](postRepo, func(p *domain.ForumPost) error {
		if p.Title == "" {
			return &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		return nil
	})
	commentStore := store.NewEntityStore[*domain.ForumComment](commentRepo, func(c *domain.ForumComment) error {
		if c.Content == "" {
			return &domain.ValidationError{Field: "content", Reason: "must not be empty"}
		}
		return nil
	})
	listingStore := store.NewEntityStore[*domain.MarketListing](listingRepo, nil)
	outbreakStore := store.NewEntityStore[*domain.DiseaseOutbreak](outbreakRepo, nil)
	conversationLog := store.NewConversationLog(messageRepo)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	userService := service.NewUserService(userRepo, profileRepo)
	diagnosisService := service.NewDiagnosisService(diagnosisStore, diagnosisRepo, diagnosisClient, uploader, wsManager, notifications)
	soilService := service.NewSoilService(soilStore, soilRepo, chatClient)
	forumService := service.NewForumService(postStore, commentStore, postRepo, commentRepo, categoryRepo)
	marketService := service.NewMarketService(listingStore, listingRepo)
	outbreakService := service.NewOutbreakService(outbreakStore, outbreakRepo, wsManager, notifications)
	chatService := service.NewChatService(conversationLog, chatClient)
	weatherService := service.NewWeatherService(weatherCache, weatherClient)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	diagnosisHandler := handler.NewDiagnosisHandler(diagnosisService)
	soilHandler := handler.NewSoilHandler(soilService)
	forumHandler := handler.NewForumHandler(forumService)
	marketHandler := handler.NewMarketHandler(marketService)
	outbreakHandler := handler.NewOutbreakHandler(outbreakService)
	chatHandler := handler.NewChatHandler(chatService)
	weatherHandler := handler.NewWeatherHandler(weatherService)
	notificationHandler := handler.NewNotificationHandler(notifications)
	uploadHandler := handler.NewUploadHandler(uploader)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.JWT.Secret)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.HandleFunc("/users/me", userHandler.Me).Methods("GET", "OPTIONS")
	protected.HandleFunc("/users/me", userHandler.UpdateMe).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/users/me/profile", userHandler.GetProfile).Methods("GET", "OPTIONS")
	protected.HandleFunc("/users/me/profile", userHandler.UpdateProfile).Methods("PUT", "OPTIONS")

	protected.HandleFunc("/diagnoses", diagnosisHandler.Diagnose).Methods("POST", "OPTIONS")
	protected.HandleFunc("/diagnoses", diagnosisHandler.History).Methods("GET", "OPTIONS")
	protected.HandleFunc("/diagnoses/{id}", diagnosisHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/diagnoses/{id}", diagnosisHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/soil-analyses", soilHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/soil-analyses", soilHandler.History).Methods("GET", "OPTIONS")
	protected.HandleFunc("/soil-analyses/{id}", soilHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/soil-analyses/{id}", soilHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/forum/categories", forumHandler.Categories).Methods("GET", "OPTIONS")
	protected.HandleFunc("/forum/posts", forumHandler.CreatePost).Methods("POST", "OPTIONS")
	protected.HandleFunc("/forum/posts", forumHandler.ListPosts).Methods("GET", "OPTIONS")
	protected.HandleFunc("/forum/posts/mine", forumHandler.MyPosts).Methods("GET", "OPTIONS")
	protected.HandleFunc("/forum/posts/{id}", forumHandler.GetPost).Methods("GET", "OPTIONS")
	protected.HandleFunc("/forum/posts/{id}", forumHandler.DeletePost).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/forum/posts/{id}/comments", forumHandler.CreateComment).Methods("POST", "OPTIONS")
	protected.HandleFunc("/forum/posts/{id}/comments", forumHandler.ListComments).Methods("GET", "OPTIONS")
	protected.HandleFunc("/forum/comments/{commentId}", forumHandler.DeleteComment).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/market/listings", marketHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/market/listings", marketHandler.Browse).Methods("GET", "OPTIONS")
	protected.HandleFunc("/market/listings/mine", marketHandler.Mine).Methods("GET", "OPTIONS")
	protected.HandleFunc("/market/listings/{id}/deactivate", marketHandler.Deactivate).Methods("POST", "OPTIONS")
	protected.HandleFunc("/market/listings/{id}", marketHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/outbreaks", outbreakHandler.Report).Methods("POST", "OPTIONS")
	protected.HandleFunc("/outbreaks", outbreakHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/outbreaks/{id}/status", outbreakHandler.UpdateStatus).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/outbreaks/{id}", outbreakHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/chat/conversations", chatHandler.StartConversation).Methods("POST", "OPTIONS")
	protected.HandleFunc("/chat/conversations", chatHandler.Conversations).Methods("GET", "OPTIONS")
	protected.HandleFunc("/chat/conversations/{id}/messages", chatHandler.Send).Methods("POST", "OPTIONS")
	protected.HandleFunc("/chat/conversations/{id}/messages", chatHandler.History).Methods("GET", "OPTIONS")
	protected.HandleFunc("/chat/conversations/{id}", chatHandler.History).Methods("GET", "OPTIONS")
	protected.HandleFunc("/chat/conversations/{id}", chatHandler.DeleteConversation).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/weather", weatherHandler.Get).Methods("GET", "OPTIONS")

	protected.HandleFunc("/notifications", notificationHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notifications/{id}", notificationHandler.Remove).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/uploads", uploadHandler.Upload).Methods("POST", "OPTIONS")
	protected.HandleFunc("/uploads/presign", uploadHandler.Presign).Methods("POST", "OPTIONS")

	r.HandleFunc("/ws", wsHandler.HandleConnection)

	// Health endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/", rootHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting FarmHub Server on %s (env: %s)", addr, cfg.Server.Env)
		log.Printf("Connected to CouchDB at %s:%s", cfg.Database.Host, cfg.Database.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if cfg.Cache.File != "" {
		if err := cache.SaveFile(cfg.Cache.File, weatherCache); err != nil {
			log.Printf("Failed to save weather cache: %v", err)
		}
	}

	log.Println("Server stopped gracefully")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"farmhub-server"}`))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"FarmHub Server API","version":"1.0.0","endpoints":{"/api/v1/auth/register":"POST","/api/v1/auth/login":"POST","/api/v1/weather":"GET (protected)","/api/v1/diagnoses":"POST (protected)"}}`))
}
