// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/bookmyseva/backend/internal/chat"
	"github.com/bookmyseva/backend/internal/config"
	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/handlers"
	"github.com/bookmyseva/backend/internal/logging"
	"github.com/bookmyseva/backend/internal/middleware"
	"github.com/bookmyseva/backend/internal/ratelimit"
	"github.com/bookmyseva/backend/internal/repository/content"
	"github.com/bookmyseva/backend/internal/repository/intent"
	"github.com/bookmyseva/backend/internal/repository/message"
	"github.com/bookmyseva/backend/internal/repository/quickaction"
	"github.com/bookmyseva/backend/internal/repository/session"
	"github.com/bookmyseva/backend/internal/repository/user"
	"github.com/bookmyseva/backend/internal/repository/verification"
	"github.com/bookmyseva/backend/internal/services/chatsvc"
	"github.com/bookmyseva/backend/internal/services/markdown"
	"github.com/bookmyseva/backend/internal/services/sms"
	"github.com/bookmyseva/backend/internal/services/storage"
	"github.com/bookmyseva/backend/internal/services/user_services"
)

const sessionSweepInterval = time.Hour

func main() {
	cfg := config.Load()
	logger := logging.New(nil, cfg.LogLevel)

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.VerificationCode{},
		&domain.ChatSession{},
		&domain.ChatMessage{},
		&domain.BotIntent{},
		&domain.QuickAction{},
		&domain.Blog{},
		&domain.Category{},
		&domain.Product{},
		&domain.Enquiry{},
		&domain.Rider{},
		&domain.GitaVerse{},
		&domain.Mantra{},
		&domain.PanchangamEntry{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	verificationRepo := verification.NewGormVerificationRepository(db)
	sessionRepo := session.NewSessionRepository(db)
	messageRepo := message.NewMessageRepository(db)
	intentRepo := intent.NewIntentRepository(db)
	quickActionRepo := quickaction.NewQuickActionRepository(db)
	blogRepo := content.NewBlogRepository(db)
	productRepo := content.NewProductRepository(db)
	categoryRepo := content.NewCategoryRepository(db)
	enquiryRepo := content.NewEnquiryRepository(db)
	riderRepo := content.NewRiderRepository(db)
	spiritualRepo := content.NewSpiritualRepository(db)

	// --- Services ---
	smsProvider := sms.NewMSG91Provider(&sms.Config{
		AccessKey:  cfg.SMSAccessKey,
		SenderID:   cfg.SMSSenderID,
		TemplateID: cfg.SMSTemplateID,
		APIURL:     cfg.SMSAPIURL,
		Timeout:    10 * time.Second,
	})
	smsService := sms.NewSMSService(smsProvider, logger.Sub("sms"))

	storageProvider, err := storage.NewMinioProvider(&storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
		PublicURL: cfg.StoragePublicURL,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize storage provider: %v", err)
	}

	otpService := user_services.NewOTPService(userRepo, verificationRepo, smsService, logger.Sub("otp"))
	authService := user_services.NewAuthService(userRepo, []byte(cfg.JWTSecretKey), logger.Sub("auth"))

	chatService, err := chatsvc.NewChatService(sessionRepo, messageRepo, intentRepo, cfg.BotFallbackReply, logger.Sub("chat"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize chat service: %v", err)
	}

	renderer := markdown.NewRenderer()

	// --- Chat hub ---
	hub := chat.NewHub(logger.Sub("hub"))
	chatHandler := chat.NewHandler(hub, chatService, cfg.BotTypingDelay, logger.Sub("ws"))

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(otpService, authService)
	blogHandler := handlers.NewBlogHandler(blogRepo, renderer)
	catalogHandler := handlers.NewCatalogHandler(productRepo, categoryRepo)
	enquiryHandler := handlers.NewEnquiryHandler(enquiryRepo, riderRepo)
	spiritualHandler := handlers.NewSpiritualHandler(spiritualRepo)
	uploadHandler := handlers.NewUploadHandler(storageProvider)
	chatAdminHandler := handlers.NewChatAdminHandler(chatService, intentRepo, quickActionRepo)
	healthHandler := handlers.NewHealthHandler(db, smsService)

	// --- Rate limiters ---
	otpLimiter := ratelimit.New(ratelimit.OTPConfig())
	defer otpLimiter.Close()
	authLimiter := ratelimit.New(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()

	// --- Router ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware([]byte(cfg.JWTSecretKey))
	adminMiddleware := middleware.RequireAdmin(userRepo)

	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware(logger.Sub("http")))

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	// WebSocket endpoints sit outside the /api/v1 prefix.
	r.HandleFunc("/ws/chat", chatHandler.HandleWidget).Methods("GET")
	wsAdmin := r.PathPrefix("/ws/admin").Subrouter()
	wsAdmin.Use(authMiddleware, adminMiddleware)
	wsAdmin.HandleFunc("", chatHandler.HandleAdmin).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Auth ---
	authRoutes := api.PathPrefix("/auth").Subrouter()
	otpRoutes := authRoutes.PathPrefix("/otp").Subrouter()
	otpRoutes.Use(middleware.RateLimitMiddleware(otpLimiter, "otp"))
	otpRoutes.HandleFunc("/send", authHandler.SendOTP).Methods("POST")
	otpRoutes.HandleFunc("/verify", authHandler.VerifyOTP).Methods("POST")

	adminLogin := authRoutes.PathPrefix("/admin").Subrouter()
	adminLogin.Use(middleware.RateLimitMiddleware(authLimiter, "admin-login"))
	adminLogin.HandleFunc("/login", authHandler.AdminLogin).Methods("POST")

	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods("GET")
	me := authRoutes.PathPrefix("/me").Subrouter()
	me.Use(authMiddleware)
	me.HandleFunc("", authHandler.Me).Methods("GET")

	// --- Public content ---
	api.HandleFunc("/blogs", blogHandler.List).Methods("GET")
	api.HandleFunc("/blogs/{slug}", blogHandler.Get).Methods("GET")
	api.HandleFunc("/products", catalogHandler.ListProducts).Methods("GET")
	api.HandleFunc("/products/{slug}", catalogHandler.GetProduct).Methods("GET")
	api.HandleFunc("/categories", catalogHandler.ListCategories).Methods("GET")
	api.HandleFunc("/riders", enquiryHandler.ListRiders).Methods("GET")
	api.HandleFunc("/enquiries", enquiryHandler.Create).Methods("POST")
	api.HandleFunc("/gita/{chapter:[0-9]+}", spiritualHandler.ListChapter).Methods("GET")
	api.HandleFunc("/gita/{chapter:[0-9]+}/{verse:[0-9]+}", spiritualHandler.GetVerse).Methods("GET")
	api.HandleFunc("/mantras", spiritualHandler.ListMantras).Methods("GET")
	api.HandleFunc("/mantras/{id:[0-9]+}", spiritualHandler.GetMantra).Methods("GET")
	api.HandleFunc("/panchangam/today", spiritualHandler.PanchangamToday).Methods("GET")
	api.HandleFunc("/panchangam/{date}", spiritualHandler.PanchangamByDate).Methods("GET")
	api.HandleFunc("/chat/quick-actions", chatAdminHandler.PublicQuickActions).Methods("GET")

	// --- Authenticated uploads ---
	uploads := api.PathPrefix("/upload").Subrouter()
	uploads.Use(authMiddleware, adminMiddleware)
	uploads.HandleFunc("", uploadHandler.Upload).Methods("POST")

	// --- Admin ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware, adminMiddleware)

	admin.HandleFunc("/blogs", blogHandler.ListAll).Methods("GET")
	admin.HandleFunc("/blogs", blogHandler.Create).Methods("POST")
	admin.HandleFunc("/blogs/{id:[0-9]+}", blogHandler.Update).Methods("PUT")
	admin.HandleFunc("/blogs/{id:[0-9]+}", blogHandler.Delete).Methods("DELETE")

	admin.HandleFunc("/products", catalogHandler.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id:[0-9]+}", catalogHandler.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id:[0-9]+}", catalogHandler.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/categories", catalogHandler.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id:[0-9]+}", catalogHandler.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id:[0-9]+}", catalogHandler.DeleteCategory).Methods("DELETE")

	admin.HandleFunc("/enquiries", enquiryHandler.List).Methods("GET")
	admin.HandleFunc("/enquiries/{id:[0-9]+}", enquiryHandler.Get).Methods("GET")
	admin.HandleFunc("/enquiries/{id:[0-9]+}", enquiryHandler.UpdateStatus).Methods("PATCH")

	admin.HandleFunc("/riders", enquiryHandler.CreateRider).Methods("POST")
	admin.HandleFunc("/riders/{id:[0-9]+}", enquiryHandler.UpdateRider).Methods("PUT")
	admin.HandleFunc("/riders/{id:[0-9]+}", enquiryHandler.DeleteRider).Methods("DELETE")

	admin.HandleFunc("/gita", spiritualHandler.CreateVerse).Methods("POST")
	admin.HandleFunc("/mantras", spiritualHandler.CreateMantra).Methods("POST")
	admin.HandleFunc("/panchangam", spiritualHandler.UpsertPanchangam).Methods("PUT")

	admin.HandleFunc("/chat/sessions", chatAdminHandler.ListSessions).Methods("GET")
	admin.HandleFunc("/chat/sessions/{id}/messages", chatAdminHandler.SessionMessages).Methods("GET")
	admin.HandleFunc("/chat/sessions/{id}/purge", chatAdminHandler.PurgeSession).Methods("DELETE")
	admin.HandleFunc("/chat/sessions/{id}", chatAdminHandler.DeleteSession).Methods("DELETE")

	admin.HandleFunc("/chat/intents", chatAdminHandler.ListIntents).Methods("GET")
	admin.HandleFunc("/chat/intents", chatAdminHandler.CreateIntent).Methods("POST")
	admin.HandleFunc("/chat/intents/{id:[0-9]+}", chatAdminHandler.UpdateIntent).Methods("PUT")
	admin.HandleFunc("/chat/intents/{id:[0-9]+}", chatAdminHandler.DeleteIntent).Methods("DELETE")

	admin.HandleFunc("/chat/quick-actions", chatAdminHandler.ListQuickActions).Methods("GET")
	admin.HandleFunc("/chat/quick-actions", chatAdminHandler.CreateQuickAction).Methods("POST")
	admin.HandleFunc("/chat/quick-actions/{id:[0-9]+}", chatAdminHandler.UpdateQuickAction).Methods("PUT")
	admin.HandleFunc("/chat/quick-actions/{id:[0-9]+}", chatAdminHandler.DeleteQuickAction).Methods("DELETE")

	// --- Background work ---
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	chatService.StartExpirySweeper(sweepCtx, sessionSweepInterval)

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket connections are long-lived
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	stopSweep()
	hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
