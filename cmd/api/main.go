package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chiral-robotics/chiral-backend/internal/infra/database"
	"github.com/chiral-robotics/chiral-backend/internal/infra/events"
	"github.com/chiral-robotics/chiral-backend/internal/infra/http/handlers"
	"github.com/chiral-robotics/chiral-backend/internal/infra/http/middleware"
	"github.com/chiral-robotics/chiral-backend/internal/infra/mail"
	"github.com/chiral-robotics/chiral-backend/internal/infra/worker"
	"github.com/chiral-robotics/chiral-backend/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.Open(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("❌ Database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	followUpRepo := database.NewFollowUpRepository(db)
	emailQueueRepo := database.NewEmailQueueRepository(db)
	notificationRepo := database.NewNotificationRepository(db)

	// 2. Optional infrastructure. The core lead path works without the
	// broker and without SMTP; both degrade to log lines when absent.
	var broadcaster events.Broadcaster
	rabbitMQ, err := events.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", ""),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Printf("⚠️ RabbitMQ unavailable, lead events disabled: %v", err)
	} else {
		defer rabbitMQ.Close()
		broadcaster = events.NewPublisher(rabbitMQ.Ch)

		consumer := events.NewConsumer(rabbitMQ.Ch, notificationRepo)
		go consumer.Start(events.QueueName)
	}

	var mailSender mail.Sender
	mailConfigured := os.Getenv("MAIL_HOST") != ""
	if mailConfigured {
		port, _ := strconv.Atoi(envOr("MAIL_PORT", "587"))
		mailSender = mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), port,
			os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			os.Getenv("MAIL_FROM"),
		)
	} else {
		log.Println("📭 MAIL_HOST not set, outbound email disabled")
	}
	salesEmail := envOr("SALES_EMAIL", "sales@chiral-robotics.com")

	// 3. Email dispatcher
	dispatcher := worker.NewEmailDispatcher(emailQueueRepo, mailSender)
	go dispatcher.Start(ctx)

	// 4. Use cases
	submitContactUC := usecase.NewSubmitContactUseCase(
		leadRepo, followUpRepo, emailQueueRepo, broadcaster,
		salesEmail, mailConfigured,
	)
	updateStatusUC := usecase.NewUpdateLeadStatusUseCase(
		leadRepo, followUpRepo, emailQueueRepo,
		salesEmail, mailConfigured,
	)

	// 5. Handlers
	contactHandler := handlers.NewContactHandler(submitContactUC)
	leadHandler := handlers.NewLeadHandler(leadRepo, followUpRepo, updateStatusUC)
	emailHandler := handlers.NewEmailHandler(emailQueueRepo, dispatcher)

	healthHandler := handlers.NewHealthHandler(db, nil, mailConfigured)
	if rabbitMQ != nil {
		healthHandler = handlers.NewHealthHandler(db, rabbitMQ.Conn, mailConfigured)
	}

	auth := middleware.NewAuth(os.Getenv("JWT_SECRET"))

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{envOr("CORS_ORIGIN", "*")},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/contact", contactHandler.Handle)

	r.Route("/api/leads", func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/", leadHandler.List)
		r.Get("/statistics", leadHandler.Statistics)

		r.Get("/follow-ups/pending", leadHandler.PendingFollowUps)
		r.Get("/follow-ups/upcoming", leadHandler.UpcomingFollowUps)
		r.Put("/follow-ups/{followUpId}/complete", leadHandler.CompleteFollowUp)

		r.Post("/bulk/assign", leadHandler.BulkAssign)
		r.Post("/bulk/update-status", leadHandler.BulkUpdateStatus)

		r.Get("/queue/statistics", emailHandler.Statistics)

		r.Get("/{id}", leadHandler.Get)
		r.Put("/{id}", leadHandler.Update)
		r.Put("/{id}/status", leadHandler.UpdateStatus)
		r.With(auth.RequireRole("admin")).Delete("/{id}", leadHandler.Delete)

		r.Post("/{id}/follow-up", leadHandler.CreateFollowUp)
		r.Get("/{id}/follow-ups", leadHandler.ListFollowUps)
	})

	r.With(auth.Middleware).Get("/api/process-emails", emailHandler.ProcessQueue)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 CHIRAL backend listening on %s", port)

	server := &http.Server{Addr: port, Handler: r}
	go func() {
		<-ctx.Done()
		log.Println("⚠️ Shutting down")
		server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("❌ Server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
