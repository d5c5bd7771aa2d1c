package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type HealthHandler struct {
	DB             *sql.DB
	RabbitMQ       *amqp091.Connection
	MailConfigured bool
	StartTime      time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(db *sql.DB, rabbitMQ *amqp091.Connection, mailConfigured bool) *HealthHandler {
	return &HealthHandler{
		DB:             db,
		RabbitMQ:       rabbitMQ,
		MailConfigured: mailConfigured,
		StartTime:      time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	// Check Database
	if h.DB != nil {
		if err := h.DB.Ping(); err != nil {
			deps["database"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
	}

	// Check RabbitMQ
	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	// SMTP is fire-and-check at send time; here we only report wiring.
	if h.MailConfigured {
		deps["smtp"] = "configured"
	} else {
		deps["smtp"] = "not configured"
	}

	status := "healthy"
	code := http.StatusOK
	if deps["database"] != "healthy" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
