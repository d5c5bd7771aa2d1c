package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/chiral-robotics/chiral-backend/internal/infra/http/middleware"
	"github.com/chiral-robotics/chiral-backend/internal/usecase"
)

const maxContactBodyBytes = 1 << 20 // 1 MB

type ContactHandler struct {
	SubmitContactUC *usecase.SubmitContactUseCase
	rateLimiter     *RateLimiter
}

func NewContactHandler(uc *usecase.SubmitContactUseCase) *ContactHandler {
	return &ContactHandler{
		SubmitContactUC: uc,
		rateLimiter:     NewRateLimiter(5, 15*time.Minute),
	}
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  int64  `json:"leadId,omitempty"`
}

// Handle receives a marketing-site contact submission. Rate limited per
// client IP; the limiter answers before the body is read so floods cost
// nothing past the headers.
func (h *ContactHandler) Handle(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		middleware.RecordRateLimitRejection()
		respondJSON(w, http.StatusTooManyRequests, ContactResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxContactBodyBytes)

	var submission usecase.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSON(w, http.StatusRequestEntityTooLarge, ContactResponse{
				Success: false,
				Message: "Request body too large",
			})
			return
		}
		respondJSON(w, http.StatusBadRequest, ContactResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}
	submission.Referrer = r.Header.Get("Referer")

	result, err := h.SubmitContactUC.Execute(r.Context(), submission)
	if err != nil {
		var validationErrs usecase.ValidationErrors
		if errors.As(err, &validationErrs) {
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Validation failed",
				"errors":  validationErrs,
			})
			return
		}
		log.Printf("❌ Contact submission failed: %v", err)
		respondJSON(w, http.StatusInternalServerError, ContactResponse{
			Success: false,
			Message: "Failed to process your request. Please try again later.",
		})
		return
	}

	middleware.RecordLeadCaptured(submission.FormType)
	respondJSON(w, http.StatusOK, ContactResponse{
		Success: true,
		Message: "Thank you for your inquiry. Our team will contact you shortly.",
		LeadID:  result.LeadID,
	})
}
