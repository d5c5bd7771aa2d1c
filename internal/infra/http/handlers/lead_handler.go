package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
	"github.com/chiral-robotics/chiral-backend/internal/infra/http/middleware"
	"github.com/chiral-robotics/chiral-backend/internal/usecase"
)

type LeadHandler struct {
	Leads          entity.LeadRepository
	FollowUps      entity.FollowUpRepository
	UpdateStatusUC *usecase.UpdateLeadStatusUseCase
}

func NewLeadHandler(leads entity.LeadRepository, followUps entity.FollowUpRepository, updateStatusUC *usecase.UpdateLeadStatusUseCase) *LeadHandler {
	return &LeadHandler{
		Leads:          leads,
		FollowUps:      followUps,
		UpdateStatusUC: updateStatusUC,
	}
}

type pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	TotalPages  int `json:"total_pages"`
}

// List returns a filtered, paginated page of leads.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := intQuery(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := intQuery(q.Get("limit"), 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filters := entity.LeadFilters{
		Status:      q.Get("status"),
		InquiryType: q.Get("inquiry_type"),
		AssignedTo:  q.Get("assigned_to"),
		Search:      q.Get("search"),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
	if from := q.Get("from_date"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.FromDate = &t
		}
	}
	if to := q.Get("to_date"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.ToDate = &t
		}
	}

	leads, err := h.Leads.FindAll(r.Context(), filters)
	if err != nil {
		log.Printf("❌ Failed to list leads: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}
	total, err := h.Leads.Count(r.Context(), filters)
	if err != nil {
		log.Printf("❌ Failed to count leads: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}

	totalPages := (total + limit - 1) / limit
	respondJSON(w, http.StatusOK, map[string]any{
		"leads": leads,
		"pagination": pagination{
			CurrentPage: page,
			PerPage:     limit,
			Total:       total,
			TotalPages:  totalPages,
		},
	})
}

func (h *LeadHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Leads.Statistics(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		log.Printf("❌ Failed to compute lead statistics: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Get returns one lead together with its full follow-up history.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	lead, err := h.Leads.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Lead not found")
			return
		}
		log.Printf("❌ Failed to fetch lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch lead")
		return
	}

	followUps, err := h.FollowUps.FindByLeadID(r.Context(), id)
	if err != nil {
		log.Printf("❌ Failed to fetch follow-ups for lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch lead")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"lead":       lead,
		"follow_ups": followUps,
	})
}

// Update applies a partial patch. Only whitelisted columns survive the
// repository, so unknown keys in the body are silently ignored.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	previous, err := h.Leads.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Lead not found")
			return
		}
		log.Printf("❌ Failed to fetch lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	if status, ok := fields["status"].(string); ok && !entity.IsValidStatus(status) {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":         "Invalid status",
			"validStatuses": entity.ValidStatuses,
		})
		return
	}

	lead, err := h.Leads.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Lead not found")
			return
		}
		log.Printf("❌ Failed to update lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	if lead.Status != previous.Status {
		h.recordStatusChange(r, previous.Status, lead, fields)
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) recordStatusChange(r *http.Request, oldStatus string, lead *entity.Lead, fields map[string]any) {
	performedBy := "system"
	if user, ok := middleware.UserFrom(r.Context()); ok {
		performedBy = user.Username
	}
	notes := "Updated by " + performedBy
	if n, ok := fields["notes"].(string); ok && n != "" {
		notes = n
	}
	followUp := &entity.FollowUp{
		LeadID:      lead.ID,
		Action:      fmt.Sprintf("Status changed from %s to %s", oldStatus, lead.Status),
		Notes:       &notes,
		PerformedBy: &performedBy,
	}
	if err := h.FollowUps.Create(r.Context(), followUp); err != nil {
		log.Printf("⚠️ Failed to record status change for lead %d: %v", lead.ID, err)
	}
}

type updateStatusRequest struct {
	Status     string  `json:"status"`
	AssignedTo *string `json:"assignedTo"`
	Notes      *string `json:"notes"`
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	performedBy := "system"
	if user, ok := middleware.UserFrom(r.Context()); ok {
		performedBy = user.Username
	}

	lead, err := h.UpdateStatusUC.Execute(r.Context(), id, req.Status, req.AssignedTo, req.Notes, performedBy)
	if err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			switch domainErr.Code {
			case "INVALID_STATUS":
				respondJSON(w, http.StatusBadRequest, map[string]any{
					"error":         domainErr.Message,
					"validStatuses": entity.ValidStatuses,
				})
			case "NOT_FOUND":
				respondError(w, http.StatusNotFound, "Lead not found")
			default:
				respondError(w, http.StatusBadRequest, domainErr.Message)
			}
			return
		}
		log.Printf("❌ Failed to update status for lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update lead status")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.Leads.Delete(r.Context(), id)
	if err != nil {
		log.Printf("❌ Failed to delete lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete lead")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Lead not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Lead deleted successfully",
	})
}

type createFollowUpRequest struct {
	Action       string     `json:"action"`
	Notes        *string    `json:"notes"`
	ScheduledFor *time.Time `json:"scheduledFor"`
}

func (h *LeadHandler) CreateFollowUp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req createFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Action == "" {
		respondError(w, http.StatusBadRequest, "action is required")
		return
	}

	if _, err := h.Leads.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Lead not found")
			return
		}
		log.Printf("❌ Failed to fetch lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to create follow-up")
		return
	}

	var performedBy *string
	if user, ok := middleware.UserFrom(r.Context()); ok {
		performedBy = &user.Username
	}

	followUp := &entity.FollowUp{
		LeadID:       id,
		Action:       req.Action,
		Notes:        req.Notes,
		PerformedBy:  performedBy,
		ScheduledFor: req.ScheduledFor,
	}
	if err := h.FollowUps.Create(r.Context(), followUp); err != nil {
		log.Printf("❌ Failed to create follow-up for lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to create follow-up")
		return
	}

	respondJSON(w, http.StatusOK, followUp)
}

func (h *LeadHandler) ListFollowUps(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	followUps, err := h.FollowUps.FindByLeadID(r.Context(), id)
	if err != nil {
		log.Printf("❌ Failed to fetch follow-ups for lead %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch follow-ups")
		return
	}
	respondJSON(w, http.StatusOK, followUps)
}

// PendingFollowUps lists scheduled follow-ups whose time has arrived and
// which nobody has completed yet.
func (h *LeadHandler) PendingFollowUps(w http.ResponseWriter, r *http.Request) {
	followUps, err := h.FollowUps.FindPending(r.Context())
	if err != nil {
		log.Printf("❌ Failed to fetch pending follow-ups: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch follow-ups")
		return
	}
	respondJSON(w, http.StatusOK, followUps)
}

func (h *LeadHandler) UpcomingFollowUps(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r.URL.Query().Get("days"), 7)
	if days < 1 {
		days = 7
	}

	followUps, err := h.FollowUps.FindUpcoming(r.Context(), days)
	if err != nil {
		log.Printf("❌ Failed to fetch upcoming follow-ups: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch follow-ups")
		return
	}
	respondJSON(w, http.StatusOK, followUps)
}

type completeFollowUpRequest struct {
	Notes *string `json:"notes"`
}

func (h *LeadHandler) CompleteFollowUp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "followUpId")
	if !ok {
		return
	}

	var req completeFollowUpRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	followUp, err := h.FollowUps.Complete(r.Context(), id, req.Notes)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Follow-up not found")
			return
		}
		log.Printf("❌ Failed to complete follow-up %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to complete follow-up")
		return
	}

	respondJSON(w, http.StatusOK, followUp)
}

type bulkAssignRequest struct {
	LeadIDs    []int64 `json:"leadIds"`
	AssignedTo string  `json:"assignedTo"`
}

type bulkItemResult struct {
	LeadID int64  `json:"leadId"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// BulkAssign assigns a batch of leads one by one. A miss on one lead does
// not stop the rest; the response reports per-lead outcomes.
func (h *LeadHandler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req bulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.LeadIDs) == 0 || req.AssignedTo == "" {
		respondError(w, http.StatusBadRequest, "leadIds and assignedTo are required")
		return
	}

	results := make([]bulkItemResult, 0, len(req.LeadIDs))
	succeeded := 0
	for _, leadID := range req.LeadIDs {
		_, err := h.Leads.Update(r.Context(), leadID, map[string]any{"assigned_to": req.AssignedTo})
		if err != nil {
			results = append(results, bulkItemResult{LeadID: leadID, OK: false, Error: bulkErrorMessage(err)})
			continue
		}
		succeeded++
		results = append(results, bulkItemResult{LeadID: leadID, OK: true})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   succeeded == len(req.LeadIDs),
		"succeeded": succeeded,
		"failed":    len(req.LeadIDs) - succeeded,
		"results":   results,
	})
}

type bulkStatusRequest struct {
	LeadIDs []int64 `json:"leadIds"`
	Status  string  `json:"status"`
}

func (h *LeadHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.LeadIDs) == 0 {
		respondError(w, http.StatusBadRequest, "leadIds is required")
		return
	}
	if !entity.IsValidStatus(req.Status) {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":         "Invalid status",
			"validStatuses": entity.ValidStatuses,
		})
		return
	}

	performedBy := "system"
	if user, ok := middleware.UserFrom(r.Context()); ok {
		performedBy = user.Username
	}

	results := make([]bulkItemResult, 0, len(req.LeadIDs))
	succeeded := 0
	for _, leadID := range req.LeadIDs {
		_, err := h.UpdateStatusUC.Execute(r.Context(), leadID, req.Status, nil, nil, performedBy)
		if err != nil {
			results = append(results, bulkItemResult{LeadID: leadID, OK: false, Error: bulkErrorMessage(err)})
			continue
		}
		succeeded++
		results = append(results, bulkItemResult{LeadID: leadID, OK: true})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   succeeded == len(req.LeadIDs),
		"succeeded": succeeded,
		"failed":    len(req.LeadIDs) - succeeded,
		"results":   results,
	})
}

func bulkErrorMessage(err error) string {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	if errors.Is(err, entity.ErrNotFound) {
		return "Lead not found"
	}
	return "update failed"
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
