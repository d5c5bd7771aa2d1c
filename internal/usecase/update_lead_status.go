package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

type UpdateLeadStatusUseCase struct {
	Leads      entity.LeadRepository
	FollowUps  entity.FollowUpRepository
	EmailQueue entity.EmailQueueRepository

	SalesEmail     string
	MailConfigured bool
}

func NewUpdateLeadStatusUseCase(
	leads entity.LeadRepository,
	followUps entity.FollowUpRepository,
	emailQueue entity.EmailQueueRepository,
	salesEmail string,
	mailConfigured bool,
) *UpdateLeadStatusUseCase {
	return &UpdateLeadStatusUseCase{
		Leads:          leads,
		FollowUps:      followUps,
		EmailQueue:     emailQueue,
		SalesEmail:     salesEmail,
		MailConfigured: mailConfigured,
	}
}

// Execute moves a lead through the status state machine. The closed status
// set is enforced here; the repository trusts this layer. Every transition
// leaves a follow-up behind, and reaching "won" queues a conversion
// notification to the sales inbox.
func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, leadID int64, status string, assignedTo, notes *string, performedBy string) (*entity.Lead, error) {
	if !entity.IsValidStatus(status) {
		return nil, &DomainError{
			Code: "INVALID_STATUS",
			Message: fmt.Sprintf("invalid status %q, valid statuses: %s",
				status, strings.Join(entity.ValidStatuses, ", ")),
		}
	}

	lead, err := uc.Leads.UpdateStatus(ctx, leadID, status, assignedTo)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, &DomainError{Code: "NOT_FOUND", Message: "lead not found"}
	}
	if err != nil {
		log.Printf("❌ Failed to update status of lead %d: %v", leadID, err)
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to update lead status"}
	}

	followUpNotes := notes
	if followUpNotes == nil {
		defaultNotes := fmt.Sprintf("Updated by %s", performedBy)
		followUpNotes = &defaultNotes
	}

	if err := uc.FollowUps.Create(ctx, &entity.FollowUp{
		LeadID:      leadID,
		Action:      fmt.Sprintf("Status updated to %s", status),
		Notes:       followUpNotes,
		PerformedBy: optional(performedBy),
	}); err != nil {
		log.Printf("⚠️ Status of lead %d updated but follow-up creation failed: %v", leadID, err)
	}

	if status == "won" && uc.MailConfigured {
		payload := leadPayload(lead)
		payload["convertedBy"] = performedBy

		if err := uc.EmailQueue.Create(ctx, &entity.EmailJob{
			LeadID:    &lead.ID,
			Recipient: uc.SalesEmail,
			Subject:   fmt.Sprintf("🎉 Lead Converted: %s", lead.CompanyName),
			Template:  entity.TemplateLeadWon,
			Data:      payload,
		}); err != nil {
			log.Printf("⚠️ Failed to queue won notification for lead %d: %v", leadID, err)
		}
	}

	return lead, nil
}
