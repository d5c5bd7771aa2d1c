package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
	"github.com/chiral-robotics/chiral-backend/internal/infra/events"
)

// Initial follow-up window for a fresh lead.
const firstResponseWindow = 2 * time.Hour

type SubmitContactUseCase struct {
	Leads       entity.LeadRepository
	FollowUps   entity.FollowUpRepository
	EmailQueue  entity.EmailQueueRepository
	Broadcaster events.Broadcaster

	// SalesEmail receives the internal notification. Empty means the mail
	// transport is not configured and the whole email step is skipped.
	SalesEmail     string
	MailConfigured bool
}

func NewSubmitContactUseCase(
	leads entity.LeadRepository,
	followUps entity.FollowUpRepository,
	emailQueue entity.EmailQueueRepository,
	broadcaster events.Broadcaster,
	salesEmail string,
	mailConfigured bool,
) *SubmitContactUseCase {
	return &SubmitContactUseCase{
		Leads:          leads,
		FollowUps:      followUps,
		EmailQueue:     emailQueue,
		Broadcaster:    broadcaster,
		SalesEmail:     salesEmail,
		MailConfigured: mailConfigured,
	}
}

// Execute runs the contact-form path: validate, create the lead, queue the
// notification and auto-reply emails, schedule the first follow-up, and
// broadcast the new-lead event. The lead row is the source of truth for
// "did we receive this lead": email queuing failures are reported in the
// log, never to the submitter.
func (uc *SubmitContactUseCase) Execute(ctx context.Context, input ContactSubmission) (*ContactResult, error) {
	if errs := ValidateContactSubmission(input); len(errs) > 0 {
		return nil, errs
	}

	source := input.Source
	if source == "" {
		source = input.Referrer
	}
	if source == "" {
		source = "direct"
	}

	lead := &entity.Lead{
		CompanyName:   input.CompanyName,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		InquiryType:   input.FormType,
		Phone:         optional(input.Phone),
		Message:       optional(input.Message),
		Industry:      optional(input.Industry),
		Budget:        optional(input.Budget),
		Timeline:      optional(input.Timeline),
		Requirements:  optional(input.Requirements),
		Source:        source,
		UTMSource:     optional(input.UTMSource),
		UTMMedium:     optional(input.UTMMedium),
		UTMCampaign:   optional(input.UTMCampaign),
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		log.Printf("❌ Failed to create lead for %s: %v", input.Email, err)
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to store the submission",
		}
	}

	if uc.MailConfigured {
		if err := uc.queueLeadEmails(ctx, lead); err != nil {
			// Non-fatal: the lead row exists, notification delivery is
			// best-effort and the queue retries on its own.
			log.Printf("⚠️ Lead %d created but email queuing failed: %v", lead.ID, err)
		}
	} else {
		log.Printf("📭 Mail transport not configured - no emails queued for lead %d", lead.ID)
	}

	if uc.Broadcaster != nil {
		event := events.LeadCreatedEvent{
			LeadID:        lead.ID,
			CompanyName:   lead.CompanyName,
			ContactPerson: lead.ContactPerson,
			Email:         lead.Email,
			InquiryType:   lead.InquiryType,
			Score:         lead.Score,
		}
		go func() {
			if err := uc.Broadcaster.PublishLeadCreated(context.Background(), event); err != nil {
				log.Printf("⚠️ Failed to broadcast lead %d: %v", lead.ID, err)
			}
		}()
	}

	return &ContactResult{LeadID: lead.ID, Score: lead.Score}, nil
}

func (uc *SubmitContactUseCase) queueLeadEmails(ctx context.Context, lead *entity.Lead) error {
	payload := leadPayload(lead)

	salesSubject := fmt.Sprintf("New Sales Inquiry: %s", lead.CompanyName)
	if lead.InquiryType == "demo" {
		salesSubject = fmt.Sprintf("New Demo Request: %s", lead.CompanyName)
	}

	if err := uc.EmailQueue.Create(ctx, &entity.EmailJob{
		LeadID:    &lead.ID,
		Recipient: uc.SalesEmail,
		Subject:   salesSubject,
		Template:  entity.TemplateLeadNotification,
		Data:      payload,
	}); err != nil {
		return err
	}

	if err := uc.EmailQueue.Create(ctx, &entity.EmailJob{
		LeadID:    &lead.ID,
		Recipient: lead.Email,
		Subject:   "Thank you for contacting CHIRAL Robotics",
		Template:  entity.TemplateWelcome,
		Data:      payload,
	}); err != nil {
		return err
	}

	scheduledFor := time.Now().Add(firstResponseWindow)
	return uc.FollowUps.Create(ctx, &entity.FollowUp{
		LeadID:       lead.ID,
		Action:       "Initial contact - respond within 2 hours",
		ScheduledFor: &scheduledFor,
	})
}

func leadPayload(lead *entity.Lead) map[string]any {
	return map[string]any{
		"companyName":   lead.CompanyName,
		"contactPerson": lead.ContactPerson,
		"email":         lead.Email,
		"phone":         deref(lead.Phone),
		"inquiryType":   lead.InquiryType,
		"industry":      deref(lead.Industry),
		"budget":        deref(lead.Budget),
		"timeline":      deref(lead.Timeline),
		"message":       deref(lead.Message),
		"requirements":  deref(lead.Requirements),
		"source":        lead.Source,
		"score":         lead.Score,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
