package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
	"github.com/chiral-robotics/chiral-backend/internal/infra/http/middleware"
	"github.com/chiral-robotics/chiral-backend/internal/infra/mail"
)

const (
	// MaxAttempts is the attempt ceiling per job; reaching it without a
	// successful send moves the job to failed.
	MaxAttempts = 3

	pollInterval = 5 * time.Minute

	// Spacing between consecutive sends inside a cycle, so a backlog
	// doesn't burst the provider.
	interSendDelay = 1 * time.Second
)

// EmailDispatcher drains the email queue on a fixed interval. Sends are
// sequential within a cycle and cycles never overlap: the in-flight flag is
// per-instance state, so dispatchers in tests don't interfere.
type EmailDispatcher struct {
	queue  entity.EmailQueueRepository
	sender mail.Sender

	mu         sync.Mutex
	processing bool

	tickInterval time.Duration
	sendDelay    time.Duration
}

func NewEmailDispatcher(queue entity.EmailQueueRepository, sender mail.Sender) *EmailDispatcher {
	return &EmailDispatcher{
		queue:        queue,
		sender:       sender,
		tickInterval: pollInterval,
		sendDelay:    interSendDelay,
	}
}

// Start blocks on the poll loop until ctx is cancelled.
func (d *EmailDispatcher) Start(ctx context.Context) {
	if d.sender == nil {
		log.Println("📭 Email dispatcher disabled: mail transport not configured")
		return
	}

	log.Printf("📬 Email dispatcher started (every %s, max %d attempts)", d.tickInterval, MaxAttempts)

	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()

	d.ProcessQueue(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Email dispatcher stopped")
			return
		case <-ticker.C:
			d.ProcessQueue(ctx)
		}
	}
}

// ProcessQueue runs one dispatch cycle. Safe to call from the manual
// trigger endpoint; a cycle already in flight makes this a no-op.
func (d *EmailDispatcher) ProcessQueue(ctx context.Context) {
	if d.sender == nil {
		return
	}

	d.mu.Lock()
	if d.processing {
		d.mu.Unlock()
		return
	}
	d.processing = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.processing = false
		d.mu.Unlock()
	}()

	jobs, err := d.queue.FindPending(ctx, MaxAttempts)
	if err != nil {
		log.Printf("❌ Failed to fetch pending emails: %v", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	log.Printf("📨 Processing %d queued email(s)", len(jobs))

	for i, job := range jobs {
		d.dispatch(ctx, job)

		if i < len(jobs)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.sendDelay):
			}
		}
	}
}

// dispatch attempts one send and records the outcome. A failure here never
// propagates: one bad job must not stall the rest of the cycle.
func (d *EmailDispatcher) dispatch(ctx context.Context, job *entity.EmailJob) {
	html, text := mail.Render(job.Template, job.Data)

	if err := d.sender.Send(job.Recipient, job.Subject, html, text); err != nil {
		log.Printf("❌ Failed to send email %d to %s: %v", job.ID, job.Recipient, err)

		// The attempt about to be recorded is job.Attempts+1.
		if job.Attempts >= MaxAttempts-1 {
			middleware.RecordEmailFailed()
			if dbErr := d.queue.MarkFailed(ctx, job.ID, err.Error()); dbErr != nil {
				log.Printf("❌ Failed to mark email %d failed: %v", job.ID, dbErr)
			}
		} else {
			errText := err.Error()
			if dbErr := d.queue.UpdateStatus(ctx, job.ID, entity.EmailStatusPending, &errText, nil); dbErr != nil {
				log.Printf("❌ Failed to record retry for email %d: %v", job.ID, dbErr)
			}
		}
		return
	}

	middleware.RecordEmailSent()
	if err := d.queue.MarkSent(ctx, job.ID); err != nil {
		log.Printf("❌ Failed to mark email %d sent: %v", job.ID, err)
		return
	}
	log.Printf("✅ Email %d sent to %s", job.ID, job.Recipient)
}
