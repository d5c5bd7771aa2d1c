package entity

import (
	"context"
	"time"
)

// Lead statuses form a closed set. The repository trusts its callers to
// stay inside it; the HTTP layer validates before writing.
var ValidStatuses = []string{
	"new", "contacted", "qualified", "proposal",
	"negotiation", "won", "lost", "nurturing",
}

func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Lead struct {
	ID            int64     `json:"id"`
	CompanyName   string    `json:"company_name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	InquiryType   string    `json:"inquiry_type"`
	Message       *string   `json:"message,omitempty"`
	Source        string    `json:"source"`
	UTMSource     *string   `json:"utm_source,omitempty"`
	UTMMedium     *string   `json:"utm_medium,omitempty"`
	UTMCampaign   *string   `json:"utm_campaign,omitempty"`
	Industry      *string   `json:"industry,omitempty"`
	Budget        *string   `json:"budget,omitempty"`
	Timeline      *string   `json:"timeline,omitempty"`
	Requirements  *string   `json:"requirements,omitempty"`
	Status        string    `json:"status"`
	Score         int       `json:"score"`
	AssignedTo    *string   `json:"assigned_to,omitempty"`
	Tags          *string   `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LeadFilters narrows FindAll/Count. Zero values mean "no filter".
type LeadFilters struct {
	Status      string
	InquiryType string
	AssignedTo  string
	FromDate    *time.Time
	ToDate      *time.Time
	Search      string
	Limit       int
	Offset      int
}

type LeadStatistics struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	DemoRequests   int            `json:"demo_requests"`
	SalesInquiries int            `json:"sales_inquiries"`
	AvgScore       float64        `json:"avg_score"`
	ConversionRate float64        `json:"conversion_rate"`
	BySource       []GroupCount   `json:"by_source"`
	ByIndustry     []GroupCount   `json:"by_industry"`
}

type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id int64) (*Lead, error)
	FindByEmail(ctx context.Context, email string) ([]*Lead, error)
	FindAll(ctx context.Context, filters LeadFilters) ([]*Lead, error)
	Count(ctx context.Context, filters LeadFilters) (int, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*Lead, error)
	UpdateStatus(ctx context.Context, id int64, status string, assignedTo *string) (*Lead, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Statistics(ctx context.Context, period string) (*LeadStatistics, error)
}
