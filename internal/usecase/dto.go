package usecase

// ContactSubmission is the contact form payload plus the request metadata
// the handler extracts (referrer, client source attribution).
type ContactSubmission struct {
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	FormType      string `json:"formType"`
	Phone         string `json:"phone,omitempty"`
	Message       string `json:"message,omitempty"`
	Industry      string `json:"industry,omitempty"`
	Budget        string `json:"budget,omitempty"`
	Timeline      string `json:"timeline,omitempty"`
	Requirements  string `json:"requirements,omitempty"`
	Source        string `json:"source,omitempty"`
	UTMSource     string `json:"utmSource,omitempty"`
	UTMMedium     string `json:"utmMedium,omitempty"`
	UTMCampaign   string `json:"utmCampaign,omitempty"`

	// Filled by the handler, not the form body.
	Referrer string `json:"-"`
}

type ContactResult struct {
	LeadID int64 `json:"leadId"`
	Score  int   `json:"score"`
}
