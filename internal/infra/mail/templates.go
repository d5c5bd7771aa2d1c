package mail

import (
	"fmt"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

// Each template is a pure function over the job payload. No parsing, no
// filesystem state; a renderer given the same payload always produces the
// same body.
type renderFunc func(data map[string]any) string

var htmlTemplates = map[string]renderFunc{
	entity.TemplateWelcome:          welcomeHTML,
	entity.TemplateLeadNotification: leadNotificationHTML,
	entity.TemplateFollowUpReminder: followUpReminderHTML,
	entity.TemplateDemoConfirmation: demoConfirmationHTML,
	entity.TemplateQuoteFollowUp:    quoteFollowUpHTML,
	entity.TemplateLeadWon:          leadWonHTML,
}

var textTemplates = map[string]renderFunc{
	entity.TemplateWelcome:          welcomeText,
	entity.TemplateLeadNotification: leadNotificationText,
	entity.TemplateLeadWon:          leadWonText,
}

// Render resolves the named template against the payload. An unknown name
// falls back to the raw htmlContent/textContent payload fields, else empty.
func Render(template string, data map[string]any) (html, text string) {
	if fn, ok := htmlTemplates[template]; ok {
		html = fn(data)
	} else {
		html = str(data, "htmlContent")
	}
	if fn, ok := textTemplates[template]; ok {
		text = fn(data)
	} else if _, known := htmlTemplates[template]; !known {
		text = str(data, "textContent")
	}
	return html, text
}

func str(data map[string]any, key string) string {
	if v, ok := data[key]; ok {
		switch t := v.(type) {
		case string:
			return t
		case float64:
			if t == float64(int64(t)) {
				return fmt.Sprintf("%d", int64(t))
			}
			return fmt.Sprintf("%g", t)
		case int:
			return fmt.Sprintf("%d", t)
		case int64:
			return fmt.Sprintf("%d", t)
		}
	}
	return ""
}

func strOr(data map[string]any, key, fallback string) string {
	if s := str(data, key); s != "" {
		return s
	}
	return fallback
}

func welcomeHTML(data map[string]any) string {
	extra := ""
	if budget := str(data, "budget"); budget != "" {
		extra += fmt.Sprintf("<li><strong>Budget:</strong> %s</li>", budget)
	}
	if timeline := str(data, "timeline"); timeline != "" {
		extra += fmt.Sprintf("<li><strong>Timeline:</strong> %s</li>", timeline)
	}

	return fmt.Sprintf(`<h2>Thank you for contacting CHIRAL Robotics</h2>
<p>Dear %s,</p>
<p>We have received your %s and appreciate your interest in CHIRAL's advanced robotics solutions.</p>
<p>Our team will review your requirements and contact you within 24 hours to discuss how we can help address your operational needs.</p>
<div style="background-color:#f8f9fa;padding:20px;border-radius:8px;margin:20px 0;">
  <h3>Your Inquiry Details:</h3>
  <ul>
    <li><strong>Company:</strong> %s</li>
    <li><strong>Industry:</strong> %s</li>
    <li><strong>Inquiry Type:</strong> %s</li>
    %s
  </ul>
</div>
<p>If you have any urgent questions, please don't hesitate to contact us.</p>
<p>Best regards,<br>The CHIRAL Team</p>`,
		str(data, "contactPerson"),
		str(data, "inquiryType"),
		str(data, "companyName"),
		strOr(data, "industry", "Not specified"),
		str(data, "inquiryType"),
		extra,
	)
}

func welcomeText(data map[string]any) string {
	return fmt.Sprintf(`Thank you for contacting CHIRAL Robotics

Dear %s,

We have received your %s and appreciate your interest in CHIRAL's advanced robotics solutions.

Our team will review your requirements and contact you within 24 hours.

Your Inquiry Details:
- Company: %s
- Industry: %s
- Inquiry Type: %s

Best regards,
The CHIRAL Team`,
		str(data, "contactPerson"),
		str(data, "inquiryType"),
		str(data, "companyName"),
		strOr(data, "industry", "Not specified"),
		str(data, "inquiryType"),
	)
}

func leadNotificationHTML(data map[string]any) string {
	title := "New Lead"
	if str(data, "inquiryType") == "demo" {
		title = "Demo Request"
	}

	blocks := ""
	if msg := str(data, "message"); msg != "" {
		blocks += fmt.Sprintf(`<div style="background-color:#f8f9fa;padding:15px;border-left:4px solid #007bff;margin:20px 0;"><strong>Message:</strong><br>%s</div>`, msg)
	}
	if req := str(data, "requirements"); req != "" {
		blocks += fmt.Sprintf(`<div style="background-color:#f8f9fa;padding:15px;border-left:4px solid #28a745;margin:20px 0;"><strong>Requirements:</strong><br>%s</div>`, req)
	}

	return fmt.Sprintf(`<h2>New %s Alert</h2>
<div style="background-color:#f8f9fa;padding:20px;border-radius:8px;margin:20px 0;">
  <h3>Lead Information</h3>
  <ul>
    <li><strong>Company:</strong> %s</li>
    <li><strong>Contact:</strong> %s</li>
    <li><strong>Email:</strong> %s</li>
    <li><strong>Phone:</strong> %s</li>
    <li><strong>Industry:</strong> %s</li>
    <li><strong>Source:</strong> %s</li>
    <li><strong>Lead Score:</strong> %s/100</li>
  </ul>
</div>
%s
<p><strong>Contact within 2 hours for maximum conversion.</strong></p>`,
		title,
		str(data, "companyName"),
		str(data, "contactPerson"),
		str(data, "email"),
		strOr(data, "phone", "Not provided"),
		strOr(data, "industry", "Not specified"),
		strOr(data, "source", "Direct"),
		strOr(data, "score", "0"),
		blocks,
	)
}

func leadNotificationText(data map[string]any) string {
	title := "New Lead"
	if str(data, "inquiryType") == "demo" {
		title = "Demo Request"
	}

	return fmt.Sprintf(`New %s Alert

Lead Information:
- Company: %s
- Contact: %s
- Email: %s
- Phone: %s
- Industry: %s
- Source: %s
- Lead Score: %s/100

Contact within 2 hours for maximum conversion.`,
		title,
		str(data, "companyName"),
		str(data, "contactPerson"),
		str(data, "email"),
		strOr(data, "phone", "Not provided"),
		strOr(data, "industry", "Not specified"),
		strOr(data, "source", "Direct"),
		strOr(data, "score", "0"),
	)
}

func followUpReminderHTML(data map[string]any) string {
	notes := ""
	if n := str(data, "notes"); n != "" {
		notes = fmt.Sprintf(`<div style="background-color:#e2e3e5;padding:15px;border-radius:8px;margin:20px 0;"><strong>Previous Notes:</strong><br>%s</div>`, n)
	}

	return fmt.Sprintf(`<h2>Follow-up Reminder: %s</h2>
<p>This is a reminder to follow up with:</p>
<ul>
  <li><strong>Company:</strong> %s</li>
  <li><strong>Contact:</strong> %s</li>
  <li><strong>Email:</strong> %s</li>
  <li><strong>Status:</strong> %s</li>
</ul>
<div style="background-color:#fff3cd;padding:15px;border-radius:8px;margin:20px 0;">
  <strong>Action Required:</strong> %s
</div>
%s
<p><strong>Scheduled For:</strong> %s</p>`,
		str(data, "companyName"),
		str(data, "companyName"),
		str(data, "contactPerson"),
		str(data, "email"),
		str(data, "status"),
		str(data, "action"),
		notes,
		str(data, "scheduledFor"),
	)
}

func demoConfirmationHTML(data map[string]any) string {
	return fmt.Sprintf(`<h2>Demo Session Confirmed</h2>
<p>Dear %s,</p>
<p>Your demo session has been confirmed! We're excited to show you how CHIRAL's robotics solutions can transform your operations.</p>
<div style="background-color:#e7f3ff;padding:20px;border-radius:8px;margin:20px 0;">
  <h3>Demo Details:</h3>
  <ul>
    <li><strong>Date &amp; Time:</strong> %s</li>
    <li><strong>Duration:</strong> %s</li>
    <li><strong>Location:</strong> %s</li>
  </ul>
</div>
<p>If you need to reschedule or have any questions, please contact us immediately.</p>
<p>Best regards,<br>The CHIRAL Demo Team</p>`,
		str(data, "contactPerson"),
		str(data, "demoDateTime"),
		strOr(data, "duration", "60 minutes"),
		strOr(data, "location", "Virtual/Online"),
	)
}

func quoteFollowUpHTML(data map[string]any) string {
	return fmt.Sprintf(`<h2>Quote Follow-up</h2>
<p>Dear %s,</p>
<p>I wanted to follow up on the quote we provided for your robotics solution on %s.</p>
<div style="background-color:#f8f9fa;padding:20px;border-radius:8px;margin:20px 0;">
  <h3>Quote Summary:</h3>
  <ul>
    <li><strong>Quote #:</strong> %s</li>
    <li><strong>Solution:</strong> %s</li>
    <li><strong>Value:</strong> %s</li>
    <li><strong>Valid Until:</strong> %s</li>
  </ul>
</div>
<p>Thank you for considering CHIRAL Robotics for your automation needs.</p>
<p>Best regards,<br>%s</p>`,
		str(data, "contactPerson"),
		str(data, "quoteDate"),
		str(data, "quoteNumber"),
		str(data, "solution"),
		str(data, "quoteValue"),
		str(data, "validUntil"),
		strOr(data, "salesRep", "CHIRAL Sales Team"),
	)
}

func leadWonHTML(data map[string]any) string {
	return fmt.Sprintf(`<h2>Lead Converted</h2>
<div style="background-color:#d4edda;padding:20px;border-radius:8px;margin:20px 0;">
  <ul>
    <li><strong>Company:</strong> %s</li>
    <li><strong>Contact:</strong> %s</li>
    <li><strong>Email:</strong> %s</li>
    <li><strong>Converted By:</strong> %s</li>
  </ul>
</div>`,
		str(data, "companyName"),
		str(data, "contactPerson"),
		str(data, "email"),
		str(data, "convertedBy"),
	)
}

func leadWonText(data map[string]any) string {
	return fmt.Sprintf(`Lead Converted

- Company: %s
- Contact: %s
- Email: %s
- Converted By: %s`,
		str(data, "companyName"),
		str(data, "contactPerson"),
		str(data, "email"),
		str(data, "convertedBy"),
	)
}
