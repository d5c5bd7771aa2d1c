package usecase

import (
	"net/mail"
	"strings"
)

// Form types the public contact endpoint accepts.
var validFormTypes = []string{"multi-step-lead", "demo", "sales", "general", "lead"}

func isValidFormType(formType string) bool {
	for _, t := range validFormTypes {
		if t == formType {
			return true
		}
	}
	return false
}

// ValidateContactSubmission checks the full schema and reports every
// violation it finds.
func ValidateContactSubmission(input ContactSubmission) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(input.CompanyName) == "" {
		errs = append(errs, ValidationError{"companyName", "is required"})
	} else if len(input.CompanyName) > 200 {
		errs = append(errs, ValidationError{"companyName", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.ContactPerson) == "" {
		errs = append(errs, ValidationError{"contactPerson", "is required"})
	} else if len(input.ContactPerson) > 200 {
		errs = append(errs, ValidationError{"contactPerson", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.FormType) == "" {
		errs = append(errs, ValidationError{"formType", "is required"})
	} else if !isValidFormType(input.FormType) {
		errs = append(errs, ValidationError{"formType",
			"must be one of: " + strings.Join(validFormTypes, ", ")})
	}

	if len(input.Phone) > 50 {
		errs = append(errs, ValidationError{"phone", "must not exceed 50 characters"})
	}
	if len(input.Message) > 5000 {
		errs = append(errs, ValidationError{"message", "must not exceed 5000 characters"})
	}
	if len(input.Requirements) > 5000 {
		errs = append(errs, ValidationError{"requirements", "must not exceed 5000 characters"})
	}

	return errs
}
