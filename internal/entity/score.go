package entity

import "strings"

// ScoreInput carries the submitted attributes the scorer looks at.
// Scoring happens once, at creation time. Later edits do not re-score;
// the stored score is a cached value, not a live view.
type ScoreInput struct {
	InquiryType string
	Budget      string
	Timeline    string
	Phone       string
	Industry    string
	CompanyName string
}

var highValueIndustries = []string{"defense", "security", "industrial", "logistics"}

// CalculateScore rates a submission 0-100. Budget and timeline matching is
// plain substring containment, not numeric parsing.
func CalculateScore(in ScoreInput) int {
	score := 0

	switch in.InquiryType {
	case "demo":
		score += 30
	case "sales":
		score += 20
	default:
		score += 10
	}

	if strings.Contains(in.Budget, "100k") || strings.Contains(in.Budget, "250k") {
		score += 20
	} else if strings.Contains(in.Budget, "50k") {
		score += 15
	} else if strings.Contains(in.Budget, "25k") {
		score += 10
	}

	if strings.Contains(in.Timeline, "immediate") || strings.Contains(in.Timeline, "month") {
		score += 15
	} else if strings.Contains(in.Timeline, "quarter") {
		score += 10
	} else if strings.Contains(in.Timeline, "year") {
		score += 5
	}

	if in.Phone != "" {
		score += 5
	}

	if in.Industry != "" {
		industry := strings.ToLower(in.Industry)
		for _, hv := range highValueIndustries {
			if strings.Contains(industry, hv) {
				score += 10
				break
			}
		}
	}

	if in.CompanyName != "" {
		company := strings.ToLower(in.CompanyName)
		if strings.Contains(company, "ltd") || strings.Contains(company, "inc") || strings.Contains(company, "corp") {
			score += 5
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}
