package usecase

import (
	"strings"

	"github.com/ecoscan/backend/internal/domain"
)

// Assessment bundles the advisory strings the presentation layer shows next
// to a product record.
type Assessment struct {
	EcoScore        string `json:"ecoScore"`
	Packaging       string `json:"packaging"`
	CarbonFootprint string `json:"carbonFootprint,omitempty"`
}

const carbonFootprintBlurb = "The carbon footprint represents the total greenhouse gas emissions caused directly or indirectly by the product. A lower carbon footprint indicates a lower environmental impact."

// EcoScoreFeedback maps an eco-score grade to advisory text. The grade is
// compared case-insensitively; anything outside A-E (including "") falls
// through to "not available". Total over all inputs.
func EcoScoreFeedback(grade string) string {
	switch strings.ToUpper(strings.TrimSpace(grade)) {
	case "A", "B":
		return "This product has a good eco-score, indicating a lower environmental impact."
	case "C":
		return "This product has a moderate eco-score. Consider if there are better options available."
	case "D", "E":
		return "This product has a bad eco-score, indicating a higher environmental impact. Consider choosing a more environmentally friendly option."
	default:
		return "Eco-score not available."
	}
}

// packagingGroups are evaluated strictly in order; the first group with any
// substring match decides the verdict.
var packagingGroups = []struct {
	keywords []string
	verdict  string
}{
	{[]string{"paper", "glass", "metal", "aluminum"}, "This product uses environmentally friendly materials."},
	{[]string{"pet", "hdpe"}, "This product uses recyclable plastic."},
	{[]string{"pvc", "non-recyclable"}, "This product uses non-recyclable materials."},
}

// PackagingFeedback maps a free-text packaging description to advisory text.
// Descriptions are uncurated and may list several materials; matching is
// case-insensitive substring with group priority, so "Recycled Paper, PET lid"
// reads as environmentally friendly. Total over all inputs.
func PackagingFeedback(description string) string {
	if strings.TrimSpace(description) == "" {
		return "Packaging information not available."
	}

	lower := strings.ToLower(description)
	for _, group := range packagingGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.verdict
			}
		}
	}
	return "Packaging material is mixed or not clearly defined."
}

// BuildAssessment computes the advisory strings for a record. The carbon
// blurb is included only when the record carries a footprint value.
func BuildAssessment(record *domain.ProductRecord) *Assessment {
	a := &Assessment{
		EcoScore:  EcoScoreFeedback(record.Grade()),
		Packaging: PackagingFeedback(record.Packaging),
	}
	if record.CarbonFootprintValue != nil {
		a.CarbonFootprint = carbonFootprintBlurb
	}
	return a
}
