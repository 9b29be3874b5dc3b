package analytics

import "strings"

// Category is a service category inferred from a line item description.
type Category string

const (
	CategoryWebDevelopment Category = "Web Development"
	CategoryDesignServices Category = "Design Services"
	CategoryConsulting     Category = "Consulting"
	CategoryMarketing      Category = "Marketing"
	CategoryOther          Category = "Other"
)

// categoryRules is the single ordered decision table shared by every
// consumer. Rules are evaluated top to bottom and the first match wins,
// so "Web design consulting" is Web Development, not Design Services.
var categoryRules = []struct {
	keywords []string
	category Category
}{
	{[]string{"web", "development", "coding"}, CategoryWebDevelopment},
	{[]string{"design", "ui", "ux"}, CategoryDesignServices},
	{[]string{"consulting", "advice", "strategy"}, CategoryConsulting},
	{[]string{"marketing", "advertising", "promotion"}, CategoryMarketing},
}

// Categorize infers a category from a description via case-insensitive
// substring matching against the rule table. Unmatched or empty
// descriptions fall into Other.
func Categorize(description string) Category {
	desc := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
