// Package rules applies user-defined categorization rules to
// transactions. Rules are evaluated in order and the first match wins.
package rules

import (
	"strings"

	"github.com/paisawise/transaction-intelligence/internal/models"
)

// MatchType selects how a rule's keyword is compared against the
// transaction description.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
)

// Rule maps a description pattern to a target category.
type Rule struct {
	Match    MatchType `json:"match"`
	Keyword  string    `json:"keyword"`
	Category string    `json:"category"`
}

// Apply evaluates rules against each transaction and returns a new slice
// with categories assigned. Comparison is case-insensitive; transactions
// with no matching rule keep their existing category. The input is never
// mutated.
func Apply(ruleset []Rule, txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	copy(out, txns)

	for i := range out {
		if category, ok := match(ruleset, out[i].Description); ok {
			out[i].Category = category
		}
	}
	return out
}

// ApplyParsed is Apply for parser output that has not yet been assigned
// identity.
func ApplyParsed(ruleset []Rule, txns []models.ParsedTransaction) []models.ParsedTransaction {
	out := make([]models.ParsedTransaction, len(txns))
	copy(out, txns)

	for i := range out {
		if category, ok := match(ruleset, out[i].Description); ok {
			out[i].Category = category
		}
	}
	return out
}

func match(ruleset []Rule, description string) (string, bool) {
	desc := strings.ToLower(strings.TrimSpace(description))
	for _, r := range ruleset {
		keyword := strings.ToLower(strings.TrimSpace(r.Keyword))
		if keyword == "" {
			continue
		}
		switch r.Match {
		case MatchExact:
			if desc == keyword {
				return r.Category, true
			}
		case MatchContains:
			if strings.Contains(desc, keyword) {
				return r.Category, true
			}
		}
	}
	return "", false
}
