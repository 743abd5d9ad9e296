package rules

import (
	"testing"

	"github.com/paisawise/transaction-intelligence/internal/models"
)

func TestApplyFirstMatchWins(t *testing.T) {
	ruleset := []Rule{
		{Match: MatchContains, Keyword: "zomato", Category: "Food"},
		{Match: MatchContains, Keyword: "order", Category: "Shopping"},
	}
	txns := []models.Transaction{
		{ID: "1", Description: "ZOMATO ORDER 4412", Category: models.DefaultCategory},
	}

	tagged := Apply(ruleset, txns)
	if tagged[0].Category != "Food" {
		t.Errorf("Category: got %q, want %q (first matching rule wins)", tagged[0].Category, "Food")
	}
}

func TestApplyMatchTypes(t *testing.T) {
	ruleset := []Rule{
		{Match: MatchExact, Keyword: "netflix", Category: "Entertainment"},
		{Match: MatchContains, Keyword: "uber", Category: "Transport"},
	}

	tests := []struct {
		desc string
		want string
	}{
		{"Netflix", "Entertainment"},
		{"NETFLIX", "Entertainment"},
		{"Netflix Monthly", models.DefaultCategory}, // exact means exact
		{"UBER TRIP 8876", "Transport"},
		{"Grocery Mart", models.DefaultCategory},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			txns := []models.Transaction{
				{Description: tt.desc, Category: models.DefaultCategory},
			}
			got := Apply(ruleset, txns)[0].Category
			if got != tt.want {
				t.Errorf("Apply(%q): got %q, want %q", tt.desc, got, tt.want)
			}
		})
	}
}

func TestApplyKeepsExistingCategoryOnNoMatch(t *testing.T) {
	txns := []models.Transaction{
		{Description: "Chemist", Category: "Health"},
	}
	got := Apply([]Rule{{Match: MatchContains, Keyword: "zomato", Category: "Food"}}, txns)
	if got[0].Category != "Health" {
		t.Errorf("Category: got %q, want %q", got[0].Category, "Health")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	txns := []models.Transaction{
		{Description: "Zomato", Category: models.DefaultCategory},
	}
	Apply([]Rule{{Match: MatchContains, Keyword: "zomato", Category: "Food"}}, txns)
	if txns[0].Category != models.DefaultCategory {
		t.Error("input transactions were mutated")
	}
}

func TestApplyParsed(t *testing.T) {
	ruleset := []Rule{
		{Match: MatchContains, Keyword: "swiggy", Category: "Food"},
	}
	parsed := []models.ParsedTransaction{
		{Description: "SWIGGY INSTAMART", Category: models.DefaultCategory},
		{Description: "Rent Transfer", Category: models.DefaultCategory},
	}

	tagged := ApplyParsed(ruleset, parsed)
	if tagged[0].Category != "Food" {
		t.Errorf("tagged[0].Category: got %q, want %q", tagged[0].Category, "Food")
	}
	if tagged[1].Category != models.DefaultCategory {
		t.Errorf("tagged[1].Category: got %q, want %q", tagged[1].Category, models.DefaultCategory)
	}
}

func TestApplyIgnoresEmptyKeyword(t *testing.T) {
	ruleset := []Rule{
		{Match: MatchContains, Keyword: "  ", Category: "Broken"},
		{Match: MatchContains, Keyword: "rent", Category: "Housing"},
	}
	txns := []models.Transaction{{Description: "RENT NOV", Category: models.DefaultCategory}}
	if got := Apply(ruleset, txns)[0].Category; got != "Housing" {
		t.Errorf("Category: got %q, want %q", got, "Housing")
	}
}
