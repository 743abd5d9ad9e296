// Package parser extracts transactions from raw bank statement text.
//
// Statements interleave transaction lines with headers, footers and other
// noise, so the parser works line by line and silently skips anything it
// cannot extract. A skipped line is expected, not an error.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/paisawise/transaction-intelligence/internal/models"
	"github.com/paisawise/transaction-intelligence/internal/money"
)

// Flexible D-M-Y date token: 16-12-25, 1/2/2024, 09/07/25.
var datePattern = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})\b`)

// Monetary token: digits with optional thousands separators and exactly
// two decimals. Anything else on the line is not money.
var amountPattern = regexp.MustCompile(`\b\d+(?:,\d+)*\.\d{2}\b`)

// Credit markers checked case-insensitively against the description.
// Debit markers (/DR/, "debit", "atm cash") are confirmatory only; expense
// is the default direction.
var creditMarkers = []string{"/cr/", "credit", "interest credit"}

// Options configures a Parser.
type Options struct {
	// Source is the provenance tag stamped on every parsed transaction.
	Source string
	// SingleAmountFallback controls lines carrying exactly one monetary
	// token. The second-to-last-token rule needs at least two (amount +
	// running balance); when only one is present the line is either
	// skipped (default) or the lone token is taken as the amount.
	SingleAmountFallback bool
}

// Parser turns statement text into parsed transactions.
type Parser struct {
	opts Options
}

// New returns a Parser with the given options.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse extracts transactions from multi-line statement text. Lines that
// fail any extraction step contribute nothing. The input is never
// modified; the result is a fresh slice.
func (p *Parser) Parse(text string) []models.ParsedTransaction {
	var out []models.ParsedTransaction
	for _, line := range strings.Split(text, "\n") {
		if txn, ok := p.parseLine(line); ok {
			out = append(out, txn)
		}
	}
	return out
}

// parseLine applies the per-line algorithm: locate a date, collect
// monetary tokens, take the second-to-last as the amount (the last is the
// running balance), slice the description out from between them.
func (p *Parser) parseLine(line string) (models.ParsedTransaction, bool) {
	dateLoc := datePattern.FindStringSubmatchIndex(line)
	if dateLoc == nil {
		return models.ParsedTransaction{}, false
	}

	date, ok := parseDate(
		line[dateLoc[2]:dateLoc[3]],
		line[dateLoc[4]:dateLoc[5]],
		line[dateLoc[6]:dateLoc[7]],
	)
	if !ok {
		return models.ParsedTransaction{}, false
	}

	// Only tokens after the date count as money; a date fragment must
	// never be mistaken for an amount.
	rest := line[dateLoc[1]:]
	amountLocs := amountPattern.FindAllStringIndex(rest, -1)

	var amountLoc []int
	switch {
	case len(amountLocs) >= 2:
		amountLoc = amountLocs[len(amountLocs)-2]
	case len(amountLocs) == 1 && p.opts.SingleAmountFallback:
		amountLoc = amountLocs[0]
	default:
		return models.ParsedTransaction{}, false
	}

	paise, err := money.ParsePaise(rest[amountLoc[0]:amountLoc[1]])
	if err != nil {
		return models.ParsedTransaction{}, false
	}

	description := strings.Trim(rest[:amountLoc[0]], " \t-")

	return models.ParsedTransaction{
		Amount:      paise,
		Date:        date,
		Description: description,
		Category:    models.DefaultCategory,
		Type:        inferType(description),
		Source:      p.opts.Source,
		Status:      models.StatusPending,
	}, true
}

// parseDate normalizes a D-M-Y token into a timestamp. 2-digit years
// expand into the current century. Impossible dates reject the line.
func parseDate(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day := atoi(dayStr)
	month := atoi(monthStr)
	year := atoi(yearStr)

	if len(yearStr) <= 2 {
		year += (time.Now().Year() / 100) * 100
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31-02 rolls into March); a shifted
	// day or month means the original was invalid.
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

func inferType(description string) models.TransactionType {
	lower := strings.ToLower(description)
	for _, marker := range creditMarkers {
		if strings.Contains(lower, marker) {
			return models.TypeIncome
		}
	}
	return models.TypeExpense
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
