package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/paisawise/transaction-intelligence/internal/anomaly"
	"github.com/paisawise/transaction-intelligence/internal/config"
	"github.com/paisawise/transaction-intelligence/internal/models"
	"github.com/paisawise/transaction-intelligence/internal/money"
	"github.com/paisawise/transaction-intelligence/internal/parser"
	"github.com/paisawise/transaction-intelligence/internal/redact"
	"github.com/paisawise/transaction-intelligence/internal/rules"
	"github.com/paisawise/transaction-intelligence/internal/subscription"
	"github.com/paisawise/transaction-intelligence/internal/writer"
)

// AnalyzeResult is the full output of one pipeline run over a statement.
type AnalyzeResult struct {
	RunID            string                `json:"runId"`
	Transactions     []models.Transaction  `json:"transactions"`
	Subscriptions    []models.Subscription `json:"subscriptions"`
	Anomalies        []models.Anomaly      `json:"anomalies"`
	Count            int                   `json:"count"`
	TotalDebitPaise  int64                 `json:"totalDebitPaise"`
	TotalCreditPaise int64                 `json:"totalCreditPaise"`
	CSV              string                `json:"csv,omitempty"`
}

// Analyze runs the statement text through the full pipeline: PII
// redaction, line parsing, rule tagging, subscription detection and
// anomaly detection.
func Analyze(cfg *config.AppConfig, text, source string, ruleset []rules.Rule, includeCSV bool) (*AnalyzeResult, error) {
	if source == "" {
		source = cfg.StatementSource
	}

	cleaned := redact.Redact(text)

	p := parser.New(parser.Options{
		Source:               source,
		SingleAmountFallback: cfg.SingleAmountFallback,
	})
	parsed := p.Parse(cleaned)
	parsed = rules.ApplyParsed(ruleset, parsed)

	txns := make([]models.Transaction, 0, len(parsed))
	for _, pt := range parsed {
		txn := pt.Transaction(uuid.NewString())
		if err := money.ValidateTransaction(txn); err != nil {
			return nil, fmt.Errorf("Analyze: %w", err)
		}
		txns = append(txns, txn)
	}

	subs := subscription.Detector{DistanceThreshold: cfg.VendorDistanceThreshold}.Detect(txns)
	anomalies := anomaly.Detector{MinSamples: cfg.DeviationMinSamples}.Run(txns)

	// nil slices marshal to JSON null, not []
	if subs == nil {
		subs = []models.Subscription{}
	}
	if anomalies == nil {
		anomalies = []models.Anomaly{}
	}

	var totalDebit, totalCredit int64
	for _, txn := range txns {
		if txn.Type == models.TypeIncome {
			totalCredit += txn.Amount
		} else {
			totalDebit += txn.Amount
		}
	}

	result := &AnalyzeResult{
		RunID:            uuid.NewString(),
		Transactions:     txns,
		Subscriptions:    subs,
		Anomalies:        anomalies,
		Count:            len(txns),
		TotalDebitPaise:  totalDebit,
		TotalCreditPaise: totalCredit,
	}

	if includeCSV {
		var buf bytes.Buffer
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.Write(&buf, txns); err != nil {
			return nil, fmt.Errorf("Analyze: %w", err)
		}
		result.CSV = buf.String()
	}

	return result, nil
}

// cacheKey derives a stable key for one analysis request so repeated
// uploads of the same statement reuse the earlier result.
func cacheKey(content []byte, source string, rulesRaw string, includeCSV bool) string {
	h := sha256.New()
	h.Write(content)
	fmt.Fprintf(h, "|%s|%s|%t", source, rulesRaw, includeCSV)
	return hex.EncodeToString(h.Sum(nil))
}
