package models

import "time"

// SubscriptionFrequency is the cadence of a recurring charge. Monthly is
// the only cadence the detector currently recognizes.
type SubscriptionFrequency string

const FrequencyMonthly SubscriptionFrequency = "monthly"

// Subscription is a detected recurring charge. It is derived on each
// analysis call and never persisted by the core.
type Subscription struct {
	VendorName       string                `json:"vendorName"`
	AverageAmount    int64                 `json:"averageAmount"`
	Frequency        SubscriptionFrequency `json:"frequency"`
	NextExpectedDate time.Time             `json:"nextExpectedDate"`
	Confidence       float64               `json:"confidence"`
}

// AnomalyType distinguishes the two detectors.
type AnomalyType string

const (
	AnomalyDuplicate AnomalyType = "duplicate"
	AnomalyDeviation AnomalyType = "deviation"
)

// AnomalySeverity escalates for extreme outliers.
type AnomalySeverity string

const (
	SeverityMedium AnomalySeverity = "medium"
	SeverityHigh   AnomalySeverity = "high"
)

// Anomaly is a derived, ephemeral view over the transaction set. It is
// recomputed on every analysis pass and carries no lifecycle of its own.
type Anomaly struct {
	ID          string            `json:"id"`
	Type        AnomalyType       `json:"type"`
	Severity    AnomalySeverity   `json:"severity,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	Amount      int64             `json:"amount"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
