// Package anomaly flags suspicious transactions: near-duplicates inside a
// short time window, and category-level statistical outliers. Both
// detectors are read-only; every pass returns fresh Anomaly records.
package anomaly

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/paisawise/transaction-intelligence/internal/models"
	"github.com/paisawise/transaction-intelligence/internal/vendor"
)

const (
	// duplicateWindow is how close two identical-looking transactions
	// must be to count as a double charge.
	duplicateWindow = 24 * time.Hour

	// DefaultMinSamples is the smallest category worth computing outlier
	// statistics for.
	DefaultMinSamples = 5

	// Deviation thresholds: an outlier must exceed both the absolute
	// sigma bound and the relative multiple, or low-variance categories
	// would flag mild deviations.
	sigmaThreshold       = 2.0
	severeSigmaThreshold = 3.0
	relativeThreshold    = 1.2
)

// Detector configures anomaly detection. The zero value uses defaults.
type Detector struct {
	// MinSamples overrides DefaultMinSamples when > 0.
	MinSamples int
}

// Run executes both detectors and returns the merged result, sorted
// descending by date.
func (d Detector) Run(txns []models.Transaction) []models.Anomaly {
	anomalies := append(d.DetectDuplicates(txns), d.DetectDeviations(txns)...)
	sort.Slice(anomalies, func(i, j int) bool {
		return anomalies[i].Date.After(anomalies[j].Date)
	})
	return anomalies
}

// Run executes a Detector with default settings.
func Run(txns []models.Transaction) []models.Anomaly {
	return Detector{}.Run(txns)
}

// DetectDuplicates finds pairs with identical amount, vendor and type
// posted within 24 hours of each other. A flagged transaction is never
// reused as an origin and an origin flags at most one duplicate, so a
// triplet of identical transactions yields exactly one anomaly.
func (d Detector) DetectDuplicates(txns []models.Transaction) []models.Anomaly {
	sorted := make([]models.Transaction, len(txns))
	copy(sorted, txns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var anomalies []models.Anomaly
	flagged := make(map[int]bool, len(sorted))

	for i := 0; i < len(sorted); i++ {
		if flagged[i] {
			continue
		}
		origin := sorted[i]
		originKey := vendor.Normalize(origin.Description)

		for j := i + 1; j < len(sorted); j++ {
			// Sorted ascending, so the first transaction past the
			// window ends the scan for this origin.
			if sorted[j].Date.Sub(origin.Date) > duplicateWindow {
				break
			}
			if flagged[j] {
				continue
			}
			dupe := sorted[j]
			if dupe.Amount != origin.Amount || dupe.Type != origin.Type ||
				vendor.Normalize(dupe.Description) != originKey {
				continue
			}

			flagged[j] = true
			anomalies = append(anomalies, models.Anomaly{
				ID:       fmt.Sprintf("dup-%s-%s", origin.ID, dupe.ID),
				Type:     models.AnomalyDuplicate,
				Severity: models.SeverityMedium,
				Title:    "Possible duplicate charge",
				Description: fmt.Sprintf("%q was charged twice within 24 hours",
					origin.Description),
				Date:   dupe.Date,
				Amount: dupe.Amount,
				Metadata: map[string]string{
					"originId":    origin.ID,
					"duplicateId": dupe.ID,
				},
			})
			break
		}
	}

	return anomalies
}

// DetectDeviations flags expense transactions whose amount statistically
// exceeds their category's spending pattern. Categories with fewer than
// MinSamples expenses are skipped; insufficient data disqualifies, it
// does not error.
func (d Detector) DetectDeviations(txns []models.Transaction) []models.Anomaly {
	minSamples := d.MinSamples
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}

	byCategory := make(map[string][]models.Transaction)
	for _, t := range txns {
		if t.Type != models.TypeExpense {
			continue
		}
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	var anomalies []models.Anomaly
	for category, group := range byCategory {
		if len(group) < minSamples {
			continue
		}

		mean, stddev := amountStats(group)
		for _, t := range group {
			amt := float64(t.Amount)
			if amt <= mean+sigmaThreshold*stddev || amt <= relativeThreshold*mean {
				continue
			}

			severity := models.SeverityMedium
			if amt > mean+severeSigmaThreshold*stddev {
				severity = models.SeverityHigh
			}
			anomalies = append(anomalies, models.Anomaly{
				ID:       fmt.Sprintf("dev-%s", t.ID),
				Type:     models.AnomalyDeviation,
				Severity: severity,
				Title:    "Unusual spend in " + category,
				Description: fmt.Sprintf("%q is well above the typical amount for %s",
					t.Description, category),
				Date:   t.Date,
				Amount: t.Amount,
				Metadata: map[string]string{
					"category": category,
				},
			})
		}
	}

	return anomalies
}

// amountStats returns the mean and population standard deviation of the
// group's amounts in paise.
func amountStats(group []models.Transaction) (mean, stddev float64) {
	var sum float64
	for _, t := range group {
		sum += float64(t.Amount)
	}
	mean = sum / float64(len(group))

	var sq float64
	for _, t := range group {
		d := float64(t.Amount) - mean
		sq += d * d
	}
	stddev = math.Sqrt(sq / float64(len(group)))
	return mean, stddev
}
