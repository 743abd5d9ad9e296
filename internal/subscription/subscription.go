// Package subscription detects stable recurring monthly charges. The
// checks are strict and conjunctive: a subscription feeds the runway
// metric, so a false positive is worse than a miss.
package subscription

import (
	"math"
	"sort"
	"strings"

	"github.com/paisawise/transaction-intelligence/internal/models"
	"github.com/paisawise/transaction-intelligence/internal/vendor"
)

const (
	// minOccurrences is the smallest vendor group worth examining; a
	// single charge is never a subscription.
	minOccurrences = 2

	// amountTolerancePercent bounds each member's deviation from the
	// group mean.
	amountTolerancePercent = 1

	// Monthly billing interval bounds, inclusive.
	minIntervalDays = 28
	maxIntervalDays = 31
)

// Detector runs subscription detection with a configurable vendor
// grouping threshold.
type Detector struct {
	DistanceThreshold int
}

// Detect examines every vendor group and returns the ones that behave
// like stable monthly charges. Groups that fail either the amount
// stability or the periodicity check contribute nothing; that absence is
// not an error. The input is never mutated.
func (d Detector) Detect(txns []models.Transaction) []models.Subscription {
	groups := vendor.GroupWithThreshold(txns, d.DistanceThreshold)

	var subs []models.Subscription
	for name, group := range groups {
		if sub, ok := detectGroup(name, group); ok {
			subs = append(subs, sub)
		}
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].VendorName < subs[j].VendorName
	})
	return subs
}

// Detect runs a Detector with default settings.
func Detect(txns []models.Transaction) []models.Subscription {
	return Detector{}.Detect(txns)
}

func detectGroup(name string, group []models.Transaction) (models.Subscription, bool) {
	if len(group) < minOccurrences {
		return models.Subscription{}, false
	}

	sorted := make([]models.Transaction, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	mean, ok := stableMean(sorted)
	if !ok {
		return models.Subscription{}, false
	}

	avgInterval, ok := regularInterval(sorted)
	if !ok {
		return models.Subscription{}, false
	}

	last := sorted[len(sorted)-1].Date
	return models.Subscription{
		VendorName:       displayName(name),
		AverageAmount:    mean,
		Frequency:        models.FrequencyMonthly,
		NextExpectedDate: last.AddDate(0, 0, avgInterval),
		Confidence:       1.0,
	}, true
}

// stableMean computes the integer mean of the group's amounts and checks
// every member against the 1% tolerance. One member outside tolerance
// disqualifies the whole group.
func stableMean(group []models.Transaction) (int64, bool) {
	var sum int64
	for _, t := range group {
		sum += t.Amount
	}
	mean := int64(math.Round(float64(sum) / float64(len(group))))
	tolerance := int64(math.Round(float64(mean) * amountTolerancePercent / 100))

	for _, t := range group {
		dev := t.Amount - mean
		if dev < 0 {
			dev = -dev
		}
		if dev > tolerance {
			return 0, false
		}
	}
	return mean, true
}

// regularInterval checks that every consecutive gap falls inside the
// monthly window and returns the rounded average gap in days.
func regularInterval(sorted []models.Transaction) (int, bool) {
	var totalDays float64
	for i := 1; i < len(sorted); i++ {
		days := sorted[i].Date.Sub(sorted[i-1].Date).Hours() / 24
		if days < minIntervalDays || days > maxIntervalDays {
			return 0, false
		}
		totalDays += days
	}
	return int(math.Round(totalDays / float64(len(sorted)-1))), true
}

// displayName restores a presentable casing for the normalized key.
func displayName(key string) string {
	words := strings.Fields(key)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
