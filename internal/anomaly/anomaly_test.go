package anomaly

import (
	"testing"
	"time"

	"github.com/paisawise/transaction-intelligence/internal/models"
)

var base = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

func expense(id, desc string, amount int64, at time.Time) models.Transaction {
	return models.Transaction{
		ID:          id,
		Description: desc,
		Amount:      amount,
		Date:        at,
		Category:    "Food",
		Type:        models.TypeExpense,
	}
}

func TestDetectDuplicatesPair(t *testing.T) {
	txns := []models.Transaction{
		expense("a", "Zomato Order", 45000, base),
		expense("b", "Zomato Order", 45000, base.Add(30*time.Minute)),
	}

	anomalies := Detector{}.DetectDuplicates(txns)
	if len(anomalies) != 1 {
		t.Fatalf("anomalies: got %d, want 1", len(anomalies))
	}

	a := anomalies[0]
	if a.Type != models.AnomalyDuplicate {
		t.Errorf("Type: got %q, want %q", a.Type, models.AnomalyDuplicate)
	}
	if a.ID != "dup-a-b" {
		t.Errorf("ID: got %q, want %q", a.ID, "dup-a-b")
	}
	if a.Metadata["originId"] != "a" || a.Metadata["duplicateId"] != "b" {
		t.Errorf("Metadata: got %v", a.Metadata)
	}
}

func TestDetectDuplicatesTripletYieldsOne(t *testing.T) {
	txns := []models.Transaction{
		expense("a", "Zomato Order", 45000, base),
		expense("b", "Zomato Order", 45000, base.Add(1*time.Minute)),
		expense("c", "Zomato Order", 45000, base.Add(2*time.Minute)),
	}

	anomalies := Detector{}.DetectDuplicates(txns)
	if len(anomalies) != 1 {
		t.Fatalf("triplet: got %d anomalies, want exactly 1", len(anomalies))
	}
}

func TestDetectDuplicatesOutsideWindow(t *testing.T) {
	txns := []models.Transaction{
		expense("a", "Zomato Order", 45000, base),
		expense("b", "Zomato Order", 45000, base.Add(25*time.Hour)),
	}

	if anomalies := (Detector{}).DetectDuplicates(txns); len(anomalies) != 0 {
		t.Errorf("got %d anomalies across a >24h gap, want 0", len(anomalies))
	}
}

func TestDetectDuplicatesRequiresFullMatch(t *testing.T) {
	tests := []struct {
		name  string
		other models.Transaction
	}{
		{"different amount", expense("b", "Zomato Order", 45100, base.Add(time.Minute))},
		{"different vendor", expense("b", "Swiggy Order", 45000, base.Add(time.Minute))},
		{"different type", func() models.Transaction {
			t := expense("b", "Zomato Order", 45000, base.Add(time.Minute))
			t.Type = models.TypeIncome
			return t
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := []models.Transaction{
				expense("a", "Zomato Order", 45000, base),
				tt.other,
			}
			if anomalies := (Detector{}).DetectDuplicates(txns); len(anomalies) != 0 {
				t.Errorf("got %d anomalies, want 0", len(anomalies))
			}
		})
	}
}

func TestDetectDuplicatesNormalizedDescriptions(t *testing.T) {
	txns := []models.Transaction{
		expense("a", "ZOMATO ORDER", 45000, base),
		expense("b", "Zomato Order.", 45000, base.Add(time.Hour)),
	}

	if anomalies := (Detector{}).DetectDuplicates(txns); len(anomalies) != 1 {
		t.Errorf("got %d anomalies, want 1 (descriptions normalize equal)", len(anomalies))
	}
}

func TestDetectDeviationsOutlier(t *testing.T) {
	var txns []models.Transaction
	for i := 0; i < 10; i++ {
		txns = append(txns, expense(
			"base-"+string(rune('a'+i)), "Zomato", 10000, base.AddDate(0, 0, i)))
	}
	txns = append(txns, expense("big", "Zomato Feast", 50000, base.AddDate(0, 0, 11)))

	anomalies := Detector{}.DetectDeviations(txns)
	if len(anomalies) != 1 {
		t.Fatalf("anomalies: got %d, want exactly the outlier", len(anomalies))
	}

	a := anomalies[0]
	if a.ID != "dev-big" {
		t.Errorf("ID: got %q, want %q", a.ID, "dev-big")
	}
	if a.Type != models.AnomalyDeviation {
		t.Errorf("Type: got %q, want %q", a.Type, models.AnomalyDeviation)
	}
	if a.Severity != models.SeverityHigh {
		t.Errorf("Severity: got %q, want %q (far beyond 3 sigma)", a.Severity, models.SeverityHigh)
	}
	if a.Amount != 50000 {
		t.Errorf("Amount: got %d, want 50000", a.Amount)
	}
}

func TestDetectDeviationsInsufficientSamples(t *testing.T) {
	txns := []models.Transaction{
		expense("a", "Zomato", 10000, base),
		expense("b", "Zomato", 10000, base.AddDate(0, 0, 1)),
		expense("c", "Zomato", 90000, base.AddDate(0, 0, 2)),
	}

	if anomalies := (Detector{}).DetectDeviations(txns); len(anomalies) != 0 {
		t.Errorf("got %d anomalies from an undersized category, want 0", len(anomalies))
	}
}

func TestDetectDeviationsConfigurableMinSamples(t *testing.T) {
	var txns []models.Transaction
	for i := 0; i < 8; i++ {
		txns = append(txns, expense(
			"base-"+string(rune('a'+i)), "Zomato", 10000, base.AddDate(0, 0, i)))
	}
	txns = append(txns, expense("big", "Zomato Feast", 50000, base.AddDate(0, 0, 9)))

	// Nine samples clear the default floor of 5 but not a raised one.
	if anomalies := (Detector{}).DetectDeviations(txns); len(anomalies) != 1 {
		t.Errorf("default floor: got %d anomalies, want 1", len(anomalies))
	}
	if anomalies := (Detector{MinSamples: 10}).DetectDeviations(txns); len(anomalies) != 0 {
		t.Errorf("with MinSamples=10: got %d anomalies, want 0", len(anomalies))
	}
}

func TestDetectDeviationsLowVarianceGuard(t *testing.T) {
	// Tight cluster: sigma is tiny, so mean+2*sigma alone would flag the
	// 10.5% member. The 1.2x relative guard must keep it quiet.
	var txns []models.Transaction
	for i := 0; i < 6; i++ {
		txns = append(txns, expense(
			"t-"+string(rune('a'+i)), "Metro Card", 10000, base.AddDate(0, 0, i)))
	}
	txns = append(txns, expense("mild", "Metro Card", 11050, base.AddDate(0, 0, 7)))

	if anomalies := (Detector{}).DetectDeviations(txns); len(anomalies) != 0 {
		t.Errorf("mild relative deviation flagged: got %d anomalies, want 0", len(anomalies))
	}
}

func TestDetectDeviationsIgnoresIncome(t *testing.T) {
	var txns []models.Transaction
	for i := 0; i < 6; i++ {
		tx := expense("i-"+string(rune('a'+i)), "Salary", 100000, base.AddDate(0, 0, i))
		tx.Type = models.TypeIncome
		tx.Category = "Salary"
		txns = append(txns, tx)
	}
	bonus := txns[0]
	bonus.ID = "bonus"
	bonus.Amount = 900000
	txns = append(txns, bonus)

	if anomalies := (Detector{}).DetectDeviations(txns); len(anomalies) != 0 {
		t.Errorf("income flagged as spending deviation: got %d anomalies", len(anomalies))
	}
}

func TestRunMergesAndSortsDescending(t *testing.T) {
	var txns []models.Transaction
	for i := 0; i < 10; i++ {
		txns = append(txns, expense(
			"base-"+string(rune('a'+i)), "Zomato", 10000, base.AddDate(0, 0, i)))
	}
	txns = append(txns, expense("big", "Zomato Feast", 50000, base.AddDate(0, 0, 11)))
	txns = append(txns,
		expense("d1", "Swiggy Order", 30000, base),
		expense("d2", "Swiggy Order", 30000, base.Add(10*time.Minute)),
	)

	anomalies := Run(txns)
	if len(anomalies) != 2 {
		t.Fatalf("anomalies: got %d, want 2", len(anomalies))
	}
	for i := 1; i < len(anomalies); i++ {
		if anomalies[i].Date.After(anomalies[i-1].Date) {
			t.Errorf("anomalies not sorted descending by date")
		}
	}
	if anomalies[0].Type != models.AnomalyDeviation {
		t.Errorf("newest anomaly should be the deviation, got %q", anomalies[0].Type)
	}
}

func TestDetectorsDoNotMutateInput(t *testing.T) {
	txns := []models.Transaction{
		expense("a", "Zomato Order", 45000, base),
		expense("b", "Zomato Order", 45000, base.Add(time.Minute)),
	}
	before := make([]models.Transaction, len(txns))
	copy(before, txns)

	Run(txns)

	for i := range txns {
		if txns[i] != before[i] {
			t.Fatalf("input transaction %d mutated", i)
		}
	}
}
