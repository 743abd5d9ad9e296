package models

import "time"

// TransactionType classifies the direction of money movement.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// TransactionStatus is the lifecycle marker for a transaction.
// Parser output is always pending; verification happens downstream.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusVerified TransactionStatus = "verified"
)

// DefaultCategory is assigned to transactions until a rule or a human
// categorizes them.
const DefaultCategory = "Uncategorized"

// Transaction is the central record of the pipeline. Amount is always a
// non-negative magnitude in integer paise; direction is carried by Type.
type Transaction struct {
	ID          string            `json:"id,omitempty"`
	Amount      int64             `json:"amount"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Type        TransactionType   `json:"type"`
	Source      string            `json:"source,omitempty"`
	Status      TransactionStatus `json:"status"`
}

// ParsedTransaction is the output unit of the statement parser: a
// Transaction without identity, owned by the caller until persisted.
type ParsedTransaction struct {
	Amount      int64             `json:"amount"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Type        TransactionType   `json:"type"`
	Source      string            `json:"source,omitempty"`
	Status      TransactionStatus `json:"status"`
}

// Transaction promotes a parsed record to a full Transaction with the
// given identity.
func (p ParsedTransaction) Transaction(id string) Transaction {
	return Transaction{
		ID:          id,
		Amount:      p.Amount,
		Date:        p.Date,
		Description: p.Description,
		Category:    p.Category,
		Type:        p.Type,
		Source:      p.Source,
		Status:      p.Status,
	}
}
