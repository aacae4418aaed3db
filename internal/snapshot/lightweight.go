package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/jpcarvalho/divvy/internal/encoding"
)

// lightweightDocument is the JSON-only export produced by the web client.
// It carries no export timestamp and no stable expense identifiers.
type lightweightDocument struct {
	ID           string                   `json:"id" validate:"required"`
	Name         string                   `json:"name" validate:"required"`
	Currency     string                   `json:"currency"`
	CurrencyCode string                   `json:"currencyCode"`
	Expenses     []lightweightExpense     `json:"expenses" validate:"dive"`
	Participants []lightweightParticipant `json:"participants" validate:"required,min=1,dive"`
}

type lightweightParticipant struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type lightweightExpense struct {
	CreatedAt        *jsonTime            `json:"createdAt"`
	ExpenseDate      jsonTime             `json:"expenseDate"`
	Title            string               `json:"title" validate:"required"`
	Category         string               `json:"category"`
	Amount           int64                `json:"amount"`
	OriginalAmount   *int64               `json:"originalAmount"`
	OriginalCurrency string               `json:"originalCurrency"`
	ConversionRate   *decimal.Decimal     `json:"conversionRate"`
	PaidByID         string               `json:"paidById" validate:"required"`
	PaidFor          []lightweightPaidFor `json:"paidFor" validate:"required,min=1,dive"`
	IsReimbursement  bool                 `json:"isReimbursement"`
	SplitMode        string               `json:"splitMode" validate:"omitempty,oneof=EVENLY BY_SHARES BY_PERCENTAGE BY_AMOUNT"`
	RecurrenceRule   string               `json:"recurrenceRule" validate:"omitempty,oneof=NONE DAILY WEEKLY MONTHLY"`
}

type lightweightPaidFor struct {
	ParticipantID string `json:"participantId" validate:"required"`
	Shares        int64  `json:"shares"`
}

// ParseLightweight decodes and validates a lightweight JSON export. The
// input passes through charset detection first; nothing is written anywhere.
func ParseLightweight(r io.Reader) (*Snapshot, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding upload: %w", err)
	}

	var doc lightweightDocument
	if err := json.NewDecoder(utf8r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing snapshot JSON: %w", err)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	snap := &Snapshot{
		Format: FormatLightweight,
		Group: Group{
			ID:           doc.ID,
			Name:         doc.Name,
			Currency:     doc.Currency,
			CurrencyCode: doc.CurrencyCode,
		},
	}

	for _, p := range doc.Participants {
		snap.Participants = append(snap.Participants, Participant{ID: p.ID, Name: p.Name})
	}

	for _, e := range doc.Expenses {
		expense := Expense{
			ExpenseDate:      e.ExpenseDate.Time,
			Title:            e.Title,
			Amount:           e.Amount,
			OriginalAmount:   e.OriginalAmount,
			OriginalCurrency: e.OriginalCurrency,
			ConversionRate:   e.ConversionRate,
			PaidByID:         e.PaidByID,
			IsReimbursement:  e.IsReimbursement,
			SplitMode:        splitModeOrDefault(e.SplitMode),
			RecurrenceRule:   recurrenceOrDefault(e.RecurrenceRule),
		}

		if e.CreatedAt != nil {
			expense.CreatedAt = e.CreatedAt.Time
		}

		if e.Category != "" {
			expense.CategoryGrouping = defaultGrouping
			expense.CategoryName = e.Category
		}

		for _, pf := range e.PaidFor {
			shares := pf.Shares
			if shares == 0 {
				shares = 1
			}

			expense.PaidFor = append(expense.PaidFor, PaidFor{ParticipantID: pf.ParticipantID, Shares: shares})
		}

		snap.Expenses = append(snap.Expenses, expense)
	}

	return snap, nil
}
