package reconcile

import (
	"time"

	"github.com/r3labs/diff/v3"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

// Difference summarizes what a restore would add or remove. It is purely
// informational and never blocks a restore; the boundary handlers render it
// as a preview before the caller confirms.
type Difference struct {
	AddedExpenses   int
	RemovedExpenses int
	// ModifiedExpenses is only populated for the id-bearing backup format.
	// The lightweight format's (day, title) pseudo-key cannot distinguish a
	// modified expense from an added+removed pair, so it reports 0 there.
	ModifiedExpenses    int
	AddedParticipants   int
	RemovedParticipants int
}

// Diff counts added and removed participants and expenses between the
// snapshot and the live group.
func Diff(snap *snapshot.Snapshot, live *group.Summary) Difference {
	var d Difference

	snapParticipants := make(map[string]struct{}, len(snap.Participants))
	for _, p := range snap.Participants {
		snapParticipants[p.ID] = struct{}{}
	}

	liveParticipants := make(map[string]struct{}, len(live.Participants))
	for _, p := range live.Participants {
		liveParticipants[p.ID] = struct{}{}

		if _, ok := snapParticipants[p.ID]; !ok {
			d.RemovedParticipants++
		}
	}

	for id := range snapParticipants {
		if _, ok := liveParticipants[id]; !ok {
			d.AddedParticipants++
		}
	}

	if snap.HasStableExpenseIDs() {
		diffExpensesByID(snap, live, &d)
	} else {
		diffExpensesByHeuristic(snap, live, &d)
	}

	return d
}

func diffExpensesByID(snap *snapshot.Snapshot, live *group.Summary, d *Difference) {
	snapByID := make(map[string]snapshot.Expense, len(snap.Expenses))
	for _, e := range snap.Expenses {
		snapByID[e.ID] = e
	}

	liveByID := make(map[string]*group.Expense, len(live.Expenses))
	for _, e := range live.Expenses {
		liveByID[e.ID] = e

		if _, ok := snapByID[e.ID]; !ok {
			d.RemovedExpenses++
		}
	}

	for id, se := range snapByID {
		le, ok := liveByID[id]
		if !ok {
			d.AddedExpenses++
			continue
		}

		changes, err := diff.Diff(contentOfLive(le), contentOfSnapshot(se))
		if err == nil && len(changes) > 0 {
			d.ModifiedExpenses++
		}
	}
}

func diffExpensesByHeuristic(snap *snapshot.Snapshot, live *group.Summary, d *Difference) {
	snapKeys := make(map[string]struct{}, len(snap.Expenses))
	for _, e := range snap.Expenses {
		snapKeys[snapshot.DayTitleKey(e.ExpenseDate, e.Title)] = struct{}{}
	}

	liveKeys := make(map[string]struct{}, len(live.Expenses))
	for _, e := range live.Expenses {
		k := snapshot.DayTitleKey(e.ExpenseDate, e.Title)
		liveKeys[k] = struct{}{}

		if _, ok := snapKeys[k]; !ok {
			d.RemovedExpenses++
		}
	}

	for k := range snapKeys {
		if _, ok := liveKeys[k]; !ok {
			d.AddedExpenses++
		}
	}
}

// expenseContent is the field set compared to decide whether a matched
// expense pair was modified. Creation timestamps are excluded; they change
// on every restore.
type expenseContent struct {
	Title            string
	Day              string
	Amount           int64
	OriginalAmount   int64
	OriginalCurrency string
	ConversionRate   string
	PaidByID         string
	SplitMode        string
	IsReimbursement  bool
	Notes            string
	RecurrenceRule   string
	Category         string
	Shares           map[string]int64
}

func contentOfSnapshot(e snapshot.Expense) expenseContent {
	c := expenseContent{
		Title:            e.Title,
		Day:              e.ExpenseDate.Format(time.DateOnly),
		Amount:           e.Amount,
		OriginalCurrency: e.OriginalCurrency,
		PaidByID:         e.PaidByID,
		SplitMode:        string(e.SplitMode),
		IsReimbursement:  e.IsReimbursement,
		Notes:            e.Notes,
		RecurrenceRule:   string(e.RecurrenceRule),
		Category:         e.CategoryName,
		Shares:           make(map[string]int64, len(e.PaidFor)),
	}

	if e.OriginalAmount != nil {
		c.OriginalAmount = *e.OriginalAmount
	}

	if e.ConversionRate != nil {
		c.ConversionRate = e.ConversionRate.String()
	}

	for _, pf := range e.PaidFor {
		c.Shares[pf.ParticipantID] = pf.Shares
	}

	return c
}

func contentOfLive(e *group.Expense) expenseContent {
	c := expenseContent{
		Title:            e.Title,
		Day:              e.ExpenseDate.Format(time.DateOnly),
		Amount:           e.Amount,
		OriginalCurrency: e.OriginalCurrency,
		PaidByID:         e.PaidByID,
		SplitMode:        string(e.SplitMode),
		IsReimbursement:  e.IsReimbursement,
		Notes:            e.Notes,
		RecurrenceRule:   string(e.RecurrenceRule),
		Shares:           make(map[string]int64, len(e.PaidFor)),
	}

	if e.Category != nil {
		c.Category = e.Category.Name
	}

	if e.OriginalAmount != nil {
		c.OriginalAmount = *e.OriginalAmount
	}

	if e.ConversionRate != nil {
		c.ConversionRate = e.ConversionRate.String()
	}

	for _, pf := range e.PaidFor {
		c.Shares[pf.ParticipantID] = pf.Shares
	}

	return c
}
