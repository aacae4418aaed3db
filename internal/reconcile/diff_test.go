package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/reconcile"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

var day = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func TestDiff_Participants(t *testing.T) {
	snap := &snapshot.Snapshot{
		Format: snapshot.FormatBackup,
		Participants: []snapshot.Participant{
			{ID: "p1", Name: "Alice"},
			{ID: "p3", Name: "Carol"},
		},
	}

	live := &group.Summary{
		Participants: []group.Participant{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
	}

	d := reconcile.Diff(snap, live)
	assert.Equal(t, 1, d.AddedParticipants)
	assert.Equal(t, 1, d.RemovedParticipants)
}

func TestDiff_ByID(t *testing.T) {
	snap := &snapshot.Snapshot{
		Format: snapshot.FormatBackup,
		Expenses: []snapshot.Expense{
			{ID: "e1", Title: "Hotel", ExpenseDate: day, Amount: 10000, PaidByID: "p1",
				PaidFor: []snapshot.PaidFor{{ParticipantID: "p1", Shares: 1}}},
			{ID: "e2", Title: "Dinner", ExpenseDate: day, Amount: 4200, PaidByID: "p1",
				PaidFor: []snapshot.PaidFor{{ParticipantID: "p1", Shares: 1}}},
		},
	}

	live := &group.Summary{
		Expenses: []*group.Expense{
			// Same id as e1 but a different amount: counts as modified.
			{ID: "e1", Title: "Hotel", ExpenseDate: day, Amount: 9000, PaidByID: "p1",
				PaidFor: []group.PaidFor{{ParticipantID: "p1", Shares: 1}}},
			// Absent from the snapshot: counts as removed.
			{ID: "e9", Title: "Taxi", ExpenseDate: day, Amount: 1500, PaidByID: "p1",
				PaidFor: []group.PaidFor{{ParticipantID: "p1", Shares: 1}}},
		},
	}

	d := reconcile.Diff(snap, live)
	assert.Equal(t, 1, d.AddedExpenses)
	assert.Equal(t, 1, d.RemovedExpenses)
	assert.Equal(t, 1, d.ModifiedExpenses)
}

func TestDiff_ByID_IdenticalIsNotModified(t *testing.T) {
	snap := &snapshot.Snapshot{
		Format: snapshot.FormatBackup,
		Expenses: []snapshot.Expense{
			{ID: "e1", Title: "Hotel", ExpenseDate: day, Amount: 10000, PaidByID: "p1",
				SplitMode: group.SplitEvenly, RecurrenceRule: group.RecurrenceNone,
				PaidFor: []snapshot.PaidFor{{ParticipantID: "p1", Shares: 1}, {ParticipantID: "p2", Shares: 2}}},
		},
	}

	live := &group.Summary{
		Expenses: []*group.Expense{
			{ID: "e1", Title: "Hotel", ExpenseDate: day, Amount: 10000, PaidByID: "p1",
				SplitMode: group.SplitEvenly, RecurrenceRule: group.RecurrenceNone,
				CreatedAt: day.Add(48 * time.Hour), // creation time never counts as a change
				PaidFor:   []group.PaidFor{{ParticipantID: "p2", Shares: 2}, {ParticipantID: "p1", Shares: 1}}},
		},
	}

	d := reconcile.Diff(snap, live)
	assert.Equal(t, 0, d.AddedExpenses)
	assert.Equal(t, 0, d.RemovedExpenses)
	assert.Equal(t, 0, d.ModifiedExpenses)
}

func TestDiff_ByID_RoleReversal(t *testing.T) {
	snapshotOf := func(participantIDs, expenseIDs []string) *snapshot.Snapshot {
		s := &snapshot.Snapshot{Format: snapshot.FormatBackup}
		for _, id := range participantIDs {
			s.Participants = append(s.Participants, snapshot.Participant{ID: id, Name: id})
		}
		for _, id := range expenseIDs {
			s.Expenses = append(s.Expenses, snapshot.Expense{ID: id, Title: id, ExpenseDate: day, PaidByID: "p1"})
		}
		return s
	}

	summaryOf := func(participantIDs, expenseIDs []string) *group.Summary {
		s := &group.Summary{}
		for _, id := range participantIDs {
			s.Participants = append(s.Participants, group.Participant{ID: id, Name: id})
		}
		for _, id := range expenseIDs {
			s.Expenses = append(s.Expenses, &group.Expense{ID: id, Title: id, ExpenseDate: day, PaidByID: "p1"})
		}
		return s
	}

	aParticipants := []string{"p1", "p2"}
	aExpenses := []string{"e1", "e2", "e3"}
	bParticipants := []string{"p2", "p3", "p4"}
	bExpenses := []string{"e2", "e3", "e4", "e5"}

	forward := reconcile.Diff(snapshotOf(aParticipants, aExpenses), summaryOf(bParticipants, bExpenses))
	reverse := reconcile.Diff(snapshotOf(bParticipants, bExpenses), summaryOf(aParticipants, aExpenses))

	// Swapping the two datasets swaps added and removed.
	assert.Equal(t, forward.AddedExpenses, reverse.RemovedExpenses)
	assert.Equal(t, forward.RemovedExpenses, reverse.AddedExpenses)
	assert.Equal(t, forward.AddedParticipants, reverse.RemovedParticipants)
	assert.Equal(t, forward.RemovedParticipants, reverse.AddedParticipants)

	assert.Equal(t, 1, forward.AddedExpenses)
	assert.Equal(t, 2, forward.RemovedExpenses)
	assert.Equal(t, 1, forward.AddedParticipants)
	assert.Equal(t, 2, forward.RemovedParticipants)
}

func TestDiff_Heuristic(t *testing.T) {
	snap := &snapshot.Snapshot{
		Format: snapshot.FormatLightweight,
		Expenses: []snapshot.Expense{
			{Title: "Hotel", ExpenseDate: day, Amount: 10000},
			{Title: "Dinner", ExpenseDate: day, Amount: 4200},
		},
	}

	live := &group.Summary{
		Expenses: []*group.Expense{
			// Same day and title with a different amount still matches: the
			// lightweight format cannot tell a modification apart.
			{ID: "e1", Title: "Hotel", ExpenseDate: day, Amount: 9000},
			{ID: "e2", Title: "Taxi", ExpenseDate: day, Amount: 1500},
		},
	}

	d := reconcile.Diff(snap, live)
	assert.Equal(t, 1, d.AddedExpenses)
	assert.Equal(t, 1, d.RemovedExpenses)
	assert.Equal(t, 0, d.ModifiedExpenses)
}

func TestDiff_Heuristic_SameTitleDifferentDay(t *testing.T) {
	snap := &snapshot.Snapshot{
		Format: snapshot.FormatLightweight,
		Expenses: []snapshot.Expense{
			{Title: "Groceries", ExpenseDate: day},
		},
	}

	live := &group.Summary{
		Expenses: []*group.Expense{
			{ID: "e1", Title: "Groceries", ExpenseDate: day.AddDate(0, 0, 1)},
		},
	}

	d := reconcile.Diff(snap, live)
	assert.Equal(t, 1, d.AddedExpenses)
	assert.Equal(t, 1, d.RemovedExpenses)
}
