package snapshot_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

const lightweightSample = `{
	"id": "abc123",
	"name": "Ski Trip",
	"currency": "€",
	"currencyCode": "EUR",
	"participants": [
		{"id": "p1", "name": "Alice"},
		{"id": "p2", "name": "Bob"}
	],
	"expenses": [
		{
			"expenseDate": "2024-02-10",
			"createdAt": "2024-02-10T18:30:00Z",
			"title": "Lift tickets",
			"category": "Activities",
			"amount": 12000,
			"paidById": "p1",
			"paidFor": [
				{"participantId": "p1", "shares": 1},
				{"participantId": "p2"}
			]
		},
		{
			"expenseDate": "2024-02-11T09:00:00Z",
			"title": "Breakfast",
			"amount": 2400,
			"paidById": "p2",
			"paidFor": [{"participantId": "p1", "shares": 3}],
			"splitMode": "BY_SHARES"
		}
	]
}`

func TestParseLightweight(t *testing.T) {
	snap, err := snapshot.ParseLightweight(strings.NewReader(lightweightSample))
	require.NoError(t, err)

	assert.Equal(t, snapshot.FormatLightweight, snap.Format)
	assert.False(t, snap.HasStableExpenseIDs())
	assert.Equal(t, "abc123", snap.Group.ID)
	assert.Equal(t, "Ski Trip", snap.Group.Name)
	assert.Equal(t, "EUR", snap.Group.CurrencyCode)
	assert.Len(t, snap.Participants, 2)

	require.Len(t, snap.Expenses, 2)

	lift := snap.Expenses[0]
	assert.Empty(t, lift.ID)
	assert.Equal(t, "Lift tickets", lift.Title)
	assert.Equal(t, int64(12000), lift.Amount)
	assert.Equal(t, "General", lift.CategoryGrouping)
	assert.Equal(t, "Activities", lift.CategoryName)
	assert.Equal(t, group.SplitEvenly, lift.SplitMode)
	assert.Equal(t, group.RecurrenceNone, lift.RecurrenceRule)
	require.Len(t, lift.PaidFor, 2)
	assert.Equal(t, int64(1), lift.PaidFor[0].Shares)
	assert.Equal(t, int64(1), lift.PaidFor[1].Shares, "zero shares default to 1")

	breakfast := snap.Expenses[1]
	assert.Equal(t, group.SplitByShares, breakfast.SplitMode)
	assert.Empty(t, breakfast.CategoryName)
	assert.True(t, breakfast.CreatedAt.IsZero())
}

func TestParseLightweight_EffectiveTimestamp(t *testing.T) {
	snap, err := snapshot.ParseLightweight(strings.NewReader(lightweightSample))
	require.NoError(t, err)

	// Breakfast has no createdAt; its expense date (Feb 11) beats the lift
	// tickets' creation time (Feb 10).
	want := time.Date(2024, 2, 11, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, want, snap.EffectiveTimestamp())
}

func TestParseLightweight_Invalid(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{
			name: "NotJSON",
			body: `title,amount
lunch,100`,
		},
		{
			name: "MissingGroupID",
			body: `{"name": "Trip", "participants": [{"id": "p1", "name": "A"}]}`,
		},
		{
			name: "NoParticipants",
			body: `{"id": "g1", "name": "Trip", "participants": []}`,
		},
		{
			name: "ExpenseWithoutPaidFor",
			body: `{"id": "g1", "name": "Trip",
				"participants": [{"id": "p1", "name": "A"}],
				"expenses": [{"expenseDate": "2024-01-01", "title": "x", "amount": 1, "paidById": "p1", "paidFor": []}]}`,
		},
		{
			name: "BadSplitMode",
			body: `{"id": "g1", "name": "Trip",
				"participants": [{"id": "p1", "name": "A"}],
				"expenses": [{"expenseDate": "2024-01-01", "title": "x", "amount": 1, "paidById": "p1",
					"paidFor": [{"participantId": "p1"}], "splitMode": "RANDOMLY"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := snapshot.ParseLightweight(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDayTitleKey(t *testing.T) {
	morning := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 2, 10, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, snapshot.DayTitleKey(morning, "Lunch"), snapshot.DayTitleKey(evening, "Lunch"))
	assert.NotEqual(t, snapshot.DayTitleKey(morning, "Lunch"), snapshot.DayTitleKey(morning, "Dinner"))
	assert.NotEqual(t, snapshot.DayTitleKey(morning, "Lunch"), snapshot.DayTitleKey(morning.AddDate(0, 0, 1), "Lunch"))
}
