package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jpcarvalho/divvy/internal/export"
	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

func sampleSummary() *group.Summary {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	return &group.Summary{
		Group: group.Group{
			ID:           "g1",
			Name:         "Road Trip",
			Currency:     "$",
			CurrencyCode: "USD",
			CreatedAt:    created,
		},
		Participants: []group.Participant{
			{ID: "p1", GroupID: "g1", Name: "Alice"},
			{ID: "p2", GroupID: "g1", Name: "Bob"},
		},
		Expenses: []*group.Expense{
			{
				ID:          "e1",
				GroupID:     "g1",
				ExpenseDate: created.AddDate(0, 0, 2),
				CreatedAt:   created.AddDate(0, 0, 2),
				Title:       "Gas",
				Category:    &group.Category{ID: "c1", Grouping: "Transport", Name: "Fuel"},
				Amount:      8500,
				PaidByID:    "p1",
				PaidFor: []group.PaidFor{
					{ParticipantID: "p1", Shares: 1},
					{ParticipantID: "p2", Shares: 1},
				},
				SplitMode:      group.SplitEvenly,
				RecurrenceRule: group.RecurrenceNone,
				Documents: []group.Document{
					{ID: "d1", URL: "https://files.example.com/receipt.jpg", Width: 800, Height: 600},
				},
			},
		},
		Activities: []group.Activity{
			{ID: "a1", GroupID: "g1", Time: created, Type: group.ActivityCreateGroup, Data: "Road Trip"},
		},
	}
}

func TestBuildSnapshot(t *testing.T) {
	exportedAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	snap := export.BuildSnapshot(sampleSummary(), exportedAt)

	assert.Equal(t, snapshot.FormatBackup, snap.Format)
	assert.Equal(t, snapshot.BackupVersion, snap.Version)
	assert.Equal(t, exportedAt, snap.ExportedAt)
	assert.Equal(t, "g1", snap.Group.ID)
	assert.Len(t, snap.Participants, 2)

	require.Len(t, snap.Expenses, 1)
	e := snap.Expenses[0]
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, "Transport", e.CategoryGrouping)
	assert.Equal(t, "Fuel", e.CategoryName)
	assert.Len(t, e.PaidFor, 2)
	assert.Len(t, e.Documents, 1)

	require.Len(t, snap.Activities, 1)
	assert.Equal(t, group.ActivityCreateGroup, snap.Activities[0].Type)
}

func TestService_Export_RoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := group.NewMockRepository(ctrl)
	repo.EXPECT().GetSummary(gomock.Any(), "g1").Return(sampleSummary(), nil)

	svc := export.NewService(group.NewService(repo))

	var buf bytes.Buffer
	snap, err := svc.Export(context.Background(), "g1", &buf)
	require.NoError(t, err)
	require.NotNil(t, snap)

	parsed, warnings, err := snapshot.ParseBackup(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Empty(t, warnings, "exports always carry consistent metadata")

	assert.Equal(t, snap.Group, parsed.Group)
	assert.Len(t, parsed.Participants, 2)
	assert.Len(t, parsed.Expenses, 1)
	assert.Len(t, parsed.Activities, 1)
}

func TestService_Export_UnknownGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := group.NewMockRepository(ctrl)
	repo.EXPECT().GetSummary(gomock.Any(), "nope").Return(nil, group.ErrNotFound)

	svc := export.NewService(group.NewService(repo))

	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), "nope", &buf)
	assert.ErrorIs(t, err, group.ErrNotFound)
	assert.Zero(t, buf.Len())
}

func TestFilename(t *testing.T) {
	exportedAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "divvy_Road_Trip_20240601.zip", export.Filename("Road Trip", exportedAt))
	assert.Equal(t, "divvy_caf____2024_20240601.zip", export.Filename("café & 2024", exportedAt))
}
