package snapshot_test

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

func sampleBackup() *snapshot.Snapshot {
	exportedAt := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)
	original := int64(9900)
	rate := decimal.RequireFromString("1.0825")

	return &snapshot.Snapshot{
		Format:     snapshot.FormatBackup,
		Version:    snapshot.BackupVersion,
		ExportedAt: exportedAt,
		Group: snapshot.Group{
			ID:           "g1",
			Name:         "Road Trip",
			Information:  "Summer 2024",
			Currency:     "$",
			CurrencyCode: "USD",
			CreatedAt:    exportedAt.AddDate(0, -1, 0),
		},
		Participants: []snapshot.Participant{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
		Expenses: []snapshot.Expense{
			{
				ID:               "e1",
				ExpenseDate:      exportedAt.AddDate(0, 0, -3),
				CreatedAt:        exportedAt.AddDate(0, 0, -3),
				Title:            "Gas",
				CategoryGrouping: "Transport",
				CategoryName:     "Fuel",
				Amount:           8500,
				OriginalAmount:   &original,
				OriginalCurrency: "EUR",
				ConversionRate:   &rate,
				PaidByID:         "p1",
				PaidFor: []snapshot.PaidFor{
					{ParticipantID: "p1", Shares: 1},
					{ParticipantID: "p2", Shares: 1},
				},
				SplitMode:      group.SplitEvenly,
				RecurrenceRule: group.RecurrenceNone,
				Documents: []snapshot.Document{
					{ID: "d1", URL: "https://files.example.com/receipt.jpg", Width: 800, Height: 600},
				},
			},
		},
		Activities: []snapshot.Activity{
			{ID: "a1", Time: exportedAt.AddDate(0, 0, -3), Type: group.ActivityCreateExpense, ExpenseID: "e1", Data: "Gas"},
		},
	}
}

func TestBackupRoundTrip(t *testing.T) {
	want := sampleBackup()

	var buf bytes.Buffer
	require.NoError(t, snapshot.WriteBackup(&buf, want))

	got, warnings, err := snapshot.ParseBackup(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.True(t, got.HasStableExpenseIDs())
	assert.Equal(t, want.ExportedAt, got.EffectiveTimestamp())
	assert.Equal(t, want.Group, got.Group)
	assert.Equal(t, want.Participants, got.Participants)
	require.Len(t, got.Expenses, 1)
	assert.Equal(t, want.Expenses[0].ID, got.Expenses[0].ID)
	assert.Equal(t, want.Expenses[0].CategoryGrouping, got.Expenses[0].CategoryGrouping)
	assert.Equal(t, want.Expenses[0].PaidFor, got.Expenses[0].PaidFor)
	assert.Equal(t, want.Expenses[0].Documents, got.Expenses[0].Documents)
	require.NotNil(t, got.Expenses[0].ConversionRate)
	assert.True(t, want.Expenses[0].ConversionRate.Equal(*got.Expenses[0].ConversionRate))
	assert.Equal(t, want.Activities, got.Activities)
}

func TestParseBackup_MissingBackupJSON(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("nothing here"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, _, err = snapshot.ParseBackup(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorContains(t, err, "backup.json")
}

func TestParseBackup_NotAZip(t *testing.T) {
	body := []byte(`{"id": "g1"}`)

	_, _, err := snapshot.ParseBackup(bytes.NewReader(body), int64(len(body)))
	assert.Error(t, err)
}

func TestParseBackup_MetadataWarnings(t *testing.T) {
	backupJSON := `{
		"version": 1,
		"exportedAt": "2024-06-01T15:04:05Z",
		"group": {"id": "g1", "name": "Road Trip"},
		"participants": [{"id": "p1", "name": "Alice"}]
	}`

	type testCase struct {
		name     string
		metadata string // empty means no metadata file at all
		want     string
	}

	tests := []testCase{
		{
			name: "Missing",
			want: "metadata.json",
		},
		{
			name:     "Unreadable",
			metadata: "{not json",
			want:     "unreadable",
		},
		{
			name:     "GroupMismatch",
			metadata: `{"application": "divvy", "groupId": "other"}`,
			want:     "does not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)

			f, err := zw.Create("backup.json")
			require.NoError(t, err)
			_, err = f.Write([]byte(backupJSON))
			require.NoError(t, err)

			if tt.metadata != "" {
				m, err := zw.Create("metadata.json")
				require.NoError(t, err)
				_, err = m.Write([]byte(tt.metadata))
				require.NoError(t, err)
			}

			require.NoError(t, zw.Close())

			snap, warnings, err := snapshot.ParseBackup(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			require.NoError(t, err)
			assert.Equal(t, "g1", snap.Group.ID)
			require.Len(t, warnings, 1)
			assert.Contains(t, warnings[0], tt.want)
		})
	}
}

func TestParseBackup_InvalidDocument(t *testing.T) {
	// Version is present but the group id is not.
	backupJSON := `{
		"version": 1,
		"group": {"name": "Road Trip"},
		"participants": [{"id": "p1", "name": "Alice"}]
	}`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("backup.json")
	require.NoError(t, err)
	_, err = f.Write([]byte(backupJSON))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, _, err = snapshot.ParseBackup(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorContains(t, err, "invalid backup")
}
