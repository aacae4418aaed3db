package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/reconcile"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

func TestCompare(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	liveAt := func(ts time.Time) *group.Summary {
		return &group.Summary{
			Group: group.Group{ID: "g1", Name: "Trip", CreatedAt: ts},
		}
	}

	backupAt := func(ts time.Time) *snapshot.Snapshot {
		return &snapshot.Snapshot{
			Format:     snapshot.FormatBackup,
			ExportedAt: ts,
			Group:      snapshot.Group{ID: "g1", Name: "Trip"},
		}
	}

	type testCase struct {
		name string
		snap *snapshot.Snapshot
		live *group.Summary
		want reconcile.Result
	}

	tests := []testCase{
		{
			name: "NotFound",
			snap: backupAt(base),
			live: nil,
			want: reconcile.ResultNotFound,
		},
		{
			name: "Newer",
			snap: backupAt(base.Add(time.Hour)),
			live: liveAt(base),
			want: reconcile.ResultNewer,
		},
		{
			name: "Older",
			snap: backupAt(base.Add(-time.Hour)),
			live: liveAt(base),
			want: reconcile.ResultOlder,
		},
		{
			name: "Same",
			snap: backupAt(base),
			live: liveAt(base),
			want: reconcile.ResultSame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.Compare(tt.snap, tt.live)
			assert.Equal(t, tt.want, got.Result)

			if tt.live == nil {
				assert.Nil(t, got.LiveTime)
			} else {
				assert.NotNil(t, got.LiveTime)
			}
		})
	}
}

func TestCompare_LiveTimeFoldsExpensesAndActivities(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	live := &group.Summary{
		Group: group.Group{ID: "g1", CreatedAt: base},
		Expenses: []*group.Expense{
			{ID: "e1", CreatedAt: base.Add(2 * time.Hour)},
		},
		Activities: []group.Activity{
			{ID: "a1", Time: base.Add(time.Hour)},
		},
	}

	snap := &snapshot.Snapshot{
		Format:     snapshot.FormatBackup,
		ExportedAt: base.Add(90 * time.Minute),
		Group:      snapshot.Group{ID: "g1"},
	}

	// The expense created after the export makes live win.
	got := reconcile.Compare(snap, live)
	assert.Equal(t, reconcile.ResultOlder, got.Result)
	assert.Equal(t, base.Add(2*time.Hour), *got.LiveTime)
}

func TestCompare_LightweightTimestampFromExpenses(t *testing.T) {
	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	snap := &snapshot.Snapshot{
		Format: snapshot.FormatLightweight,
		Group:  snapshot.Group{ID: "g1"},
		Expenses: []snapshot.Expense{
			{Title: "Hotel", ExpenseDate: base, CreatedAt: base.Add(3 * time.Hour)},
			{Title: "Dinner", ExpenseDate: base.Add(24 * time.Hour)}, // no CreatedAt, falls back to the date
		},
	}

	got := reconcile.Compare(snap, &group.Summary{Group: group.Group{ID: "g1", CreatedAt: base}})
	assert.Equal(t, reconcile.ResultNewer, got.Result)
	assert.Equal(t, base.Add(24*time.Hour), got.SnapshotTime)
}
