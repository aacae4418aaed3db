// Package reconcile classifies an uploaded snapshot against the live state
// of its group. Both entry points are pure functions over the two datasets;
// neither touches storage.
package reconcile

import (
	"time"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

type Result string

const (
	ResultNewer    Result = "newer"
	ResultOlder    Result = "older"
	ResultSame     Result = "same"
	ResultNotFound Result = "not_found"
)

type Comparison struct {
	Result       Result
	SnapshotTime time.Time
	// LiveTime is nil when the group does not exist in the store.
	LiveTime *time.Time
}

// Compare classifies the snapshot as newer, older or the same as the live
// group by strict comparison of the two effective timestamps. Clock skew
// between the snapshot producer and this host is an accepted limitation;
// there is no tie-break beyond exact equality.
func Compare(snap *snapshot.Snapshot, live *group.Summary) Comparison {
	snapTime := snap.EffectiveTimestamp()

	if live == nil {
		return Comparison{Result: ResultNotFound, SnapshotTime: snapTime}
	}

	liveTime := live.LastModified()
	cmp := Comparison{SnapshotTime: snapTime, LiveTime: &liveTime}

	switch {
	case snapTime.After(liveTime):
		cmp.Result = ResultNewer
	case snapTime.Before(liveTime):
		cmp.Result = ResultOlder
	default:
		cmp.Result = ResultSame
	}

	return cmp
}
