// Package snapshot defines the point-in-time serialized representation of a
// group and codecs for the two supported interchange formats: the
// lightweight JSON export (no stable expense identifiers) and the full
// zip-archived backup.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jpcarvalho/divvy/internal/group"
)

type Format string

const (
	FormatLightweight Format = "lightweight"
	FormatBackup      Format = "backup"
)

// BackupVersion is the full-backup document version this codec writes.
const BackupVersion = 1

// defaultGrouping labels categories arriving from the lightweight format,
// which carries bare category names.
const defaultGrouping = "General"

var validate = validator.New()

type Snapshot struct {
	Format     Format
	Version    int
	ExportedAt time.Time

	Group        Group
	Participants []Participant
	Expenses     []Expense
	Activities   []Activity
}

type Group struct {
	ID           string
	Name         string
	Information  string
	Currency     string
	CurrencyCode string
	CreatedAt    time.Time
}

type Participant struct {
	ID   string
	Name string
}

type Expense struct {
	ID               string // empty for the lightweight format
	ExpenseDate      time.Time
	CreatedAt        time.Time
	Title            string
	CategoryGrouping string
	CategoryName     string
	Amount           int64
	OriginalAmount   *int64
	OriginalCurrency string
	ConversionRate   *decimal.Decimal
	PaidByID         string
	PaidFor          []PaidFor
	IsReimbursement  bool
	SplitMode        group.SplitMode
	Notes            string
	RecurrenceRule   group.RecurrenceRule
	Documents        []Document
	RecurringLinkID  string
}

type PaidFor struct {
	ParticipantID string
	Shares        int64
}

type Document struct {
	ID     string
	URL    string
	Width  int
	Height int
}

type Activity struct {
	ID            string
	Time          time.Time
	Type          group.ActivityType
	ParticipantID string
	ExpenseID     string
	Data          string
}

// HasStableExpenseIDs reports whether expenses carry identifiers that survive
// round-trips; only the full-backup format does.
func (s *Snapshot) HasStableExpenseIDs() bool {
	return s.Format == FormatBackup
}

// EffectiveTimestamp is the snapshot's point in time for version comparison.
// The backup format stores it explicitly; the lightweight format derives it
// as the maximum expense creation time, falling back to the expense date
// when no creation time was exported.
func (s *Snapshot) EffectiveTimestamp() time.Time {
	if s.Format == FormatBackup {
		return s.ExportedAt
	}

	var latest time.Time

	for _, e := range s.Expenses {
		ts := e.CreatedAt
		if ts.IsZero() {
			ts = e.ExpenseDate
		}

		if ts.After(latest) {
			latest = ts
		}
	}

	return latest
}

// DayTitleKey is the pseudo-identity for expenses in the lightweight format:
// the expense date truncated to the day plus the title. Two distinct
// expenses sharing both are indistinguishable in that format.
func DayTitleKey(date time.Time, title string) string {
	return date.Format(time.DateOnly) + "\x00" + title
}

// jsonTime accepts the timestamp shapes JavaScript exporters produce.
type jsonTime struct {
	time.Time
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateOnly}

func (t *jsonTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts
			return nil
		}
	}

	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t jsonTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func splitModeOrDefault(s string) group.SplitMode {
	if s == "" {
		return group.SplitEvenly
	}

	return group.SplitMode(s)
}

func recurrenceOrDefault(s string) group.RecurrenceRule {
	if s == "" {
		return group.RecurrenceNone
	}

	return group.RecurrenceRule(s)
}
