package group

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("group not found")

// ErrNoImportMarker is returned when a group has no import-start marker
// activity to anchor an undo against.
var ErrNoImportMarker = errors.New("no import marker found")

// ImportMarkerPrefix tags the activity payload written at the start of every
// restore run. The undo operation scopes its deletes to the most recent
// activity carrying this prefix.
const ImportMarkerPrefix = "[import]"

// SplitMode is the rule dividing an expense's amount among participants.
type SplitMode string

const (
	SplitEvenly       SplitMode = "EVENLY"
	SplitByShares     SplitMode = "BY_SHARES"
	SplitByPercentage SplitMode = "BY_PERCENTAGE"
	SplitByAmount     SplitMode = "BY_AMOUNT"
)

// RecurrenceRule controls automatic re-creation of an expense.
type RecurrenceRule string

const (
	RecurrenceNone    RecurrenceRule = "NONE"
	RecurrenceDaily   RecurrenceRule = "DAILY"
	RecurrenceWeekly  RecurrenceRule = "WEEKLY"
	RecurrenceMonthly RecurrenceRule = "MONTHLY"
)

// ActivityType classifies entries in a group's append-only activity log.
type ActivityType string

const (
	ActivityCreateGroup   ActivityType = "CREATE_GROUP"
	ActivityUpdateGroup   ActivityType = "UPDATE_GROUP"
	ActivityCreateExpense ActivityType = "CREATE_EXPENSE"
	ActivityUpdateExpense ActivityType = "UPDATE_EXPENSE"
	ActivityDeleteExpense ActivityType = "DELETE_EXPENSE"
)

// Group owns participants, expenses and activities; deleting a group
// cascades to all of them.
type Group struct {
	ID           string
	Name         string
	Information  string
	Currency     string
	CurrencyCode string
	CreatedAt    time.Time
}

type Participant struct {
	ID      string
	GroupID string
	Name    string
}

// Category is shared across expenses, deduplicated by (grouping, name).
type Category struct {
	ID       string
	Grouping string
	Name     string
}

// Expense records one payment by a participant, split among others.
// Amounts are in cents.
type Expense struct {
	ID               string
	GroupID          string
	ExpenseDate      time.Time
	CreatedAt        time.Time
	Title            string
	Category         *Category
	Amount           int64
	OriginalAmount   *int64
	OriginalCurrency string
	ConversionRate   *decimal.Decimal
	PaidByID         string
	PaidFor          []PaidFor
	IsReimbursement  bool
	SplitMode        SplitMode
	Notes            string
	RecurrenceRule   RecurrenceRule
	RecurringLinkID  string
	Documents        []Document
}

// PaidFor is one split target of an expense, weighted by shares.
type PaidFor struct {
	ParticipantID string
	Shares        int64
}

// Document is an external binary attached to an expense, referenced by URL.
type Document struct {
	ID     string
	URL    string
	Width  int
	Height int
}

type Activity struct {
	ID            string
	GroupID       string
	Time          time.Time
	Type          ActivityType
	ParticipantID string
	ExpenseID     string
	Data          string
}

// Summary is the full live graph of a group, loaded for comparison and
// restore decisions.
type Summary struct {
	Group        Group
	Participants []Participant
	Expenses     []*Expense
	Activities   []Activity
}

// LastModified folds the maximum timestamp across expenses and activities,
// falling back to the group's creation time. Exact equality is the only
// tie-break; iteration order does not matter.
func (s *Summary) LastModified() time.Time {
	latest := s.Group.CreatedAt

	for _, e := range s.Expenses {
		if e.CreatedAt.After(latest) {
			latest = e.CreatedAt
		}
	}

	for _, a := range s.Activities {
		if a.Time.After(latest) {
			latest = a.Time
		}
	}

	return latest
}
