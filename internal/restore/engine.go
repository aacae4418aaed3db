// Package restore replays snapshots against the store. Every run is one
// atomic transaction: either the whole snapshot lands or nothing does.
package restore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jpcarvalho/divvy/internal/blob"
	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/reconcile"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

// Mode selects the restore semantics: create an absent group, merge new
// rows into an existing one, or wipe and replace it.
type Mode string

const (
	ModeCreate   Mode = "create"
	ModeUpdate   Mode = "update"
	ModeRollback Mode = "rollback"
)

// ErrRollbackRequired rejects a plain restore when the live group is at
// least as recent as the snapshot; the caller must explicitly choose
// rollback to replace live data.
var ErrRollbackRequired = errors.New("live group is as recent as the snapshot or newer; repeat the request with the rollback action to replace it")

// ErrIntegrity marks referential-integrity violations inside the snapshot
// itself, such as an expense paid by a participant the snapshot never
// declares. Any such violation aborts the whole transaction.
var ErrIntegrity = errors.New("snapshot integrity violation")

// ModeFor derives the restore mode from the caller's action and the version
// comparison. An absent live group always means create, an explicit
// rollback request wins otherwise, and a newer snapshot merges as update.
func ModeFor(rollback bool, cmp reconcile.Comparison) (Mode, error) {
	if cmp.Result == reconcile.ResultNotFound {
		return ModeCreate, nil
	}

	if rollback {
		return ModeRollback, nil
	}

	if cmp.Result == reconcile.ResultNewer {
		return ModeUpdate, nil
	}

	return "", ErrRollbackRequired
}

// Result reports what one restore run wrote.
type Result struct {
	GroupID      string
	GroupName    string
	Mode         Mode
	Participants int
	Expenses     int
	Warnings     []string
}

// UndoResult reports what an undo run removed.
type UndoResult struct {
	Expenses   int
	Activities int
	Warnings   []string
}

type Engine struct {
	repo      group.Repository
	blobs     blob.Store
	txTimeout time.Duration
}

func NewEngine(repo group.Repository, blobs blob.Store, txTimeout time.Duration) *Engine {
	if txTimeout <= 0 {
		txTimeout = 2 * time.Minute
	}

	return &Engine{repo: repo, blobs: blobs, txTimeout: txTimeout}
}

// Restore replays the snapshot in the given mode. Unknown participant
// references fail the entire transaction with ErrIntegrity; unreachable
// documents are skipped and reported as warnings.
func (e *Engine) Restore(ctx context.Context, snap *snapshot.Snapshot, mode Mode) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.txTimeout)
	defer cancel()

	var live *group.Summary

	if mode == ModeUpdate || mode == ModeRollback {
		var err error

		live, err = e.repo.GetSummary(ctx, snap.Group.ID)
		if err != nil {
			if !errors.Is(err, group.ErrNotFound) {
				return nil, fmt.Errorf("loading live group: %w", err)
			}

			if mode == ModeUpdate {
				return nil, fmt.Errorf("update of group %s: %w", snap.Group.ID, group.ErrNotFound)
			}

			// Rollback of a group the store has never seen: nothing to
			// delete, replay as create.
			mode = ModeCreate
		}
	}

	tx, err := e.repo.BeginRestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning restore: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res := &Result{GroupID: snap.Group.ID, GroupName: snap.Group.Name, Mode: mode}

	g := &group.Group{
		ID:           snap.Group.ID,
		Name:         snap.Group.Name,
		Information:  snap.Group.Information,
		Currency:     snap.Group.Currency,
		CurrencyCode: snap.Group.CurrencyCode,
		CreatedAt:    snap.Group.CreatedAt,
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}

	// The lightweight format has no information field. An update merges new
	// rows into live data; it must not blank out what the snapshot simply
	// cannot carry.
	if mode == ModeUpdate && snap.Format == snapshot.FormatLightweight && live != nil {
		g.Information = live.Group.Information
	}

	switch mode {
	case ModeCreate:
		if err := tx.CreateGroup(ctx, g); err != nil {
			return nil, err
		}
	case ModeRollback:
		// The group row is updated, not recreated, so foreign keys pointing
		// at it stay valid.
		if err := tx.DeleteGroupData(ctx, g.ID); err != nil {
			return nil, err
		}

		if err := tx.UpdateGroup(ctx, g); err != nil {
			return nil, err
		}
	case ModeUpdate:
		if err := tx.UpdateGroup(ctx, g); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown restore mode %q", mode)
	}

	known := make(map[string]struct{})

	if mode == ModeUpdate && live != nil {
		for _, p := range live.Participants {
			known[p.ID] = struct{}{}
		}
	}

	for _, p := range snap.Participants {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}

		if _, ok := known[id]; ok {
			continue
		}

		if err := tx.CreateParticipant(ctx, &group.Participant{ID: id, GroupID: g.ID, Name: p.Name}); err != nil {
			return nil, err
		}

		known[id] = struct{}{}
		res.Participants++
	}

	toImport := snap.Expenses
	if mode == ModeUpdate && live != nil {
		toImport = newExpenses(snap, live)
	}

	marker := &group.Activity{
		ID:      uuid.NewString(),
		GroupID: g.ID,
		Time:    now,
		Type:    group.ActivityUpdateGroup,
		Data:    fmt.Sprintf("%s mode=%s expenses=%d", group.ImportMarkerPrefix, mode, len(toImport)),
	}
	if err := tx.CreateActivity(ctx, marker); err != nil {
		return nil, err
	}

	// Full replays carry the exported activity log back in, with original
	// identifiers and times. Update mode never touches history.
	if snap.Format == snapshot.FormatBackup && mode != ModeUpdate {
		for _, a := range snap.Activities {
			if err := tx.CreateActivity(ctx, &group.Activity{
				ID:            a.ID,
				GroupID:       g.ID,
				Time:          a.Time,
				Type:          a.Type,
				ParticipantID: a.ParticipantID,
				ExpenseID:     a.ExpenseID,
				Data:          a.Data,
			}); err != nil {
				return nil, err
			}
		}
	}

	categories := make(map[[2]string]string)

	for _, se := range toImport {
		expense, err := e.buildExpense(ctx, tx, g.ID, se, known, categories, now, res)
		if err != nil {
			return nil, err
		}

		if err := tx.CreateExpense(ctx, expense); err != nil {
			return nil, err
		}

		if err := tx.CreateActivity(ctx, &group.Activity{
			ID:        uuid.NewString(),
			GroupID:   g.ID,
			Time:      now,
			Type:      group.ActivityCreateExpense,
			ExpenseID: expense.ID,
			Data:      expense.Title,
		}); err != nil {
			return nil, err
		}

		res.Expenses++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing restore: %w", err)
	}

	return res, nil
}

// buildExpense validates participant references, resolves the category and
// probes documents. It fails fast on the first unknown reference.
func (e *Engine) buildExpense(
	ctx context.Context,
	tx group.RestoreTx,
	groupID string,
	se snapshot.Expense,
	known map[string]struct{},
	categories map[[2]string]string,
	now time.Time,
	res *Result,
) (*group.Expense, error) {
	if _, ok := known[se.PaidByID]; !ok {
		return nil, fmt.Errorf("%w: expense %q references unknown payer %q", ErrIntegrity, se.Title, se.PaidByID)
	}

	for _, pf := range se.PaidFor {
		if _, ok := known[pf.ParticipantID]; !ok {
			return nil, fmt.Errorf("%w: expense %q is split with unknown participant %q", ErrIntegrity, se.Title, pf.ParticipantID)
		}
	}

	id := se.ID
	if id == "" {
		id = uuid.NewString()
	}

	expense := &group.Expense{
		ID:               id,
		GroupID:          groupID,
		ExpenseDate:      se.ExpenseDate,
		CreatedAt:        now,
		Title:            se.Title,
		Amount:           se.Amount,
		OriginalAmount:   se.OriginalAmount,
		OriginalCurrency: se.OriginalCurrency,
		ConversionRate:   se.ConversionRate,
		PaidByID:         se.PaidByID,
		IsReimbursement:  se.IsReimbursement,
		SplitMode:        se.SplitMode,
		Notes:            se.Notes,
		RecurrenceRule:   se.RecurrenceRule,
		RecurringLinkID:  se.RecurringLinkID,
	}

	for _, pf := range se.PaidFor {
		expense.PaidFor = append(expense.PaidFor, group.PaidFor{ParticipantID: pf.ParticipantID, Shares: pf.Shares})
	}

	if se.CategoryName != "" {
		key := [2]string{se.CategoryGrouping, se.CategoryName}

		catID, ok := categories[key]
		if !ok {
			var err error

			catID, err = tx.FindOrCreateCategory(ctx, se.CategoryGrouping, se.CategoryName)
			if err != nil {
				return nil, err
			}

			categories[key] = catID
		}

		expense.Category = &group.Category{ID: catID, Grouping: se.CategoryGrouping, Name: se.CategoryName}
	}

	// Documents are outside the durability guarantee: an unreachable one is
	// skipped with a warning, never a failed transaction.
	for _, d := range se.Documents {
		if err := e.blobs.Probe(ctx, d.URL); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("expense %q: document %s unreachable, skipped: %v", se.Title, d.URL, err))
			continue
		}

		docID := d.ID
		if docID == "" {
			docID = uuid.NewString()
		}

		expense.Documents = append(expense.Documents, group.Document{ID: docID, URL: d.URL, Width: d.Width, Height: d.Height})
	}

	return expense, nil
}

// newExpenses filters the snapshot's expenses down to the ones absent from
// the live group: by stable identifier for the backup format, by the
// (day, title) pseudo-key for the lightweight format.
func newExpenses(snap *snapshot.Snapshot, live *group.Summary) []snapshot.Expense {
	var missing []snapshot.Expense

	if snap.HasStableExpenseIDs() {
		liveIDs := make(map[string]struct{}, len(live.Expenses))
		for _, e := range live.Expenses {
			liveIDs[e.ID] = struct{}{}
		}

		for _, se := range snap.Expenses {
			if _, ok := liveIDs[se.ID]; !ok {
				missing = append(missing, se)
			}
		}

		return missing
	}

	liveKeys := make(map[string]struct{}, len(live.Expenses))
	for _, e := range live.Expenses {
		liveKeys[snapshot.DayTitleKey(e.ExpenseDate, e.Title)] = struct{}{}
	}

	for _, se := range snap.Expenses {
		if _, ok := liveKeys[snapshot.DayTitleKey(se.ExpenseDate, se.Title)]; !ok {
			missing = append(missing, se)
		}
	}

	return missing
}

// UndoLastImport deletes every expense and activity timestamped at-or-after
// the most recent import marker, in one transaction. Participants are kept:
// expenses outside the undone window may still reference them.
func (e *Engine) UndoLastImport(ctx context.Context, groupID string) (*UndoResult, error) {
	marker, err := e.repo.LatestImportMarker(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.txTimeout)
	defer cancel()

	tx, err := e.repo.BeginRestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning undo: %w", err)
	}
	defer tx.Rollback()

	stats, err := tx.DeleteImportedSince(ctx, groupID, marker.Time)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing undo: %w", err)
	}

	res := &UndoResult{Expenses: stats.Expenses, Activities: stats.Activities}

	// Blob deletion happens after commit; a failed delete only leaks a
	// file, while a failed commit after deletion would lose one.
	for _, url := range stats.DocumentURLs {
		if err := e.blobs.Delete(ctx, url); err != nil && !errors.Is(err, blob.ErrNotFound) {
			slog.Warn("failed to delete document blob", "url", url, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("document %s could not be deleted: %v", url, err))
		}
	}

	return res, nil
}
