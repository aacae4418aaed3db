package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

// Service serializes a live group graph into the downloadable full-backup
// artifact.
type Service struct {
	groups *group.Service
}

func NewService(groups *group.Service) *Service {
	return &Service{groups: groups}
}

// Export writes the zip-archived backup of the group to w and returns the
// snapshot it serialized.
func (s *Service) Export(ctx context.Context, groupID string, w io.Writer) (*snapshot.Snapshot, error) {
	summary, err := s.groups.Summary(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("loading group: %w", err)
	}

	snap := BuildSnapshot(summary, time.Now().UTC())
	if err := snapshot.WriteBackup(w, snap); err != nil {
		return nil, fmt.Errorf("writing backup archive: %w", err)
	}

	return snap, nil
}

// BuildSnapshot converts the live graph into the versioned backup snapshot.
func BuildSnapshot(summary *group.Summary, exportedAt time.Time) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{
		Format:     snapshot.FormatBackup,
		Version:    snapshot.BackupVersion,
		ExportedAt: exportedAt,
		Group: snapshot.Group{
			ID:           summary.Group.ID,
			Name:         summary.Group.Name,
			Information:  summary.Group.Information,
			Currency:     summary.Group.Currency,
			CurrencyCode: summary.Group.CurrencyCode,
			CreatedAt:    summary.Group.CreatedAt,
		},
	}

	for _, p := range summary.Participants {
		snap.Participants = append(snap.Participants, snapshot.Participant{ID: p.ID, Name: p.Name})
	}

	for _, e := range summary.Expenses {
		expense := snapshot.Expense{
			ID:               e.ID,
			ExpenseDate:      e.ExpenseDate,
			CreatedAt:        e.CreatedAt,
			Title:            e.Title,
			Amount:           e.Amount,
			OriginalAmount:   e.OriginalAmount,
			OriginalCurrency: e.OriginalCurrency,
			ConversionRate:   e.ConversionRate,
			PaidByID:         e.PaidByID,
			IsReimbursement:  e.IsReimbursement,
			SplitMode:        e.SplitMode,
			Notes:            e.Notes,
			RecurrenceRule:   e.RecurrenceRule,
			RecurringLinkID:  e.RecurringLinkID,
		}

		if e.Category != nil {
			expense.CategoryGrouping = e.Category.Grouping
			expense.CategoryName = e.Category.Name
		}

		for _, pf := range e.PaidFor {
			expense.PaidFor = append(expense.PaidFor, snapshot.PaidFor{ParticipantID: pf.ParticipantID, Shares: pf.Shares})
		}

		for _, d := range e.Documents {
			expense.Documents = append(expense.Documents, snapshot.Document{ID: d.ID, URL: d.URL, Width: d.Width, Height: d.Height})
		}

		snap.Expenses = append(snap.Expenses, expense)
	}

	for _, a := range summary.Activities {
		snap.Activities = append(snap.Activities, snapshot.Activity{
			ID:            a.ID,
			Time:          a.Time,
			Type:          a.Type,
			ParticipantID: a.ParticipantID,
			ExpenseID:     a.ExpenseID,
			Data:          a.Data,
		})
	}

	return snap
}

// Filename derives the download name from the group name and export date.
func Filename(groupName string, exportedAt time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, groupName)

	return fmt.Sprintf("divvy_%s_%s.zip", safe, exportedAt.Format("20060102"))
}
