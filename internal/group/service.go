package group

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=group
type Repository interface {
	GetGroup(ctx context.Context, id string) (*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)

	// GetSummary loads the group with all owned participants, expenses and
	// activities. Returns ErrNotFound for an unknown group.
	GetSummary(ctx context.Context, id string) (*Summary, error)

	// LatestImportMarker returns the most recent activity whose payload
	// carries ImportMarkerPrefix, or ErrNoImportMarker.
	LatestImportMarker(ctx context.Context, groupID string) (*Activity, error)

	BeginRestore(ctx context.Context) (RestoreTx, error)
}

// RestoreTx is one atomic unit of restore work. Every write of a restore,
// rollback or undo run goes through a single RestoreTx; Commit makes them
// all visible, Rollback discards them all.
type RestoreTx interface {
	CreateGroup(ctx context.Context, g *Group) error
	UpdateGroup(ctx context.Context, g *Group) error
	CreateParticipant(ctx context.Context, p *Participant) error

	// FindOrCreateCategory resolves a category by (grouping, name),
	// creating it idempotently when absent.
	FindOrCreateCategory(ctx context.Context, grouping, name string) (string, error)

	// CreateExpense inserts the expense together with its paid-for rows and
	// documents.
	CreateExpense(ctx context.Context, e *Expense) error
	CreateActivity(ctx context.Context, a *Activity) error

	// DeleteGroupData removes all expenses, participants and activities
	// owned by the group, leaving the group row itself in place.
	DeleteGroupData(ctx context.Context, groupID string) error

	// DeleteImportedSince removes expenses created and activities logged
	// at-or-after the given time. Participants are kept. It reports the
	// deleted row counts and the document URLs that were attached to the
	// removed expenses.
	DeleteImportedSince(ctx context.Context, groupID string, since time.Time) (*UndoStats, error)

	Commit() error
	Rollback() error
}

// UndoStats reports what DeleteImportedSince removed.
type UndoStats struct {
	Expenses     int
	Activities   int
	DocumentURLs []string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*Group, error) {
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Group, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) Summary(ctx context.Context, id string) (*Summary, error) {
	return s.repo.GetSummary(ctx, id)
}

// HasImportMarker reports whether an undo of the last import is possible.
func (s *Service) HasImportMarker(ctx context.Context, groupID string) (bool, error) {
	_, err := s.repo.LatestImportMarker(ctx, groupID)
	if err != nil {
		if errors.Is(err, ErrNoImportMarker) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
