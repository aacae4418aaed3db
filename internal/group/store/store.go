package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jpcarvalho/divvy/internal/group"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectGroupColumns = `g.id, g.name, g.information, g.currency, g.currency_code, g.created_at`

func scanGroup(s scanner) (*group.Group, error) {
	var g group.Group
	if err := s.Scan(&g.ID, &g.Name, &g.Information, &g.Currency, &g.CurrencyCode, &g.CreatedAt); err != nil {
		return nil, err
	}

	return &g, nil
}

func (s *Store) GetGroup(ctx context.Context, id string) (*group.Group, error) {
	query := `SELECT ` + selectGroupColumns + ` FROM groups g WHERE g.id = $1`

	g, err := scanGroup(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, group.ErrNotFound
		}

		return nil, fmt.Errorf("getting group: %w", err)
	}

	return g, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]*group.Group, error) {
	query := `SELECT ` + selectGroupColumns + ` FROM groups g ORDER BY g.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []*group.Group

	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}

		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (s *Store) GetSummary(ctx context.Context, id string) (*group.Summary, error) {
	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &group.Summary{Group: *g}

	if summary.Participants, err = s.listParticipants(ctx, id); err != nil {
		return nil, err
	}

	if summary.Expenses, err = s.listExpenses(ctx, id); err != nil {
		return nil, err
	}

	if summary.Activities, err = s.listActivities(ctx, id); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *Store) listParticipants(ctx context.Context, groupID string) ([]group.Participant, error) {
	query := `SELECT id, group_id, name FROM participants WHERE group_id = $1 ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	var participants []group.Participant

	for rows.Next() {
		var p group.Participant
		if err := rows.Scan(&p.ID, &p.GroupID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}

		participants = append(participants, p)
	}

	return participants, rows.Err()
}

func scanExpense(s scanner) (*group.Expense, error) {
	var (
		e               group.Expense
		origAmount      sql.NullInt64
		origCurrency    sql.NullString
		conversionRate  sql.NullString
		notes           sql.NullString
		recurringLink   sql.NullString
		splitMode       string
		recurrence      string
		catID, catGroup sql.NullString
		catName         sql.NullString
	)

	if err := s.Scan(
		&e.ID, &e.GroupID, &e.ExpenseDate, &e.CreatedAt, &e.Title,
		&e.Amount, &origAmount, &origCurrency, &conversionRate,
		&e.PaidByID, &splitMode, &e.IsReimbursement, &notes, &recurrence, &recurringLink,
		&catID, &catGroup, &catName,
	); err != nil {
		return nil, err
	}

	e.SplitMode = group.SplitMode(splitMode)
	e.RecurrenceRule = group.RecurrenceRule(recurrence)
	e.OriginalCurrency = origCurrency.String
	e.Notes = notes.String
	e.RecurringLinkID = recurringLink.String

	if origAmount.Valid {
		e.OriginalAmount = &origAmount.Int64
	}

	if conversionRate.Valid {
		rate, err := decimal.NewFromString(conversionRate.String)
		if err != nil {
			return nil, fmt.Errorf("parsing conversion rate: %w", err)
		}

		e.ConversionRate = &rate
	}

	if catID.Valid {
		e.Category = &group.Category{ID: catID.String, Grouping: catGroup.String, Name: catName.String}
	}

	return &e, nil
}

const selectExpenseColumns = `
	e.id, e.group_id, e.expense_date, e.created_at, e.title,
	e.amount, e.original_amount, e.original_currency, e.conversion_rate,
	e.paid_by_id, e.split_mode, e.is_reimbursement, e.notes, e.recurrence_rule, e.recurring_expense_link_id,
	c.id, c.grouping, c.name
`

func (s *Store) listExpenses(ctx context.Context, groupID string) ([]*group.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		LEFT JOIN categories c ON e.category_id = c.id
		WHERE e.group_id = $1
		ORDER BY e.expense_date ASC, e.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*group.Expense

	byID := make(map[string]*group.Expense)

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
		byID[e.ID] = e
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	if err := s.attachPaidFor(ctx, groupID, byID); err != nil {
		return nil, err
	}

	if err := s.attachDocuments(ctx, groupID, byID); err != nil {
		return nil, err
	}

	return expenses, nil
}

func (s *Store) attachPaidFor(ctx context.Context, groupID string, expenses map[string]*group.Expense) error {
	query := `
		SELECT pf.expense_id, pf.participant_id, pf.shares
		FROM expense_paid_for pf
		JOIN expenses e ON pf.expense_id = e.id
		WHERE e.group_id = $1
		ORDER BY pf.participant_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return fmt.Errorf("listing paid-for rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID string
			pf        group.PaidFor
		)

		if err := rows.Scan(&expenseID, &pf.ParticipantID, &pf.Shares); err != nil {
			return fmt.Errorf("scanning paid-for row: %w", err)
		}

		if e, ok := expenses[expenseID]; ok {
			e.PaidFor = append(e.PaidFor, pf)
		}
	}

	return rows.Err()
}

func (s *Store) attachDocuments(ctx context.Context, groupID string, expenses map[string]*group.Expense) error {
	query := `
		SELECT d.expense_id, d.id, d.url, d.width, d.height
		FROM documents d
		JOIN expenses e ON d.expense_id = e.id
		WHERE e.group_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID string
			d         group.Document
		)

		if err := rows.Scan(&expenseID, &d.ID, &d.URL, &d.Width, &d.Height); err != nil {
			return fmt.Errorf("scanning document: %w", err)
		}

		if e, ok := expenses[expenseID]; ok {
			e.Documents = append(e.Documents, d)
		}
	}

	return rows.Err()
}

const selectActivityColumns = `a.id, a.group_id, a.time, a.activity_type, a.participant_id, a.expense_id, a.data`

func scanActivity(s scanner) (*group.Activity, error) {
	var (
		a             group.Activity
		activityType  string
		participantID sql.NullString
		expenseID     sql.NullString
		data          sql.NullString
	)

	if err := s.Scan(&a.ID, &a.GroupID, &a.Time, &activityType, &participantID, &expenseID, &data); err != nil {
		return nil, err
	}

	a.Type = group.ActivityType(activityType)
	a.ParticipantID = participantID.String
	a.ExpenseID = expenseID.String
	a.Data = data.String

	return &a, nil
}

func (s *Store) listActivities(ctx context.Context, groupID string) ([]group.Activity, error) {
	query := `SELECT ` + selectActivityColumns + ` FROM activities a WHERE a.group_id = $1 ORDER BY a.time ASC`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var activities []group.Activity

	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}

		activities = append(activities, *a)
	}

	return activities, rows.Err()
}

func (s *Store) LatestImportMarker(ctx context.Context, groupID string) (*group.Activity, error) {
	query := `SELECT ` + selectActivityColumns + `
		FROM activities a
		WHERE a.group_id = $1 AND a.data LIKE $2
		ORDER BY a.time DESC
		LIMIT 1`

	a, err := scanActivity(s.db.QueryRowContext(ctx, query, groupID, group.ImportMarkerPrefix+"%"))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, group.ErrNoImportMarker
		}

		return nil, fmt.Errorf("finding import marker: %w", err)
	}

	return a, nil
}

type restoreTx struct {
	tx *sql.Tx
}

func (s *Store) BeginRestore(ctx context.Context) (group.RestoreTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning restore tx: %w", err)
	}

	return &restoreTx{tx: tx}, nil
}

func (r *restoreTx) Commit() error   { return r.tx.Commit() }
func (r *restoreTx) Rollback() error { return r.tx.Rollback() }

func (r *restoreTx) CreateGroup(ctx context.Context, g *group.Group) error {
	query := `
		INSERT INTO groups (id, name, information, currency, currency_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.tx.ExecContext(ctx, query,
		g.ID, g.Name, g.Information, g.Currency, g.CurrencyCode, g.CreatedAt,
	); err != nil {
		return fmt.Errorf("creating group: %w", err)
	}

	return nil
}

func (r *restoreTx) UpdateGroup(ctx context.Context, g *group.Group) error {
	query := `
		UPDATE groups
		SET name = $1, information = $2, currency = $3, currency_code = $4
		WHERE id = $5
	`

	res, err := r.tx.ExecContext(ctx, query, g.Name, g.Information, g.Currency, g.CurrencyCode, g.ID)
	if err != nil {
		return fmt.Errorf("updating group: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return group.ErrNotFound
	}

	return nil
}

func (r *restoreTx) CreateParticipant(ctx context.Context, p *group.Participant) error {
	query := `INSERT INTO participants (id, group_id, name) VALUES ($1, $2, $3)`

	if _, err := r.tx.ExecContext(ctx, query, p.ID, p.GroupID, p.Name); err != nil {
		return fmt.Errorf("creating participant: %w", err)
	}

	return nil
}

// FindOrCreateCategory upserts on the (grouping, name) uniqueness constraint
// so concurrent imports resolving the same category converge on one row.
func (r *restoreTx) FindOrCreateCategory(ctx context.Context, grouping, name string) (string, error) {
	query := `
		INSERT INTO categories (id, grouping, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (grouping, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	var id string
	if err := r.tx.QueryRowContext(ctx, query, uuid.NewString(), grouping, name).Scan(&id); err != nil {
		return "", fmt.Errorf("upserting category: %w", err)
	}

	return id, nil
}

func (r *restoreTx) CreateExpense(ctx context.Context, e *group.Expense) error {
	query := `
		INSERT INTO expenses (
			id, group_id, expense_date, created_at, title, category_id,
			amount, original_amount, original_currency, conversion_rate,
			paid_by_id, split_mode, is_reimbursement, notes, recurrence_rule, recurring_expense_link_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	var categoryID *string
	if e.Category != nil {
		categoryID = &e.Category.ID
	}

	var conversionRate *string
	if e.ConversionRate != nil {
		s := e.ConversionRate.String()
		conversionRate = &s
	}

	if _, err := r.tx.ExecContext(ctx, query,
		e.ID, e.GroupID, e.ExpenseDate, e.CreatedAt, e.Title, categoryID,
		e.Amount, e.OriginalAmount, nullable(e.OriginalCurrency), conversionRate,
		e.PaidByID, e.SplitMode, e.IsReimbursement, nullable(e.Notes), e.RecurrenceRule, nullable(e.RecurringLinkID),
	); err != nil {
		return fmt.Errorf("creating expense %q: %w", e.Title, err)
	}

	for _, pf := range e.PaidFor {
		pfQuery := `INSERT INTO expense_paid_for (expense_id, participant_id, shares) VALUES ($1, $2, $3)`
		if _, err := r.tx.ExecContext(ctx, pfQuery, e.ID, pf.ParticipantID, pf.Shares); err != nil {
			return fmt.Errorf("creating paid-for row for expense %q: %w", e.Title, err)
		}
	}

	for _, d := range e.Documents {
		docQuery := `INSERT INTO documents (id, expense_id, url, width, height) VALUES ($1, $2, $3, $4, $5)`
		if _, err := r.tx.ExecContext(ctx, docQuery, d.ID, e.ID, d.URL, d.Width, d.Height); err != nil {
			return fmt.Errorf("creating document for expense %q: %w", e.Title, err)
		}
	}

	return nil
}

func (r *restoreTx) CreateActivity(ctx context.Context, a *group.Activity) error {
	query := `
		INSERT INTO activities (id, group_id, time, activity_type, participant_id, expense_id, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.tx.ExecContext(ctx, query,
		a.ID, a.GroupID, a.Time, a.Type, nullable(a.ParticipantID), nullable(a.ExpenseID), nullable(a.Data),
	); err != nil {
		return fmt.Errorf("creating activity: %w", err)
	}

	return nil
}

// DeleteGroupData clears everything the group owns. Expenses go first so the
// paid_by foreign key does not block the participant delete.
func (r *restoreTx) DeleteGroupData(ctx context.Context, groupID string) error {
	for _, query := range []string{
		`DELETE FROM expenses WHERE group_id = $1`,
		`DELETE FROM activities WHERE group_id = $1`,
		`DELETE FROM participants WHERE group_id = $1`,
	} {
		if _, err := r.tx.ExecContext(ctx, query, groupID); err != nil {
			return fmt.Errorf("clearing group data: %w", err)
		}
	}

	return nil
}

func (r *restoreTx) DeleteImportedSince(ctx context.Context, groupID string, since time.Time) (*group.UndoStats, error) {
	stats := &group.UndoStats{}

	urlQuery := `
		SELECT d.url
		FROM documents d
		JOIN expenses e ON d.expense_id = e.id
		WHERE e.group_id = $1 AND e.created_at >= $2
	`

	rows, err := r.tx.QueryContext(ctx, urlQuery, groupID, since)
	if err != nil {
		return nil, fmt.Errorf("listing document urls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scanning document url: %w", err)
		}

		stats.DocumentURLs = append(stats.DocumentURLs, url)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document urls: %w", err)
	}

	res, err := r.tx.ExecContext(ctx, `DELETE FROM expenses WHERE group_id = $1 AND created_at >= $2`, groupID, since)
	if err != nil {
		return nil, fmt.Errorf("deleting imported expenses: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		stats.Expenses = int(n)
	}

	res, err = r.tx.ExecContext(ctx, `DELETE FROM activities WHERE group_id = $1 AND time >= $2`, groupID, since)
	if err != nil {
		return nil, fmt.Errorf("deleting imported activities: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		stats.Activities = int(n)
	}

	return stats, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
