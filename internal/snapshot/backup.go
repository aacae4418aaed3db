package snapshot

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/jpcarvalho/divvy/internal/encoding"
	"github.com/jpcarvalho/divvy/internal/group"
)

const (
	backupFileName   = "backup.json"
	metadataFileName = "metadata.json"
)

// backupDocument is the versioned full-backup payload stored inside the zip
// archive. Unlike the lightweight export it carries stable identifiers,
// documents, recurring links and the activity log.
type backupDocument struct {
	Version      int                 `json:"version" validate:"required"`
	ExportedAt   jsonTime            `json:"exportedAt"`
	Group        backupGroup         `json:"group"`
	Participants []backupParticipant `json:"participants" validate:"required,min=1,dive"`
	Expenses     []backupExpense     `json:"expenses" validate:"dive"`
	Activities   []backupActivity    `json:"activities" validate:"dive"`
}

type backupGroup struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Information  string   `json:"information"`
	Currency     string   `json:"currency"`
	CurrencyCode string   `json:"currencyCode"`
	CreatedAt    jsonTime `json:"createdAt"`
}

type backupParticipant struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type backupExpense struct {
	ID                   string           `json:"id" validate:"required"`
	ExpenseDate          jsonTime         `json:"expenseDate"`
	CreatedAt            jsonTime         `json:"createdAt"`
	Title                string           `json:"title" validate:"required"`
	Category             *backupCategory  `json:"category"`
	Amount               int64            `json:"amount"`
	OriginalAmount       *int64           `json:"originalAmount"`
	OriginalCurrency     string           `json:"originalCurrency"`
	ConversionRate       *decimal.Decimal `json:"conversionRate"`
	PaidByID             string           `json:"paidById" validate:"required"`
	PaidFor              []backupPaidFor  `json:"paidFor" validate:"required,min=1,dive"`
	IsReimbursement      bool             `json:"isReimbursement"`
	SplitMode            string           `json:"splitMode" validate:"omitempty,oneof=EVENLY BY_SHARES BY_PERCENTAGE BY_AMOUNT"`
	Notes                string           `json:"notes"`
	RecurrenceRule       string           `json:"recurrenceRule" validate:"omitempty,oneof=NONE DAILY WEEKLY MONTHLY"`
	Documents            []backupDocRef   `json:"documents"`
	RecurringExpenseLink string           `json:"recurringExpenseLink"`
}

type backupCategory struct {
	Grouping string `json:"grouping"`
	Name     string `json:"name"`
}

type backupPaidFor struct {
	ParticipantID string `json:"participantId" validate:"required"`
	Shares        int64  `json:"shares"`
}

type backupDocRef struct {
	ID     string `json:"id"`
	URL    string `json:"url" validate:"required"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type backupActivity struct {
	ID            string   `json:"id" validate:"required"`
	Time          jsonTime `json:"time"`
	Type          string   `json:"activityType" validate:"required"`
	ParticipantID string   `json:"participantId"`
	ExpenseID     string   `json:"expenseId"`
	Data          string   `json:"data"`
}

// Metadata is the small side-file written next to backup.json.
type Metadata struct {
	Application string   `json:"application"`
	Version     int      `json:"version"`
	GroupID     string   `json:"groupId"`
	GroupName   string   `json:"groupName"`
	ExportedAt  jsonTime `json:"exportedAt"`
}

// ParseBackup decodes and validates a zip-archived full backup. It returns
// format-specific warnings (missing or inconsistent metadata) that never
// block the import.
func ParseBackup(r io.ReaderAt, size int64) (*Snapshot, []string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("reading zip archive: %w", err)
	}

	var (
		backupFile   *zip.File
		metadataFile *zip.File
	)

	for _, f := range zr.File {
		switch f.Name {
		case backupFileName:
			backupFile = f
		case metadataFileName:
			metadataFile = f
		}
	}

	if backupFile == nil {
		return nil, nil, fmt.Errorf("archive does not contain %s", backupFileName)
	}

	doc, err := decodeBackup(backupFile)
	if err != nil {
		return nil, nil, err
	}

	if err := validate.Struct(doc); err != nil {
		return nil, nil, fmt.Errorf("invalid backup: %w", err)
	}

	var warnings []string

	if metadataFile == nil {
		warnings = append(warnings, fmt.Sprintf("archive does not contain %s", metadataFileName))
	} else if meta, err := decodeMetadata(metadataFile); err != nil {
		warnings = append(warnings, fmt.Sprintf("unreadable %s: %v", metadataFileName, err))
	} else if meta.GroupID != "" && meta.GroupID != doc.Group.ID {
		warnings = append(warnings, fmt.Sprintf("metadata group id %q does not match backup group id %q", meta.GroupID, doc.Group.ID))
	}

	return doc.toSnapshot(), warnings, nil
}

func decodeBackup(f *zip.File) (*backupDocument, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", backupFileName, err)
	}
	defer rc.Close()

	utf8r, err := encoding.NewUTF8Reader(rc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", backupFileName, err)
	}

	var doc backupDocument
	if err := json.NewDecoder(utf8r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", backupFileName, err)
	}

	return &doc, nil
}

func decodeMetadata(f *zip.File) (*Metadata, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var meta Metadata
	if err := json.NewDecoder(rc).Decode(&meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (doc *backupDocument) toSnapshot() *Snapshot {
	snap := &Snapshot{
		Format:     FormatBackup,
		Version:    doc.Version,
		ExportedAt: doc.ExportedAt.Time,
		Group: Group{
			ID:           doc.Group.ID,
			Name:         doc.Group.Name,
			Information:  doc.Group.Information,
			Currency:     doc.Group.Currency,
			CurrencyCode: doc.Group.CurrencyCode,
			CreatedAt:    doc.Group.CreatedAt.Time,
		},
	}

	for _, p := range doc.Participants {
		snap.Participants = append(snap.Participants, Participant{ID: p.ID, Name: p.Name})
	}

	for _, e := range doc.Expenses {
		expense := Expense{
			ID:               e.ID,
			ExpenseDate:      e.ExpenseDate.Time,
			CreatedAt:        e.CreatedAt.Time,
			Title:            e.Title,
			Amount:           e.Amount,
			OriginalAmount:   e.OriginalAmount,
			OriginalCurrency: e.OriginalCurrency,
			ConversionRate:   e.ConversionRate,
			PaidByID:         e.PaidByID,
			IsReimbursement:  e.IsReimbursement,
			SplitMode:        splitModeOrDefault(e.SplitMode),
			Notes:            e.Notes,
			RecurrenceRule:   recurrenceOrDefault(e.RecurrenceRule),
			RecurringLinkID:  e.RecurringExpenseLink,
		}

		if e.Category != nil {
			expense.CategoryGrouping = e.Category.Grouping
			expense.CategoryName = e.Category.Name
		}

		for _, pf := range e.PaidFor {
			shares := pf.Shares
			if shares == 0 {
				shares = 1
			}

			expense.PaidFor = append(expense.PaidFor, PaidFor{ParticipantID: pf.ParticipantID, Shares: shares})
		}

		for _, d := range e.Documents {
			expense.Documents = append(expense.Documents, Document{ID: d.ID, URL: d.URL, Width: d.Width, Height: d.Height})
		}

		snap.Expenses = append(snap.Expenses, expense)
	}

	for _, a := range doc.Activities {
		snap.Activities = append(snap.Activities, Activity{
			ID:            a.ID,
			Time:          a.Time.Time,
			Type:          group.ActivityType(a.Type),
			ParticipantID: a.ParticipantID,
			ExpenseID:     a.ExpenseID,
			Data:          a.Data,
		})
	}

	return snap
}

// WriteBackup serializes the snapshot as a zip archive containing
// backup.json and metadata.json.
func WriteBackup(w io.Writer, snap *Snapshot) error {
	zw := zip.NewWriter(w)

	bf, err := zw.Create(backupFileName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", backupFileName, err)
	}

	if err := json.NewEncoder(bf).Encode(snap.toDocument()); err != nil {
		return fmt.Errorf("encoding %s: %w", backupFileName, err)
	}

	mf, err := zw.Create(metadataFileName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", metadataFileName, err)
	}

	meta := Metadata{
		Application: "divvy",
		Version:     snap.Version,
		GroupID:     snap.Group.ID,
		GroupName:   snap.Group.Name,
		ExportedAt:  jsonTime{snap.ExportedAt},
	}

	if err := json.NewEncoder(mf).Encode(meta); err != nil {
		return fmt.Errorf("encoding %s: %w", metadataFileName, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}

	return nil
}

func (s *Snapshot) toDocument() *backupDocument {
	doc := &backupDocument{
		Version:    s.Version,
		ExportedAt: jsonTime{s.ExportedAt},
		Group: backupGroup{
			ID:           s.Group.ID,
			Name:         s.Group.Name,
			Information:  s.Group.Information,
			Currency:     s.Group.Currency,
			CurrencyCode: s.Group.CurrencyCode,
			CreatedAt:    jsonTime{s.Group.CreatedAt},
		},
	}

	for _, p := range s.Participants {
		doc.Participants = append(doc.Participants, backupParticipant{ID: p.ID, Name: p.Name})
	}

	for _, e := range s.Expenses {
		expense := backupExpense{
			ID:                   e.ID,
			ExpenseDate:          jsonTime{e.ExpenseDate},
			CreatedAt:            jsonTime{e.CreatedAt},
			Title:                e.Title,
			Amount:               e.Amount,
			OriginalAmount:       e.OriginalAmount,
			OriginalCurrency:     e.OriginalCurrency,
			ConversionRate:       e.ConversionRate,
			PaidByID:             e.PaidByID,
			IsReimbursement:      e.IsReimbursement,
			SplitMode:            string(e.SplitMode),
			Notes:                e.Notes,
			RecurrenceRule:       string(e.RecurrenceRule),
			RecurringExpenseLink: e.RecurringLinkID,
		}

		if e.CategoryName != "" {
			expense.Category = &backupCategory{Grouping: e.CategoryGrouping, Name: e.CategoryName}
		}

		for _, pf := range e.PaidFor {
			expense.PaidFor = append(expense.PaidFor, backupPaidFor{ParticipantID: pf.ParticipantID, Shares: pf.Shares})
		}

		for _, d := range e.Documents {
			expense.Documents = append(expense.Documents, backupDocRef{ID: d.ID, URL: d.URL, Width: d.Width, Height: d.Height})
		}

		doc.Expenses = append(doc.Expenses, expense)
	}

	for _, a := range s.Activities {
		doc.Activities = append(doc.Activities, backupActivity{
			ID:            a.ID,
			Time:          jsonTime{a.Time},
			Type:          string(a.Type),
			ParticipantID: a.ParticipantID,
			ExpenseID:     a.ExpenseID,
			Data:          a.Data,
		})
	}

	return doc
}
