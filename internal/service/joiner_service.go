package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/ingest"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"
	"github.com/MAMIDISETTI/taskmanagers/internal/sheets"
)

// --- Error Definitions ---
var (
	ErrJoinerNotFound = errors.New("joiner not found")
	ErrEmptyBatch     = errors.New("batch contains no rows")
	ErrSheetFetch     = errors.New("failed to fetch spreadsheet data")
)

// IngestSummary reports the outcome of one bulk-ingestion call.
// Created + len(Errors) accounts for every input row exactly once.
type IngestSummary struct {
	Created  int      `json:"created"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

// JoinerService drives joiner ingestion and onboarding updates.
type JoinerService interface {
	BulkIngest(ctx context.Context, rows []ingest.Row) (*IngestSummary, error)
	SyncFromSheet(ctx context.Context, sheetURL string) (*IngestSummary, error)
	CreateJoiner(ctx context.Context, joiner *domain.Joiner) (*domain.Joiner, error)
	GetByAuthorID(ctx context.Context, authorID string) (*domain.Joiner, error)
	List(ctx context.Context, status domain.JoinerStatus) ([]domain.Joiner, error)
	UpdateChecklist(ctx context.Context, authorID string, checklist domain.OnboardingChecklist) (*domain.Joiner, error)
}

// --- Service Implementation ---

type joinerService struct {
	joinerRepo   repository.JoinerRepository
	sheetsClient *sheets.Client
}

// NewJoinerService creates a new instance of joinerService.
func NewJoinerService(joinerRepo repository.JoinerRepository, sheetsClient *sheets.Client) JoinerService {
	return &joinerService{
		joinerRepo:   joinerRepo,
		sheetsClient: sheetsClient,
	}
}

// BulkIngest runs the full ingestion pipeline: normalize every row,
// deduplicate against the store with two batched lookups, then commit
// the survivors with an unordered bulk insert. Partial success is the
// expected outcome; each excluded row appears exactly once in the
// error list under its 1-based row number.
func (s *joinerService) BulkIngest(ctx context.Context, rows []ingest.Row) (*IngestSummary, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	batch := ingest.NormalizeJoiners(rows)
	summary := &IngestSummary{
		Errors:   batch.Errors,
		Warnings: batch.Warnings,
	}
	if len(batch.Joiners) == 0 {
		return summary, nil
	}

	// Collect the candidate unique keys across the whole batch, then
	// hit the store at most twice: one $in query per key type.
	emails := make([]string, 0, len(batch.Joiners))
	authorIDs := make([]string, 0, len(batch.Joiners))
	for _, nj := range batch.Joiners {
		emails = append(emails, nj.Joiner.Email)
		authorIDs = append(authorIDs, nj.Joiner.AuthorID)
	}

	existingByEmail, err := s.joinerRepo.FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	existingByAuthor, err := s.joinerRepo.FindByAuthorIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	emailMap := make(map[string]domain.Joiner, len(existingByEmail))
	for _, j := range existingByEmail {
		emailMap[strings.ToLower(j.Email)] = j
	}
	authorMap := make(map[string]domain.Joiner, len(existingByAuthor))
	for _, j := range existingByAuthor {
		authorMap[j.AuthorID] = j
	}

	// Per-row validation pass, O(1) membership checks per key. Rows
	// repeating a key within the same batch are duplicates too.
	seenEmail := make(map[string]bool)
	seenAuthor := make(map[string]bool)
	toInsert := make([]domain.Joiner, 0, len(batch.Joiners))
	rowNums := make([]int, 0, len(batch.Joiners))

	for _, nj := range batch.Joiners {
		j := nj.Joiner
		if existing, ok := emailMap[j.Email]; ok {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("row %d: email %q already registered (author id %s)", nj.RowNum, j.Email, existing.AuthorID))
			continue
		}
		if existing, ok := authorMap[j.AuthorID]; ok {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("row %d: author id %q already registered (email %s)", nj.RowNum, j.AuthorID, existing.Email))
			continue
		}
		if seenEmail[j.Email] {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("row %d: email %q repeated within batch", nj.RowNum, j.Email))
			continue
		}
		if seenAuthor[j.AuthorID] {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("row %d: author id %q repeated within batch", nj.RowNum, j.AuthorID))
			continue
		}
		seenEmail[j.Email] = true
		seenAuthor[j.AuthorID] = true
		toInsert = append(toInsert, j)
		rowNums = append(rowNums, nj.RowNum)
	}

	if len(toInsert) == 0 {
		return summary, nil
	}

	// Unordered bulk insert: a row-level constraint violation (e.g. a
	// concurrent writer winning the unique index) is collected, not
	// allowed to abort the remaining rows.
	result, err := s.joinerRepo.InsertMany(ctx, toInsert)
	if err != nil {
		return nil, err
	}
	summary.Created = result.Inserted
	for _, f := range result.Failures {
		rowNum := f.Index + 1
		if f.Index >= 0 && f.Index < len(rowNums) {
			rowNum = rowNums[f.Index]
		}
		summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: insert failed: %s", rowNum, f.Message))
	}

	return summary, nil
}

// SyncFromSheet pulls rows from the external spreadsheet source and
// feeds them through the same bulk pipeline.
func (s *joinerService) SyncFromSheet(ctx context.Context, sheetURL string) (*IngestSummary, error) {
	if s.sheetsClient == nil {
		return nil, ErrSheetFetch
	}
	payload, err := s.sheetsClient.Fetch(ctx, sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSheetFetch, err)
	}
	if len(payload.Data) == 0 {
		return nil, ErrEmptyBatch
	}
	return s.BulkIngest(ctx, payload.Data)
}

// CreateJoiner registers a single joiner (the self-registration path).
// The payload goes through the same normalization as a bulk row.
func (s *joinerService) CreateJoiner(ctx context.Context, joiner *domain.Joiner) (*domain.Joiner, error) {
	if joiner == nil {
		return nil, errors.New("joiner payload is required")
	}
	joiner.Email = strings.ToLower(strings.TrimSpace(joiner.Email))
	if joiner.Name == "" || joiner.Email == "" {
		return nil, errors.New("joiner name and email are required")
	}
	authorID, _ := ingest.ResolveAuthorID(joiner.AuthorID)
	joiner.AuthorID = authorID
	if joiner.Phone != "" {
		joiner.Phone = ingest.NormalizePhone(joiner.Phone)
	}

	id, err := s.joinerRepo.Create(ctx, joiner)
	if err != nil {
		return nil, err
	}
	joiner.ID = id
	return joiner, nil
}

// GetByAuthorID fetches one joiner.
func (s *joinerService) GetByAuthorID(ctx context.Context, authorID string) (*domain.Joiner, error) {
	joiner, err := s.joinerRepo.GetByAuthorID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJoinerNotFound
		}
		return nil, err
	}
	return joiner, nil
}

// List returns joiners, optionally filtered by status.
func (s *joinerService) List(ctx context.Context, status domain.JoinerStatus) ([]domain.Joiner, error) {
	return s.joinerRepo.List(ctx, status)
}

// UpdateChecklist updates onboarding progress. When every step is done
// the joiner moves to onboarded.
func (s *joinerService) UpdateChecklist(ctx context.Context, authorID string, checklist domain.OnboardingChecklist) (*domain.Joiner, error) {
	if err := s.joinerRepo.UpdateChecklist(ctx, authorID, checklist); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJoinerNotFound
		}
		return nil, err
	}

	if checklist.WelcomeEmailSent && checklist.CredentialsIssued &&
		checklist.LaptopAssigned && checklist.DocumentsVerified {
		if err := s.joinerRepo.UpdateStatus(ctx, authorID, domain.JoinerStatusOnboarded); err != nil {
			return nil, err
		}
	}

	return s.GetByAuthorID(ctx, authorID)
}
