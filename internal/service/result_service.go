package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/ingest"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	// ErrResultCorrection guards the administrative-correction path.
	ErrResultCorrection = errors.New("result correction requires an admin actor")
	ErrResultNotFound   = errors.New("result not found")
)

// ResultService drives exam result ingestion.
type ResultService interface {
	BulkUpload(ctx context.Context, rows []ingest.Row) (*IngestSummary, error)
	// Correct rewrites the score of a recorded attempt and re-derives
	// percentage and pass status. Results are immutable otherwise.
	Correct(ctx context.Context, actorRole domain.Role, id primitive.ObjectID, score, totalMarks float64) (*domain.Result, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
	joinerRepo repository.JoinerRepository
}

// NewResultService creates a new instance of resultService.
func NewResultService(resultRepo repository.ResultRepository, joinerRepo repository.JoinerRepository) ResultService {
	return &resultService{
		resultRepo: resultRepo,
		joinerRepo: joinerRepo,
	}
}

// Correct applies an administrative score correction to one attempt.
func (s *resultService) Correct(ctx context.Context, actorRole domain.Role, id primitive.ObjectID, score, totalMarks float64) (*domain.Result, error) {
	if actorRole != domain.RoleAdmin {
		return nil, ErrResultCorrection
	}

	result, err := s.resultRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	result.Score = score
	result.TotalMarks = totalMarks
	result.Percentage = domain.ComputePercentage(score, totalMarks)
	result.Status = domain.StatusForPercentage(result.Percentage)

	if err := s.resultRepo.Update(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to update result: %w", err)
	}
	return result, nil
}

// BulkUpload ingests a batch of exam result rows. Deduplication key is
// (authorId, exam): one attempt per person per exam. Rows referencing
// an unknown author id are rejected per-row; the batch continues.
func (s *resultService) BulkUpload(ctx context.Context, rows []ingest.Row) (*IngestSummary, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	batch := ingest.NormalizeResults(rows)
	summary := &IngestSummary{
		Errors:   batch.Errors,
		Warnings: batch.Warnings,
	}
	if len(batch.Results) == 0 {
		return summary, nil
	}

	// Batched lookup 1: which author ids actually exist.
	authorIDs := make([]string, 0, len(batch.Results))
	for _, nr := range batch.Results {
		authorIDs = append(authorIDs, nr.Result.AuthorID)
	}
	knownJoiners, err := s.joinerRepo.FindByAuthorIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	known := make(map[string]domain.Joiner, len(knownJoiners))
	for _, j := range knownJoiners {
		known[j.AuthorID] = j
	}

	// Batched lookup 2: which (authorId, exam) pairs already have an
	// attempt recorded.
	keys := make([]string, 0, len(batch.Results))
	for _, nr := range batch.Results {
		keys = append(keys, repository.ExamKey(nr.Result.AuthorID, nr.Result.Exam))
	}
	existingKeys, err := s.resultRepo.FindExamKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(existingKeys))
	for _, k := range existingKeys {
		existing[k] = true
	}

	seen := make(map[string]bool)
	toInsert := make([]domain.Result, 0, len(batch.Results))
	rowNums := make([]int, 0, len(batch.Results))

	for _, nr := range batch.Results {
		r := nr.Result
		joiner, ok := known[r.AuthorID]
		if !ok {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("row %d: no joiner with author id %q", nr.RowNum, r.AuthorID))
			continue
		}
		key := repository.ExamKey(r.AuthorID, r.Exam)
		if existing[key] {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("row %d: result for %s already uploaded for author id %s", nr.RowNum, r.Exam, r.AuthorID))
			continue
		}
		if seen[key] {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("row %d: exam %s repeated within batch for author id %s", nr.RowNum, r.Exam, r.AuthorID))
			continue
		}
		seen[key] = true

		// Denormalize department from the joiner record when the row
		// did not carry it.
		if r.Department == "" {
			r.Department = joiner.Department
		}

		toInsert = append(toInsert, r)
		rowNums = append(rowNums, nr.RowNum)
	}

	if len(toInsert) == 0 {
		return summary, nil
	}

	result, err := s.resultRepo.InsertMany(ctx, toInsert)
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
