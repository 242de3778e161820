package repository

import (
	"context"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// BulkInsertFailure records one row-level failure from an unordered
// bulk insert. Index is the position within the slice handed to the
// repository, not the original spreadsheet row.
type BulkInsertFailure struct {
	Index   int
	Message string
}

// BulkInsertResult reports partial success of an unordered bulk insert:
// the count of documents committed plus every per-row failure.
type BulkInsertResult struct {
	Inserted int
	Failures []BulkInsertFailure
}

// UserRepository defines the interface for interacting with the unified
// person collection.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByAuthorID(ctx context.Context, authorID string) (*domain.User, error)
	AddTraineeToTrainer(ctx context.Context, trainerID, traineeID primitive.ObjectID) error
	SetTrainerForTrainee(ctx context.Context, traineeID, trainerID primitive.ObjectID) error
	GetTraineesByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
}

// JoinerRepository defines the interface for joiner records, including
// the batched lookups the deduplication checker relies on.
type JoinerRepository interface {
	Create(ctx context.Context, joiner *domain.Joiner) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Joiner, error)
	GetByAuthorID(ctx context.Context, authorID string) (*domain.Joiner, error)
	List(ctx context.Context, status domain.JoinerStatus) ([]domain.Joiner, error)
	UpdateChecklist(ctx context.Context, authorID string, checklist domain.OnboardingChecklist) error
	UpdateStatus(ctx context.Context, authorID string, status domain.JoinerStatus) error

	// FindByEmails / FindByAuthorIDs are the two batched ($in) lookups
	// performed once per ingestion batch.
	FindByEmails(ctx context.Context, emails []string) ([]domain.Joiner, error)
	FindByAuthorIDs(ctx context.Context, authorIDs []string) ([]domain.Joiner, error)

	// InsertMany performs an unordered bulk insert so one bad row does
	// not abort the rest of the batch.
	InsertMany(ctx context.Context, joiners []domain.Joiner) (BulkInsertResult, error)
}

// ResultRepository defines the interface for exam result records.
type ResultRepository interface {
	Create(ctx context.Context, result *domain.Result) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Result, error)
	GetByAuthorID(ctx context.Context, authorID string, from, to time.Time) ([]domain.Result, error)
	// Update rewrites the score fields of one attempt. Results are
	// otherwise immutable; only the correction path calls this.
	Update(ctx context.Context, result *domain.Result) error
	// FindExamKeys returns existing (authorId, exam) pairs among the
	// candidates, for batch deduplication. Keys use the "authorId|exam"
	// form produced by ExamKey.
	FindExamKeys(ctx context.Context, keys []string) ([]string, error)
	InsertMany(ctx context.Context, results []domain.Result) (BulkInsertResult, error)
}

// DayPlanRepository defines the interface for trainee day plans.
type DayPlanRepository interface {
	Create(ctx context.Context, plan *domain.TraineeDayPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TraineeDayPlan, error)
	GetByAuthorAndDate(ctx context.Context, authorID string, date time.Time) (*domain.TraineeDayPlan, error)
	GetByAuthorID(ctx context.Context, authorID string, from, to time.Time) ([]domain.TraineeDayPlan, error)
	// Update persists the whole plan document. Single-document
	// atomicity is the only guarantee offered.
	Update(ctx context.Context, plan *domain.TraineeDayPlan) error
}

// DemoRepository defines the interface for demo child entities.
type DemoRepository interface {
	Create(ctx context.Context, demo *domain.Demo) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Demo, error)
	GetByAuthorID(ctx context.Context, authorID string) ([]domain.Demo, error)
	Update(ctx context.Context, demo *domain.Demo) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ObservationRepository defines the interface for daily observations.
type ObservationRepository interface {
	Create(ctx context.Context, obs *domain.Observation) (primitive.ObjectID, error)
	GetByAuthorID(ctx context.Context, authorID string, from, to time.Time) ([]domain.Observation, error)
}

// AssignmentRepository defines the interface for timed assessments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	GetByAuthorID(ctx context.Context, authorID string, from, to time.Time) ([]domain.Assignment, error)
}

// ExamKey builds the composite dedup key for a result row.
func ExamKey(authorID, exam string) string {
	return authorID + "|" + exam
}
