package service

import (
	"context"
	"testing"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	testAuthorA = "6f1c8a2e-4b3d-4f6a-9c2e-8b7d5a3f1e0c"
	testAuthorB = "7a2d9b3f-5c4e-4a7b-8d3f-9c8e6b5a4d2e"
)

func resultRow(authorID, exam string, score, total float64) ingest.Row {
	return ingest.Row{
		"author_id":   authorID,
		"exam":        exam,
		"score":       score,
		"total_marks": total,
	}
}

func newResultFixture() (*fakeResultRepo, *fakeJoinerRepo, ResultService) {
	resultRepo := &fakeResultRepo{}
	joinerRepo := &fakeJoinerRepo{joiners: []domain.Joiner{
		{Name: "A", Email: "a@example.com", AuthorID: testAuthorA, Department: "Engineering"},
		{Name: "B", Email: "b@example.com", AuthorID: testAuthorB},
	}}
	return resultRepo, joinerRepo, NewResultService(resultRepo, joinerRepo)
}

func TestBulkUploadCreatesResults(t *testing.T) {
	resultRepo, _, svc := newResultFixture()

	summary, err := svc.BulkUpload(context.Background(), []ingest.Row{
		resultRow(testAuthorA, "fortnight3", 15, 20),
		resultRow(testAuthorB, "daily1", 9, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)
	assert.Empty(t, summary.Errors)

	require.Len(t, resultRepo.results, 2)
	first := resultRepo.results[0]
	assert.Equal(t, 75, first.Percentage)
	assert.Equal(t, domain.ResultStatusPassed, first.Status)
	// Department denormalized from the joiner record.
	assert.Equal(t, "Engineering", first.Department)

	second := resultRepo.results[1]
	assert.Equal(t, 45, second.Percentage)
	assert.Equal(t, domain.ResultStatusFailed, second.Status)
}

func TestBulkUploadRejectsUnknownAuthor(t *testing.T) {
	_, _, svc := newResultFixture()

	summary, err := svc.BulkUpload(context.Background(), []ingest.Row{
		resultRow("9b8c7d6e-5f4a-4b3c-9d2e-1f0a9b8c7d6e", "daily1", 5, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "no joiner with author id")
}

func TestBulkUploadOneAttemptPerExam(t *testing.T) {
	_, _, svc := newResultFixture()

	first, err := svc.BulkUpload(context.Background(), []ingest.Row{
		resultRow(testAuthorA, "fortnight3", 15, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	// A repeat upload of the same (author, exam) is rejected per-row.
	second, err := svc.BulkUpload(context.Background(), []ingest.Row{
		resultRow(testAuthorA, "fortnight3", 18, 20),
		resultRow(testAuthorA, "fortnight4", 18, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Created)
	require.Len(t, second.Errors, 1)
	assert.Contains(t, second.Errors[0], "row 1")
	assert.Contains(t, second.Errors[0], "already uploaded")
}

func TestBulkUploadInBatchRepeat(t *testing.T) {
	_, _, svc := newResultFixture()

	summary, err := svc.BulkUpload(context.Background(), []ingest.Row{
		resultRow(testAuthorA, "daily1", 10, 20),
		resultRow(testAuthorA, "daily1", 12, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "row 2")
	assert.Contains(t, summary.Errors[0], "repeated within batch")
}

func TestBulkUploadNormalizationErrorsSurvive(t *testing.T) {
	_, _, svc := newResultFixture()

	summary, err := svc.BulkUpload(context.Background(), []ingest.Row{
		resultRow(testAuthorA, "midterm1", 10, 20), // unknown exam family
		resultRow(testAuthorA, "daily1", 10, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "row 1")
}

func TestBulkUploadEmptyBatch(t *testing.T) {
	_, _, svc := newResultFixture()
	_, err := svc.BulkUpload(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestResultCorrection(t *testing.T) {
	resultRepo, _, svc := newResultFixture()
	ctx := context.Background()

	_, err := svc.BulkUpload(ctx, []ingest.Row{resultRow(testAuthorA, "daily1", 10, 20)})
	require.NoError(t, err)
	recorded := resultRepo.results[0]
	assert.Equal(t, domain.ResultStatusFailed, recorded.Status)

	corrected, err := svc.Correct(ctx, domain.RoleAdmin, recorded.ID, 16, 20)
	require.NoError(t, err)
	assert.Equal(t, 80, corrected.Percentage)
	assert.Equal(t, domain.ResultStatusPassed, corrected.Status)

	stored, err := resultRepo.GetByID(ctx, recorded.ID)
	require.NoError(t, err)
	assert.Equal(t, 16.0, stored.Score)
	assert.Equal(t, domain.ResultStatusPassed, stored.Status)
}

func TestResultCorrectionAdminOnly(t *testing.T) {
	resultRepo, _, svc := newResultFixture()
	ctx := context.Background()

	_, err := svc.BulkUpload(ctx, []ingest.Row{resultRow(testAuthorA, "daily1", 10, 20)})
	require.NoError(t, err)
	recorded := resultRepo.results[0]

	// Everyone but an admin is refused, and the attempt stays as-is.
	for _, role := range []domain.Role{domain.RoleTrainer, domain.RoleMasterTrainer, domain.RoleBOA, domain.RoleTrainee} {
		_, err := svc.Correct(ctx, role, recorded.ID, 20, 20)
		assert.ErrorIs(t, err, ErrResultCorrection)
	}
	stored, err := resultRepo.GetByID(ctx, recorded.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.Score)
	assert.Equal(t, domain.ResultStatusFailed, stored.Status)
}

func TestResultCorrectionNotFound(t *testing.T) {
	_, _, svc := newResultFixture()
	_, err := svc.Correct(context.Background(), domain.RoleAdmin, primitive.NewObjectID(), 10, 20)
	assert.ErrorIs(t, err, ErrResultNotFound)
}
