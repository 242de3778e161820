package service

import (
	"context"
	"testing"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinerRow(name, email, authorID string) ingest.Row {
	row := ingest.Row{"name": name, "email": email}
	if authorID != "" {
		row["author_id"] = authorID
	}
	return row
}

func TestBulkIngestCreatesAllRows(t *testing.T) {
	repo := &fakeJoinerRepo{}
	svc := NewJoinerService(repo, nil)

	summary, err := svc.BulkIngest(context.Background(), []ingest.Row{
		joinerRow("A", "a@example.com", ""),
		joinerRow("B", "b@example.com", ""),
		joinerRow("C", "c@example.com", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Created)
	assert.Empty(t, summary.Errors)
	assert.Len(t, repo.joiners, 3)
}

func TestBulkIngestRejectsExistingEmail(t *testing.T) {
	repo := &fakeJoinerRepo{joiners: []domain.Joiner{{
		Name: "Existing", Email: "a@example.com", AuthorID: "6f1c8a2e-4b3d-4f6a-9c2e-8b7d5a3f1e0c",
	}}}
	svc := NewJoinerService(repo, nil)

	summary, err := svc.BulkIngest(context.Background(), []ingest.Row{
		joinerRow("A", "a@example.com", ""),
		joinerRow("B", "b@example.com", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "row 1")
	assert.Contains(t, summary.Errors[0], "already registered")
}

func TestBulkIngestRejectsExistingAuthorID(t *testing.T) {
	const id = "6f1c8a2e-4b3d-4f6a-9c2e-8b7d5a3f1e0c"
	repo := &fakeJoinerRepo{joiners: []domain.Joiner{{
		Name: "Existing", Email: "existing@example.com", AuthorID: id,
	}}}
	svc := NewJoinerService(repo, nil)

	summary, err := svc.BulkIngest(context.Background(), []ingest.Row{
		joinerRow("A", "a@example.com", id),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "author id")
}

func TestBulkIngestRejectsInBatchDuplicates(t *testing.T) {
	repo := &fakeJoinerRepo{}
	svc := NewJoinerService(repo, nil)

	summary, err := svc.BulkIngest(context.Background(), []ingest.Row{
		joinerRow("A", "same@example.com", ""),
		joinerRow("B", "same@example.com", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "row 2")
	assert.Contains(t, summary.Errors[0], "repeated within batch")
}

func TestBulkIngestIsIdempotent(t *testing.T) {
	repo := &fakeJoinerRepo{}
	svc := NewJoinerService(repo, nil)
	rows := []ingest.Row{
		joinerRow("A", "a@example.com", "6f1c8a2e-4b3d-4f6a-9c2e-8b7d5a3f1e0c"),
		joinerRow("B", "b@example.com", "7a2d9b3f-5c4e-4a7b-8d3f-9c8e6b5a4d2e"),
	}

	first, err := svc.BulkIngest(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	// Re-running the same batch creates nothing and flags every row.
	second, err := svc.BulkIngest(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Len(t, second.Errors, 2)
	assert.Len(t, repo.joiners, 2)
}

func TestBulkIngestAccountsForEveryRow(t *testing.T) {
	repo := &fakeJoinerRepo{}
	svc := NewJoinerService(repo, nil)

	summary, err := svc.BulkIngest(context.Background(), []ingest.Row{
		joinerRow("A", "a@example.com", ""),
		{"name": "No Email"},
		joinerRow("C", "a@example.com", ""), // dup of row 1 within batch
	})
	require.NoError(t, err)
	// created + errors covers all three input rows exactly once
	assert.Equal(t, 3, summary.Created+len(summary.Errors))
}

func TestBulkIngestEmptyBatch(t *testing.T) {
	svc := NewJoinerService(&fakeJoinerRepo{}, nil)
	_, err := svc.BulkIngest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestUpdateChecklistCompletesOnboarding(t *testing.T) {
	const id = "6f1c8a2e-4b3d-4f6a-9c2e-8b7d5a3f1e0c"
	repo := &fakeJoinerRepo{joiners: []domain.Joiner{{
		Name: "A", Email: "a@example.com", AuthorID: id, Status: domain.JoinerStatusPending,
	}}}
	svc := NewJoinerService(repo, nil)

	joiner, err := svc.UpdateChecklist(context.Background(), id, domain.OnboardingChecklist{
		WelcomeEmailSent: true, CredentialsIssued: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JoinerStatusPending, joiner.Status)

	joiner, err = svc.UpdateChecklist(context.Background(), id, domain.OnboardingChecklist{
		WelcomeEmailSent: true, CredentialsIssued: true, LaptopAssigned: true, DocumentsVerified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JoinerStatusOnboarded, joiner.Status)
}

func TestUpdateChecklistUnknownJoiner(t *testing.T) {
	svc := NewJoinerService(&fakeJoinerRepo{}, nil)
	_, err := svc.UpdateChecklist(context.Background(), "missing", domain.OnboardingChecklist{})
	assert.ErrorIs(t, err, ErrJoinerNotFound)
}
