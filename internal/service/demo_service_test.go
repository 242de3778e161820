package service

import (
	"context"
	"testing"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStorage satisfies storage.FileStorage without touching S3.
type fakeStorage struct {
	uploads   []string
	downloads []string
	deleted   []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	f.uploads = append(f.uploads, objectKey)
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	f.downloads = append(f.downloads, objectKey)
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func TestDemoUploadAndRegister(t *testing.T) {
	store := &fakeStorage{}
	svc := NewDemoService(&fakeDemoRepo{}, store, notify.NewInMemory(16))
	ctx := context.Background()

	target, err := svc.RequestUploadURL(ctx, testAuthorA, "video/mp4")
	require.NoError(t, err)
	assert.Contains(t, target.ObjectKey, "demos/"+testAuthorA+"/")
	assert.Contains(t, target.UploadURL, target.ObjectKey)

	demo, err := svc.Register(ctx, testAuthorA, "React hooks", target.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusPending, demo.TrainerStatus)
	assert.Equal(t, domain.ReviewStatusPending, demo.MasterTrainerStatus)
	assert.Equal(t, domain.ReviewStatusPending, demo.OverallStatus())

	url, err := svc.RecordingURL(ctx, demo.ID)
	require.NoError(t, err)
	assert.Contains(t, url, target.ObjectKey)
}

func TestDemoTwoTrackReview(t *testing.T) {
	repo := &fakeDemoRepo{}
	svc := NewDemoService(repo, &fakeStorage{}, notify.NewInMemory(16))
	ctx := context.Background()

	demo, err := svc.Register(ctx, testAuthorA, "SQL joins", "demos/key")
	require.NoError(t, err)

	// One approval is not enough for an overall approval.
	demo, err = svc.ReviewByTrainer(ctx, demo.ID, domain.ReviewStatusApproved, "solid")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusPending, demo.OverallStatus())

	demo, err = svc.ReviewByMasterTrainer(ctx, demo.ID, domain.ReviewStatusApproved, "agreed")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusApproved, demo.OverallStatus())
	assert.Equal(t, "solid", demo.TrainerFeedback)
	assert.Equal(t, "agreed", demo.MasterTrainerFeedback)
}

func TestDemoRejectionWins(t *testing.T) {
	svc := NewDemoService(&fakeDemoRepo{}, &fakeStorage{}, notify.NewInMemory(16))
	ctx := context.Background()

	demo, err := svc.Register(ctx, testAuthorA, "CSS grid", "demos/key")
	require.NoError(t, err)

	demo, err = svc.ReviewByTrainer(ctx, demo.ID, domain.ReviewStatusApproved, "")
	require.NoError(t, err)
	demo, err = svc.ReviewByMasterTrainer(ctx, demo.ID, domain.ReviewStatusRejected, "redo the layout section")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusRejected, demo.OverallStatus())
}

func TestDemoDelete(t *testing.T) {
	store := &fakeStorage{}
	svc := NewDemoService(&fakeDemoRepo{}, store, notify.NewInMemory(16))
	ctx := context.Background()

	demo, err := svc.Register(ctx, testAuthorA, "Docker basics", "demos/recording-key")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, demo.ID, testAuthorA))

	// Record and stored recording are both gone.
	_, err = svc.GetByID(ctx, demo.ID)
	assert.ErrorIs(t, err, ErrDemoNotFound)
	assert.Equal(t, []string{"demos/recording-key"}, store.deleted)
}

func TestDemoDeleteGuards(t *testing.T) {
	store := &fakeStorage{}
	svc := NewDemoService(&fakeDemoRepo{}, store, notify.NewInMemory(16))
	ctx := context.Background()

	demo, err := svc.Register(ctx, testAuthorA, "Git workflow", "demos/key")
	require.NoError(t, err)

	// Only the owner may withdraw a demo.
	err = svc.Delete(ctx, demo.ID, testAuthorB)
	assert.ErrorIs(t, err, ErrNotDemoOwner)

	// Once any reviewer has recorded a verdict it stays on file.
	_, err = svc.ReviewByTrainer(ctx, demo.ID, domain.ReviewStatusApproved, "")
	require.NoError(t, err)
	err = svc.Delete(ctx, demo.ID, testAuthorA)
	assert.ErrorIs(t, err, ErrDemoReviewed)

	stored, err := svc.GetByID(ctx, demo.ID)
	require.NoError(t, err)
	assert.Equal(t, "demos/key", stored.RecordingKey)
	assert.Empty(t, store.deleted)
}

func TestDemoNotFound(t *testing.T) {
	svc := NewDemoService(&fakeDemoRepo{}, &fakeStorage{}, notify.NewInMemory(16))
	_, err := svc.GetByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrDemoNotFound)
}
