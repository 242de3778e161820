package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const demoCollectionName = "demos"

// mongoDemoRepository implements repository.DemoRepository. Demos are
// child documents keyed by their own ObjectID with an authorId foreign
// key, so reviews are single-document updates rather than array-index
// mutations inside the user document.
type mongoDemoRepository struct {
	collection *mongo.Collection
}

// NewMongoDemoRepository creates a new instance of mongoDemoRepository.
func NewMongoDemoRepository(db *mongo.Database) repository.DemoRepository {
	return &mongoDemoRepository{
		collection: db.Collection(demoCollectionName),
	}
}

// Create inserts a new demo submission.
func (r *mongoDemoRepository) Create(ctx context.Context, demo *domain.Demo) (primitive.ObjectID, error) {
	if demo.AuthorID == "" || demo.Topic == "" {
		return primitive.NilObjectID, errors.New("demo author id and topic are required")
	}

	demo.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	demo.SubmittedAt = now
	demo.UpdatedAt = now
	if demo.TrainerStatus == "" {
		demo.TrainerStatus = domain.ReviewStatusPending
	}
	if demo.MasterTrainerStatus == "" {
		demo.MasterTrainerStatus = domain.ReviewStatusPending
	}

	result, err := r.collection.InsertOne(ctx, demo)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a demo by ObjectID.
func (r *mongoDemoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Demo, error) {
	var demo domain.Demo
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&demo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &demo, nil
}

// GetByAuthorID retrieves all demos submitted by a person.
func (r *mongoDemoRepository) GetByAuthorID(ctx context.Context, authorID string) ([]domain.Demo, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"authorId": authorID},
		options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var demos []domain.Demo
	if err = cursor.All(ctx, &demos); err != nil {
		return nil, err
	}
	return demos, nil
}

// Update persists the review fields of a demo.
func (r *mongoDemoRepository) Update(ctx context.Context, demo *domain.Demo) error {
	demo.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"trainerStatus":         demo.TrainerStatus,
			"trainerFeedback":       demo.TrainerFeedback,
			"masterTrainerStatus":   demo.MasterTrainerStatus,
			"masterTrainerFeedback": demo.MasterTrainerFeedback,
			"recordingKey":          demo.RecordingKey,
			"updatedAt":             demo.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": demo.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a demo document.
func (r *mongoDemoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDemoIndexes creates necessary indexes for the demos collection.
func EnsureDemoIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "authorId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "submittedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
