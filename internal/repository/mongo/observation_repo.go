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

const observationCollectionName = "observations"

// mongoObservationRepository implements repository.ObservationRepository.
type mongoObservationRepository struct {
	collection *mongo.Collection
}

// NewMongoObservationRepository creates a new instance of mongoObservationRepository.
func NewMongoObservationRepository(db *mongo.Database) repository.ObservationRepository {
	return &mongoObservationRepository{
		collection: db.Collection(observationCollectionName),
	}
}

// Create inserts a daily observation.
func (r *mongoObservationRepository) Create(ctx context.Context, obs *domain.Observation) (primitive.ObjectID, error) {
	if obs.AuthorID == "" || obs.Date.IsZero() {
		return primitive.NilObjectID, errors.New("observation author id and date are required")
	}

	obs.ID = primitive.NewObjectID()
	obs.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, obs)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByAuthorID retrieves observations for a person within a date range.
func (r *mongoObservationRepository) GetByAuthorID(ctx context.Context, authorID string, from, to time.Time) ([]domain.Observation, error) {
	filter := bson.M{"authorId": authorID}
	if dateRange := rangeFilter(from, to); dateRange != nil {
		filter["date"] = dateRange
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var observations []domain.Observation
	if err = cursor.All(ctx, &observations); err != nil {
		return nil, err
	}
	return observations, nil
}

// EnsureObservationIndexes creates necessary indexes for the observations collection.
func EnsureObservationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "authorId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
