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

const joinerCollectionName = "joiners"

// mongoJoinerRepository implements repository.JoinerRepository using MongoDB.
type mongoJoinerRepository struct {
	collection *mongo.Collection
}

// NewMongoJoinerRepository creates a new instance of mongoJoinerRepository.
func NewMongoJoinerRepository(db *mongo.Database) repository.JoinerRepository {
	return &mongoJoinerRepository{
		collection: db.Collection(joinerCollectionName),
	}
}

// Create inserts a single joiner record.
func (r *mongoJoinerRepository) Create(ctx context.Context, joiner *domain.Joiner) (primitive.ObjectID, error) {
	if joiner.Email == "" || joiner.AuthorID == "" {
		return primitive.NilObjectID, errors.New("joiner email and author id are required")
	}

	joiner.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	joiner.CreatedAt = now
	joiner.UpdatedAt = now
	if joiner.Status == "" {
		joiner.Status = domain.JoinerStatusPending
	}

	result, err := r.collection.InsertOne(ctx, joiner)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a joiner by ObjectID.
func (r *mongoJoinerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Joiner, error) {
	var joiner domain.Joiner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&joiner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &joiner, nil
}

// GetByAuthorID retrieves a joiner by the generated author id.
func (r *mongoJoinerRepository) GetByAuthorID(ctx context.Context, authorID string) (*domain.Joiner, error) {
	var joiner domain.Joiner
	err := r.collection.FindOne(ctx, bson.M{"authorId": authorID}).Decode(&joiner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &joiner, nil
}

// List retrieves joiners, optionally filtered by status.
func (r *mongoJoinerRepository) List(ctx context.Context, status domain.JoinerStatus) ([]domain.Joiner, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var joiners []domain.Joiner
	if err = cursor.All(ctx, &joiners); err != nil {
		return nil, err
	}
	return joiners, nil
}

// UpdateChecklist replaces the onboarding checklist for a joiner.
func (r *mongoJoinerRepository) UpdateChecklist(ctx context.Context, authorID string, checklist domain.OnboardingChecklist) error {
	update := bson.M{
		"$set": bson.M{
			"checklist": checklist,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"authorId": authorID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatus moves a joiner to a new lifecycle status.
func (r *mongoJoinerRepository) UpdateStatus(ctx context.Context, authorID string, status domain.JoinerStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"authorId": authorID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindByEmails performs the single batched email lookup for a batch.
func (r *mongoJoinerRepository) FindByEmails(ctx context.Context, emails []string) ([]domain.Joiner, error) {
	if len(emails) == 0 {
		return []domain.Joiner{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"email": bson.M{"$in": emails}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var joiners []domain.Joiner
	if err = cursor.All(ctx, &joiners); err != nil {
		return nil, err
	}
	return joiners, nil
}

// FindByAuthorIDs performs the single batched author-id lookup for a batch.
func (r *mongoJoinerRepository) FindByAuthorIDs(ctx context.Context, authorIDs []string) ([]domain.Joiner, error) {
	if len(authorIDs) == 0 {
		return []domain.Joiner{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"authorId": bson.M{"$in": authorIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var joiners []domain.Joiner
	if err = cursor.All(ctx, &joiners); err != nil {
		return nil, err
	}
	return joiners, nil
}

// InsertMany commits a batch with an unordered insert so a single
// duplicate-key violation does not abort the remaining rows. Row-level
// failures are collected and returned with the committed count.
func (r *mongoJoinerRepository) InsertMany(ctx context.Context, joiners []domain.Joiner) (repository.BulkInsertResult, error) {
	if len(joiners) == 0 {
		return repository.BulkInsertResult{}, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(joiners))
	for i := range joiners {
		joiners[i].ID = primitive.NewObjectID()
		joiners[i].CreatedAt = now
		joiners[i].UpdatedAt = now
		if joiners[i].Status == "" {
			joiners[i].Status = domain.JoinerStatusPending
		}
		docs[i] = joiners[i]
	}

	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))

	out := repository.BulkInsertResult{}
	if res != nil {
		out.Inserted = len(res.InsertedIDs)
	}
	if err != nil {
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) {
			for _, we := range bwe.WriteErrors {
				out.Failures = append(out.Failures, repository.BulkInsertFailure{
					Index:   we.Index,
					Message: we.Message,
				})
			}
			return out, nil
		}
		return out, err
	}
	return out, nil
}

// EnsureJoinerIndexes creates necessary indexes for the joiners collection.
func EnsureJoinerIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "authorId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
