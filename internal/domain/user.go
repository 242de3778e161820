package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin         Role = "admin"
	RoleTrainer       Role = "trainer"
	RoleMasterTrainer Role = "master_trainer"
	RoleTrainee       Role = "trainee"
	RoleBOA           Role = "boa"
)

// User represents a person in the system. The source system kept two
// parallel person collections (User / UserNew) and queried them with
// fallback chains; here they are unified into a single schema backed
// by one collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	// AuthorID is the generated UUID v4 used as the cross-collection
	// correlation key instead of the Mongo ObjectID.
	AuthorID  string    `bson:"authorId,omitempty" json:"authorId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// --- Trainer-specific ---
	// Stores ObjectIDs of trainees assigned to this trainer.
	TraineeIDs []primitive.ObjectID `bson:"traineeIds,omitempty" json:"traineeIds,omitempty"`

	// --- Trainee-specific ---
	// The trainer responsible for this trainee's reviews.
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsMasterTrainer() bool {
	return u.Role == RoleMasterTrainer
}

func (u *User) IsTrainee() bool {
	return u.Role == RoleTrainee
}
