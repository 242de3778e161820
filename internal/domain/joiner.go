package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinerStatus tracks where a joiner sits in the onboarding lifecycle.
type JoinerStatus string

const (
	JoinerStatusPending   JoinerStatus = "pending"
	JoinerStatusActive    JoinerStatus = "active"
	JoinerStatusOnboarded JoinerStatus = "onboarded"
	JoinerStatusExited    JoinerStatus = "exited"
)

// OnboardingChecklist is the set of onboarding steps tracked per joiner.
// Each flag flips to true as the corresponding step completes.
type OnboardingChecklist struct {
	WelcomeEmailSent  bool `bson:"welcomeEmailSent" json:"welcomeEmailSent"`
	CredentialsIssued bool `bson:"credentialsIssued" json:"credentialsIssued"`
	LaptopAssigned    bool `bson:"laptopAssigned" json:"laptopAssigned"`
	DocumentsVerified bool `bson:"documentsVerified" json:"documentsVerified"`
}

// Joiner represents a candidate/new-hire record. Joiners are created
// during bulk ingestion or self-registration and are never hard-deleted;
// an exited joiner keeps its record with status "exited".
type Joiner struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"` // Unique, stored lower-cased
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	RoleAssign string             `bson:"roleAssignment,omitempty" json:"roleAssignment,omitempty"`
	// AuthorID is a UUID v4, unique across joiners. Caller-supplied
	// values survive ingestion only when they already match the v4 shape.
	AuthorID  string              `bson:"authorId" json:"authorId"`
	Status    JoinerStatus        `bson:"status" json:"status"`
	Checklist OnboardingChecklist `bson:"checklist" json:"checklist"`
	// TrainerID is set once the joiner is assigned to a trainer.
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
