package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayPlanStatus is the workflow state of a trainee day plan.
//
// The linear flow is:
//
//	draft -> in_progress (trainee submits)
//	in_progress -> approved | rejected (trainer review)
//	approved -> pending (trainee submits EOD update)
//	pending -> completed | rejected (trainer EOD review)
//
// completed and rejected are terminal.
type DayPlanStatus string

const (
	DayPlanStatusDraft      DayPlanStatus = "draft"
	DayPlanStatusInProgress DayPlanStatus = "in_progress"
	DayPlanStatusApproved   DayPlanStatus = "approved"
	DayPlanStatusPending    DayPlanStatus = "pending"
	DayPlanStatusCompleted  DayPlanStatus = "completed"
	DayPlanStatusRejected   DayPlanStatus = "rejected"
)

// TaskStatus tracks an individual plan task.
type TaskStatus string

const (
	TaskStatusPlanned    TaskStatus = "planned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// PlanTask is one entry in the ordered task list of a day plan.
type PlanTask struct {
	TaskID           string     `bson:"taskId" json:"taskId"`
	Title            string     `bson:"title" json:"title"`
	TimeAllocatedMin int        `bson:"timeAllocatedMin" json:"timeAllocatedMin"`
	Status           TaskStatus `bson:"status" json:"status"`
	Remarks          string     `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// EODUpdate is the trainee-submitted end-of-day report nested in a day
// plan. It carries its own review fields, separate from the plan's
// initial review.
type EODUpdate struct {
	TaskUpdates    []PlanTask `bson:"taskUpdates" json:"taskUpdates"`
	Summary        string     `bson:"summary,omitempty" json:"summary,omitempty"`
	SubmittedAt    *time.Time `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	ReviewedAt     *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewRemarks  string     `bson:"reviewRemarks,omitempty" json:"reviewRemarks,omitempty"`
	ReviewApproved bool       `bson:"reviewApproved" json:"reviewApproved"`
}

// TraineeDayPlan is one plan per trainee per date. At most one plan may
// exist per (authorId, date); the store enforces this with a compound
// unique index.
type TraineeDayPlan struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID string             `bson:"authorId" json:"authorId"`
	// Date is normalized to midnight UTC so the uniqueness key is stable.
	Date      time.Time          `bson:"date" json:"date"`
	Tasks     []PlanTask         `bson:"tasks" json:"tasks"`
	Status    DayPlanStatus      `bson:"status" json:"status"`
	EOD       *EODUpdate         `bson:"eod,omitempty" json:"eod,omitempty"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	// Initial review metadata (the in_progress -> approved/rejected step).
	ReviewRemarks string     `bson:"reviewRemarks,omitempty" json:"reviewRemarks,omitempty"`
	ReviewedAt    *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// dayPlanTransitions is the allowed transition table. A request whose
// current status does not exactly match a row here is rejected, never
// silently ignored.
var dayPlanTransitions = map[DayPlanStatus][]DayPlanStatus{
	DayPlanStatusDraft:      {DayPlanStatusInProgress},
	DayPlanStatusInProgress: {DayPlanStatusApproved, DayPlanStatusRejected},
	DayPlanStatusApproved:   {DayPlanStatusPending},
	DayPlanStatusPending:    {DayPlanStatusCompleted, DayPlanStatusRejected},
}

// CanTransition reports whether moving from -> to is a legal step.
func CanTransition(from, to DayPlanStatus) bool {
	for _, next := range dayPlanTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no transitions out.
func (s DayPlanStatus) IsTerminal() bool {
	return len(dayPlanTransitions[s]) == 0
}

// PlanDate truncates t to midnight UTC, the canonical day-plan date.
func PlanDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
