package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroomingRating(t *testing.T) {
	obs := Observation{DressCode: GroomingGood, Neatness: GroomingNeedsImprovement, Punctuality: GroomingGood}
	assert.Equal(t, "Average", obs.GroomingRating())

	obs = Observation{DressCode: GroomingExcellent, Neatness: GroomingGood, Punctuality: GroomingExcellent}
	assert.Equal(t, "Good", obs.GroomingRating())

	// Even two excellents cannot outvote a needs_improvement.
	obs = Observation{DressCode: GroomingExcellent, Neatness: GroomingExcellent, Punctuality: GroomingNeedsImprovement}
	assert.Equal(t, "Average", obs.GroomingRating())

	// Unrecognized scores do not collapse the day.
	obs = Observation{DressCode: "stellar", Neatness: GroomingGood, Punctuality: GroomingGood}
	assert.Equal(t, "Good", obs.GroomingRating())
}

func TestDemoOverallStatus(t *testing.T) {
	d := Demo{TrainerStatus: ReviewStatusApproved, MasterTrainerStatus: ReviewStatusApproved}
	assert.Equal(t, ReviewStatusApproved, d.OverallStatus())

	d = Demo{TrainerStatus: ReviewStatusApproved, MasterTrainerStatus: ReviewStatusPending}
	assert.Equal(t, ReviewStatusPending, d.OverallStatus())

	d = Demo{TrainerStatus: ReviewStatusRejected, MasterTrainerStatus: ReviewStatusApproved}
	assert.Equal(t, ReviewStatusRejected, d.OverallStatus())

	d = Demo{TrainerStatus: ReviewStatusPending, MasterTrainerStatus: ReviewStatusRejected}
	assert.Equal(t, ReviewStatusRejected, d.OverallStatus())
}

func TestAssignmentTotalSeconds(t *testing.T) {
	a := Assignment{QuestionTimeSec: []int{30, 45, 25}}
	assert.Equal(t, 100, a.TotalSeconds())

	a = Assignment{}
	assert.Equal(t, 0, a.TotalSeconds())
}
