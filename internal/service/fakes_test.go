package service

import (
	"context"
	"strings"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes backing the service tests. They mirror the store's
// observable behavior (unique keys, partial bulk inserts) without
// needing a running MongoDB.

type fakeJoinerRepo struct {
	joiners []domain.Joiner
}

func (f *fakeJoinerRepo) Create(_ context.Context, j *domain.Joiner) (primitive.ObjectID, error) {
	for _, existing := range f.joiners {
		if existing.Email == j.Email || existing.AuthorID == j.AuthorID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	j.ID = primitive.NewObjectID()
	f.joiners = append(f.joiners, *j)
	return j.ID, nil
}

func (f *fakeJoinerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Joiner, error) {
	for i := range f.joiners {
		if f.joiners[i].ID == id {
			j := f.joiners[i]
			return &j, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeJoinerRepo) GetByAuthorID(_ context.Context, authorID string) (*domain.Joiner, error) {
	for i := range f.joiners {
		if f.joiners[i].AuthorID == authorID {
			j := f.joiners[i]
			return &j, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeJoinerRepo) List(_ context.Context, status domain.JoinerStatus) ([]domain.Joiner, error) {
	if status == "" {
		return append([]domain.Joiner(nil), f.joiners...), nil
	}
	var out []domain.Joiner
	for _, j := range f.joiners {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJoinerRepo) UpdateChecklist(_ context.Context, authorID string, checklist domain.OnboardingChecklist) error {
	for i := range f.joiners {
		if f.joiners[i].AuthorID == authorID {
			f.joiners[i].Checklist = checklist
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeJoinerRepo) UpdateStatus(_ context.Context, authorID string, status domain.JoinerStatus) error {
	for i := range f.joiners {
		if f.joiners[i].AuthorID == authorID {
			f.joiners[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeJoinerRepo) FindByEmails(_ context.Context, emails []string) ([]domain.Joiner, error) {
	want := make(map[string]bool, len(emails))
	for _, e := range emails {
		want[strings.ToLower(e)] = true
	}
	var out []domain.Joiner
	for _, j := range f.joiners {
		if want[strings.ToLower(j.Email)] {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJoinerRepo) FindByAuthorIDs(_ context.Context, authorIDs []string) ([]domain.Joiner, error) {
	want := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		want[id] = true
	}
	var out []domain.Joiner
	for _, j := range f.joiners {
		if want[j.AuthorID] {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJoinerRepo) InsertMany(_ context.Context, joiners []domain.Joiner) (repository.BulkInsertResult, error) {
	result := repository.BulkInsertResult{}
	for i, j := range joiners {
		dup := false
		for _, existing := range f.joiners {
			if existing.Email == j.Email || existing.AuthorID == j.AuthorID {
				dup = true
				break
			}
		}
		if dup {
			result.Failures = append(result.Failures, repository.BulkInsertFailure{Index: i, Message: "duplicate key"})
			continue
		}
		j.ID = primitive.NewObjectID()
		f.joiners = append(f.joiners, j)
		result.Inserted++
	}
	return result, nil
}

type fakeResultRepo struct {
	results []domain.Result
}

func (f *fakeResultRepo) Create(_ context.Context, r *domain.Result) (primitive.ObjectID, error) {
	r.ID = primitive.NewObjectID()
	f.results = append(f.results, *r)
	return r.ID, nil
}

func (f *fakeResultRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Result, error) {
	for i := range f.results {
		if f.results[i].ID == id {
			r := f.results[i]
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeResultRepo) Update(_ context.Context, result *domain.Result) error {
	for i := range f.results {
		if f.results[i].ID == result.ID {
			f.results[i] = *result
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeResultRepo) GetByAuthorID(_ context.Context, authorID string, from, to time.Time) ([]domain.Result, error) {
	var out []domain.Result
	for _, r := range f.results {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) FindExamKeys(_ context.Context, keys []string) ([]string, error) {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []string
	for _, r := range f.results {
		key := repository.ExamKey(r.AuthorID, r.Exam)
		if want[key] {
			out = append(out, key)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) InsertMany(_ context.Context, results []domain.Result) (repository.BulkInsertResult, error) {
	out := repository.BulkInsertResult{}
	for i, r := range results {
		dup := false
		for _, existing := range f.results {
			if existing.AuthorID == r.AuthorID && existing.Exam == r.Exam {
				dup = true
				break
			}
		}
		if dup {
			out.Failures = append(out.Failures, repository.BulkInsertFailure{Index: i, Message: "duplicate key"})
			continue
		}
		r.ID = primitive.NewObjectID()
		f.results = append(f.results, r)
		out.Inserted++
	}
	return out, nil
}

type fakeDayPlanRepo struct {
	plans []domain.TraineeDayPlan
}

func (f *fakeDayPlanRepo) Create(_ context.Context, plan *domain.TraineeDayPlan) (primitive.ObjectID, error) {
	for _, existing := range f.plans {
		if existing.AuthorID == plan.AuthorID && existing.Date.Equal(plan.Date) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	plan.ID = primitive.NewObjectID()
	f.plans = append(f.plans, *plan)
	return plan.ID, nil
}

func (f *fakeDayPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TraineeDayPlan, error) {
	for i := range f.plans {
		if f.plans[i].ID == id {
			p := f.plans[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDayPlanRepo) GetByAuthorAndDate(_ context.Context, authorID string, date time.Time) (*domain.TraineeDayPlan, error) {
	for i := range f.plans {
		if f.plans[i].AuthorID == authorID && f.plans[i].Date.Equal(date) {
			p := f.plans[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDayPlanRepo) GetByAuthorID(_ context.Context, authorID string, from, to time.Time) ([]domain.TraineeDayPlan, error) {
	var out []domain.TraineeDayPlan
	for _, p := range f.plans {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDayPlanRepo) Update(_ context.Context, plan *domain.TraineeDayPlan) error {
	for i := range f.plans {
		if f.plans[i].ID == plan.ID {
			f.plans[i] = *plan
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeUserRepo struct {
	users []domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, *u)
	return u.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByAuthorID(_ context.Context, authorID string) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].AuthorID == authorID {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) AddTraineeToTrainer(_ context.Context, trainerID, traineeID primitive.ObjectID) error {
	for i := range f.users {
		if f.users[i].ID == trainerID {
			f.users[i].TraineeIDs = append(f.users[i].TraineeIDs, traineeID)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) SetTrainerForTrainee(_ context.Context, traineeID, trainerID primitive.ObjectID) error {
	for i := range f.users {
		if f.users[i].ID == traineeID {
			id := trainerID
			f.users[i].TrainerID = &id
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) GetTraineesByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.TrainerID != nil && *u.TrainerID == trainerID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeObservationRepo struct {
	observations []domain.Observation
}

func (f *fakeObservationRepo) Create(_ context.Context, o *domain.Observation) (primitive.ObjectID, error) {
	o.ID = primitive.NewObjectID()
	f.observations = append(f.observations, *o)
	return o.ID, nil
}

func (f *fakeObservationRepo) GetByAuthorID(_ context.Context, authorID string, from, to time.Time) ([]domain.Observation, error) {
	var out []domain.Observation
	for _, o := range f.observations {
		if o.AuthorID == authorID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	assignments []domain.Assignment
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a *domain.Assignment) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	f.assignments = append(f.assignments, *a)
	return a.ID, nil
}

func (f *fakeAssignmentRepo) GetByAuthorID(_ context.Context, authorID string, from, to time.Time) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range f.assignments {
		if a.AuthorID == authorID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeDemoRepo struct {
	demos []domain.Demo
}

func (f *fakeDemoRepo) Create(_ context.Context, d *domain.Demo) (primitive.ObjectID, error) {
	d.ID = primitive.NewObjectID()
	f.demos = append(f.demos, *d)
	return d.ID, nil
}

func (f *fakeDemoRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Demo, error) {
	for i := range f.demos {
		if f.demos[i].ID == id {
			d := f.demos[i]
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDemoRepo) GetByAuthorID(_ context.Context, authorID string) ([]domain.Demo, error) {
	var out []domain.Demo
	for _, d := range f.demos {
		if d.AuthorID == authorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDemoRepo) Update(_ context.Context, demo *domain.Demo) error {
	for i := range f.demos {
		if f.demos[i].ID == demo.ID {
			f.demos[i] = *demo
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeDemoRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range f.demos {
		if f.demos[i].ID == id {
			f.demos = append(f.demos[:i], f.demos[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
