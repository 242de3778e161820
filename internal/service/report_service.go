package service

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/repository"
)

// subjectCurriculum maps fortnight exam ordinals (1..10) onto the fixed
// curriculum. Ordinals outside the table and non-fortnight exams fall
// back to free-text matching.
var subjectCurriculum = []string{
	"Static",
	"Responsive",
	"JavaScript",
	"Database",
	"Python",
	"API",
	"React",
	"Deployment",
	"Aptitude",
	"Mini projects",
}

// SubjectReport summarizes every attempt attributed to one subject.
type SubjectReport struct {
	Attempts       int    `json:"attempts"`
	Passed         int    `json:"passed"`
	Failed         int    `json:"failed"`
	LastPercentage int    `json:"lastPercentage"`
	LastStatus     string `json:"lastStatus"`
}

// GroomingSummary is the grooming rollup over the requested range.
type GroomingSummary struct {
	GoodDays    int    `json:"goodDays"`
	AverageDays int    `json:"averageDays"`
	Overall     string `json:"overall"`
}

// DemoSummary counts demos by composed overall status.
type DemoSummary struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// CandidateReport is the flat dashboard object for one person and date
// range, suitable for direct rendering.
type CandidateReport struct {
	AuthorID           string                   `json:"authorId"`
	From               time.Time                `json:"from"`
	To                 time.Time                `json:"to"`
	TotalLearningHours float64                  `json:"totalLearningHours"`
	DailyAverageHours  float64                  `json:"dailyAverageHours"`
	TotalAttempts      int                      `json:"totalAttempts"`
	TotalPassed        int                      `json:"totalPassed"`
	Subjects           map[string]SubjectReport `json:"subjects"`
	Grooming           GroomingSummary          `json:"grooming"`
	Demos              DemoSummary              `json:"demos"`
	DayPlansCompleted  int                      `json:"dayPlansCompleted"`
}

// ReportService builds candidate dashboards.
type ReportService interface {
	CandidateDashboard(ctx context.Context, authorID string, from, to time.Time) (*CandidateReport, error)
}

type reportService struct {
	resultRepo      repository.ResultRepository
	assignmentRepo  repository.AssignmentRepository
	observationRepo repository.ObservationRepository
	dayPlanRepo     repository.DayPlanRepository
	demoRepo        repository.DemoRepository
}

// NewReportService creates a new instance of reportService.
func NewReportService(
	resultRepo repository.ResultRepository,
	assignmentRepo repository.AssignmentRepository,
	observationRepo repository.ObservationRepository,
	dayPlanRepo repository.DayPlanRepository,
	demoRepo repository.DemoRepository,
) ReportService {
	return &reportService{
		resultRepo:      resultRepo,
		assignmentRepo:  assignmentRepo,
		observationRepo: observationRepo,
		dayPlanRepo:     dayPlanRepo,
		demoRepo:        demoRepo,
	}
}

// CandidateDashboard walks results, assignments, observations, day
// plans and demos for one person and derives the dashboard metrics.
// Every missing collection degrades to zero values rather than failing
// the whole report; fetch errors are logged and treated as empty.
func (s *reportService) CandidateDashboard(ctx context.Context, authorID string, from, to time.Time) (*CandidateReport, error) {
	report := &CandidateReport{
		AuthorID: authorID,
		From:     from,
		To:       to,
		Subjects: make(map[string]SubjectReport),
		Grooming: GroomingSummary{Overall: "Good"},
	}
	if authorID == "" {
		return report, nil
	}

	results, err := s.resultRepo.GetByAuthorID(ctx, authorID, from, to)
	if err != nil {
		log.Printf("WARN: dashboard results fetch failed for %s: %v", authorID, err)
	}
	assignments, err := s.assignmentRepo.GetByAuthorID(ctx, authorID, from, to)
	if err != nil {
		log.Printf("WARN: dashboard assignments fetch failed for %s: %v", authorID, err)
	}
	observations, err := s.observationRepo.GetByAuthorID(ctx, authorID, from, to)
	if err != nil {
		log.Printf("WARN: dashboard observations fetch failed for %s: %v", authorID, err)
	}
	plans, err := s.dayPlanRepo.GetByAuthorID(ctx, authorID, from, to)
	if err != nil {
		log.Printf("WARN: dashboard day plans fetch failed for %s: %v", authorID, err)
	}
	demos, err := s.demoRepo.GetByAuthorID(ctx, authorID)
	if err != nil {
		log.Printf("WARN: dashboard demos fetch failed for %s: %v", authorID, err)
	}

	// Learning hours: day-plan time (minutes) plus per-question time on
	// timed assessments (seconds), both converted to hours.
	planMinutes := 0
	for _, p := range plans {
		for _, t := range p.Tasks {
			planMinutes += t.TimeAllocatedMin
		}
		if p.Status == domain.DayPlanStatusCompleted {
			report.DayPlansCompleted++
		}
	}
	assessmentSeconds := 0
	for i := range assignments {
		assessmentSeconds += assignments[i].TotalSeconds()
	}
	report.TotalLearningHours = round2(float64(planMinutes)/60.0 + float64(assessmentSeconds)/3600.0)
	report.DailyAverageHours = round2(dailyAverage(report.TotalLearningHours, from, to))

	// Exam attempts, attributed to subjects.
	for _, r := range results {
		subject := SubjectForExam(r)
		sr := report.Subjects[subject]
		sr.Attempts++
		if r.Status == domain.ResultStatusPassed {
			sr.Passed++
			report.TotalPassed++
		} else {
			sr.Failed++
		}
		sr.LastPercentage = r.Percentage
		sr.LastStatus = string(r.Status)
		report.Subjects[subject] = sr
		report.TotalAttempts++
	}

	// Grooming rollup: per-day precedence first (any needs_improvement
	// collapses the day to Average), then the range inherits Average if
	// any day did.
	for i := range observations {
		if observations[i].GroomingRating() == "Average" {
			report.Grooming.AverageDays++
		} else {
			report.Grooming.GoodDays++
		}
	}
	if report.Grooming.AverageDays > 0 {
		report.Grooming.Overall = "Average"
	}

	for i := range demos {
		report.Demos.Total++
		switch demos[i].OverallStatus() {
		case domain.ReviewStatusApproved:
			report.Demos.Approved++
		case domain.ReviewStatusRejected:
			report.Demos.Rejected++
		default:
			report.Demos.Pending++
		}
	}

	return report, nil
}

// SubjectForExam attributes a result to a curriculum subject. Fortnight
// ordinals map through the fixed table; everything else falls back to a
// substring search of the exam name against the subject list, and
// finally to the raw exam name so no attempt is dropped.
func SubjectForExam(r domain.Result) string {
	if r.Family == domain.ExamFamilyFortnight && r.Ordinal >= 1 && r.Ordinal <= len(subjectCurriculum) {
		return subjectCurriculum[r.Ordinal-1]
	}
	lower := strings.ToLower(r.Exam)
	for _, subject := range subjectCurriculum {
		if strings.Contains(lower, strings.ToLower(subject)) {
			return subject
		}
	}
	return r.Exam
}

// dailyAverage divides total hours over the calendar days spanned by
// the range (ceiling). An invalid or empty range yields zero.
func dailyAverage(totalHours float64, from, to time.Time) float64 {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return 0
	}
	days := int(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return totalHours / float64(days)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
