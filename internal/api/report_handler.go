package api

import (
	"net/http"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service dependency.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CandidateDashboard returns the aggregated dashboard for one person.
// Date range comes from ?start_date= and ?end_date= (YYYY-MM-DD); a
// missing or malformed range degrades to zero averages rather than
// failing the request.
func (h *ReportHandler) CandidateDashboard(c *gin.Context) {
	authorID := c.Param("authorId")

	from := parseDateQuery(c.Query("start_date"))
	to := parseDateQuery(c.Query("end_date"))
	if !to.IsZero() {
		// Make the end date inclusive of the whole day.
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	report, err := h.reportService.CandidateDashboard(c.Request.Context(), authorID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	respond(c, http.StatusOK, "dashboard generated", gin.H{"report": report})
}

func parseDateQuery(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
