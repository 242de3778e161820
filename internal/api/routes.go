package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/service"

	"github.com/gin-gonic/gin"
)

// RouterDeps bundles everything SetupRoutes needs.
type RouterDeps struct {
	JWTSecret         string
	ExposeDiagnostics bool

	AuthService    service.AuthService
	TrainerService service.TrainerService
	JoinerService  service.JoinerService
	ResultService  service.ResultService
	ReportService  service.ReportService
	DayPlanService service.DayPlanService
	DemoService    service.DemoService
}

// SetupRoutes mounts the full API surface on the router.
func SetupRoutes(router *gin.Engine, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthService)
	trainerHandler := NewTrainerHandler(deps.TrainerService)
	joinerHandler := NewJoinerHandler(deps.JoinerService)
	resultHandler := NewResultHandler(deps.ResultService)
	reportHandler := NewReportHandler(deps.ReportService)
	planHandler := NewDayPlanHandler(deps.DayPlanService)
	demoHandler := NewDemoHandler(deps.DemoService)

	authMiddleware := AuthMiddleware(deps.JWTSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Diagnostics stay off unless explicitly enabled in config.
	if deps.ExposeDiagnostics {
		start := time.Now()
		router.GET("/diagnostics", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"uptime":     time.Since(start).String(),
				"goroutines": runtime.NumGoroutine(),
				"goVersion":  runtime.Version(),
			})
		})
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			authorID, _ := getAuthorIDFromContext(c)
			role, _ := getUserRoleFromContext(c)
			respond(c, http.StatusOK, "profile fetched", gin.H{"userId": userIDStr, "authorId": authorID, "role": role})
		})

		// --- Joiner Routes ---
		// Bulk ingestion and onboarding are back-office operations.
		joinerGroup := protected.Group("/joiners")
		{
			staffOnly := RoleMiddleware(domain.RoleAdmin, domain.RoleBOA)
			joinerGroup.POST("/bulk", staffOnly, joinerHandler.BulkIngest)
			joinerGroup.POST("/sheet-sync", staffOnly, joinerHandler.SheetSync)
			joinerGroup.POST("", staffOnly, joinerHandler.Create)
			joinerGroup.GET("", staffOnly, joinerHandler.List)
			joinerGroup.GET("/:authorId", staffOnly, joinerHandler.GetByAuthorID)
			joinerGroup.PUT("/:authorId/checklist", staffOnly, joinerHandler.UpdateChecklist)
		}

		// --- Trainee Assignment Routes ---
		// A trainee's day plans are only reviewable by their assigned
		// trainer, so back-office staff wire the relation here.
		traineeGroup := protected.Group("/trainees")
		{
			traineeGroup.POST("/assign", RoleMiddleware(domain.RoleAdmin, domain.RoleBOA), trainerHandler.AssignTrainee)
			traineeGroup.GET("", RoleMiddleware(domain.RoleTrainer, domain.RoleMasterTrainer), trainerHandler.ListMine)
		}

		// --- Result Routes ---
		resultGroup := protected.Group("/results")
		{
			resultGroup.POST("/bulk", RoleMiddleware(domain.RoleAdmin, domain.RoleBOA, domain.RoleTrainer), resultHandler.BulkUpload)
			resultGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin), resultHandler.Correct)
		}

		// --- Report Routes ---
		reportGroup := protected.Group("/reports")
		{
			reportGroup.GET("/candidate/:authorId",
				RoleMiddleware(domain.RoleAdmin, domain.RoleBOA, domain.RoleTrainer, domain.RoleMasterTrainer),
				reportHandler.CandidateDashboard)
		}

		// --- Day Plan Routes ---
		planGroup := protected.Group("/dayplans")
		{
			traineeOnly := RoleMiddleware(domain.RoleTrainee)
			trainerOnly := RoleMiddleware(domain.RoleTrainer, domain.RoleMasterTrainer)

			planGroup.POST("", traineeOnly, planHandler.Create)
			planGroup.GET("", traineeOnly, planHandler.List)
			planGroup.GET("/:id", planHandler.Get)
			planGroup.POST("/:id/submit", traineeOnly, planHandler.Submit)
			planGroup.POST("/:id/review", trainerOnly, planHandler.Review)
			planGroup.POST("/:id/eod", traineeOnly, planHandler.SubmitEOD)
			planGroup.POST("/:id/eod-review", trainerOnly, planHandler.ReviewEOD)
		}

		// --- Demo Routes ---
		demoGroup := protected.Group("/demos")
		{
			demoGroup.POST("/upload-url", RoleMiddleware(domain.RoleTrainee), demoHandler.RequestUploadURL)
			demoGroup.POST("", RoleMiddleware(domain.RoleTrainee), demoHandler.Register)
			demoGroup.GET("", RoleMiddleware(domain.RoleTrainee), demoHandler.ListMine)
			demoGroup.DELETE("/:id", RoleMiddleware(domain.RoleTrainee), demoHandler.Delete)
			demoGroup.GET("/:id/recording-url", demoHandler.RecordingURL)
			// One review route; the handler dispatches on the caller's role.
			demoGroup.PATCH("/:id/review",
				RoleMiddleware(domain.RoleTrainer, domain.RoleMasterTrainer),
				demoHandler.Review)
		}
	}
}
