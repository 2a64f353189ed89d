package router

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hackhub-dev/hackhub/db"
	"github.com/hackhub-dev/hackhub/internal/handlers"
	"github.com/hackhub-dev/hackhub/internal/metrics"
	"github.com/hackhub-dev/hackhub/internal/middleware"
	"github.com/hackhub-dev/hackhub/internal/services"
	"github.com/hackhub-dev/hackhub/internal/types"
)

func NewRouter(zapLogger *zap.Logger) *gin.Engine {
	logger := zapLogger.Sugar()

	memberships := services.NewMembershipService(logger, db.DB)
	submissions := services.NewSubmissionService(logger, db.DB)
	evaluations := services.NewEvaluationService(logger, db.DB)

	rankingsHub := handlers.NewRankingsHub(logger, evaluations)

	authHandler := handlers.NewAuthHandler(logger, db.DB)
	hackathonHandler := handlers.NewHackathonHandler(logger, db.DB)
	teamHandler := handlers.NewTeamHandler(logger, db.DB, memberships)
	projectHandler := handlers.NewProjectHandler(logger, submissions)
	evaluationHandler := handlers.NewEvaluationHandler(logger, evaluations, rankingsHub)
	dashboardHandler := handlers.NewDashboardHandler(logger, db.DB)

	r := gin.New()

	r.Use(ginzap.Ginzap(zapLogger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(zapLogger, true))
	r.Use(metrics.GinMiddleware)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/rankings/:hackathon_id", rankingsHub.Serve)
		api.GET("/dashboard", middleware.AuthMiddleware(), dashboardHandler.Get)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), authHandler.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), authHandler.UpdateProfile)
		}

		hackathons := api.Group("/hackathons")
		{
			hackathons.GET("", hackathonHandler.List)
			hackathons.GET("/:hackathon_id", middleware.OptionalAuth(), hackathonHandler.Get)
			hackathons.GET("/:hackathon_id/rankings", evaluationHandler.Rankings)

			organizerOnly := hackathons.Group("", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleOrganizer))
			{
				organizerOnly.POST("", hackathonHandler.Create)
				organizerOnly.PATCH("/:hackathon_id", hackathonHandler.Update)
				organizerOnly.POST("/:hackathon_id/jury", hackathonHandler.AssignJury)
				organizerOnly.GET("/:hackathon_id/jury", hackathonHandler.ListJury)
			}

			hackathons.POST("/:hackathon_id/teams", middleware.AuthMiddleware(), teamHandler.Create)

			juryOnly := hackathons.Group("", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleJury))
			{
				juryOnly.GET("/:hackathon_id/projects", evaluationHandler.ProjectsToEvaluate)
			}
		}

		teams := api.Group("/teams", middleware.AuthMiddleware())
		{
			teams.GET("/:team_id", teamHandler.Get)
			teams.PATCH("/:team_id", teamHandler.Update)
			teams.POST("/:team_id/join", teamHandler.RequestJoin)
			teams.GET("/:team_id/requests", teamHandler.PendingRequests)
			teams.POST("/:team_id/project", projectHandler.Submit)
			teams.GET("/:team_id/project", projectHandler.Get)
		}

		requests := api.Group("/requests", middleware.AuthMiddleware())
		{
			requests.POST("/:request_id/approve", teamHandler.ApproveRequest)
			requests.POST("/:request_id/reject", teamHandler.RejectRequest)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleJury))
		{
			projects.POST("/:project_id/evaluation", evaluationHandler.Evaluate)
			projects.GET("/:project_id/evaluation", evaluationHandler.Own)
		}
	}

	return r
}
