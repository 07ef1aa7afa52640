package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamage-recruiters/platform/internal/app/controllers"
	"github.com/gamage-recruiters/platform/internal/middleware"
)

// Handlers groups the controllers and middleware the router needs
type Handlers struct {
	Auth        *controllers.AuthController
	OAuth       *controllers.OAuthController
	User        *controllers.UserController
	Job         *controllers.JobController
	Application *controllers.ApplicationController
	Workshop    *controllers.WorkshopController
	Admin       *controllers.AdminController

	AuthMiddleware *middleware.AuthMiddleware
	OTPLimiter     *middleware.IPRateLimiter
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers) {
	authn := h.AuthMiddleware.JWTAuth()
	admin := h.AuthMiddleware.AdminRequired()
	selfOrAdmin := h.AuthMiddleware.SelfOrAdmin("userId")

	// --- Auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/logout", h.Auth.Logout)
		auth.GET("/check", h.Auth.Check)

		// Federated login
		auth.GET("/:provider", h.OAuth.Redirect)
		auth.GET("/:provider/callback", h.OAuth.Callback)
	}

	router.GET("/session/profile-data", authn, h.Auth.ProfileData)

	// --- Jobs ---
	jobs := router.Group("/api/jobs")
	{
		jobs.GET("", h.Job.ListJobs)
		jobs.GET("/latest", h.Job.LatestJobs)
		jobs.GET("/:jobId", h.Job.GetJob)

		jobs.GET("/applied/:userId", authn, selfOrAdmin, h.Job.AppliedJobs)
		jobs.GET("/applied/count/:userId", authn, selfOrAdmin, h.Job.CountAppliedJobs)

		jobsAdmin := jobs.Group("", authn, admin)
		{
			jobsAdmin.GET("/statistics", h.Job.Statistics)
			jobsAdmin.GET("/resumes/:jobId", h.Job.Resumes)
			jobsAdmin.GET("/export", h.Job.Export)
			jobsAdmin.POST("/addjob", h.Job.AddJob)
			jobsAdmin.PUT("/update/:jobId", h.Job.UpdateJob)
			jobsAdmin.DELETE("/delete/:jobId", h.Job.DeleteJob)
		}
	}

	// --- Job applications ---
	applications := router.Group("/api/jobapplications")
	{
		// Identity is checked against the registered user named in the form
		applications.POST("/apply", h.Application.Apply)

		applicationsAdmin := applications.Group("", authn, admin)
		{
			applicationsAdmin.GET("", h.Application.ListApplications)
			applicationsAdmin.GET("/:id", h.Application.GetApplication)
			applicationsAdmin.DELETE("/:id", h.Application.DeleteApplication)
		}
	}

	// --- Workshops ---
	workshops := router.Group("/api/workshops")
	{
		workshops.GET("", h.Workshop.ListWorkshops)
		workshops.GET("/latest", h.Workshop.LatestWorkshops)
		workshops.GET("/:id", h.Workshop.GetWorkshop)

		workshopsAdmin := workshops.Group("", authn, admin)
		{
			workshopsAdmin.POST("", h.Workshop.CreateWorkshop)
			workshopsAdmin.PUT("/:id", h.Workshop.UpdateWorkshop)
			workshopsAdmin.DELETE("/:id", h.Workshop.DeleteWorkshop)
		}
	}

	// --- User profile ---
	user := router.Group("/user")
	{
		otp := user.Group("", h.OTPLimiter.Middleware())
		{
			otp.POST("/sendOTP", h.User.SendOTP)
			otp.POST("/verifyOTP", h.User.VerifyOTP)
		}
		user.POST("/subscribe-newsletter", h.User.SubscribeNewsletter)

		userAuth := user.Group("", authn)
		{
			userAuth.GET("/:userId", selfOrAdmin, h.User.GetUser)
			userAuth.PUT("/update-user-data/:userId", selfOrAdmin, h.User.UpdateUserData)
			userAuth.PUT("/upload-user-image", h.User.UploadImage)
			userAuth.PUT("/update-user-cv", h.User.UpdateCV)
			userAuth.POST("/change-password", h.User.ChangePassword)
			userAuth.DELETE("/delete-profile/:userId", selfOrAdmin, h.User.DeleteProfile)
			userAuth.GET("/recent-activity/:userId", selfOrAdmin, h.User.RecentActivity)
			userAuth.GET("/recent-job-activity/:userId", selfOrAdmin, h.User.RecentJobActivity)
		}
	}

	// --- Admin ---
	adminGroup := router.Group("/admin")
	{
		adminGroup.POST("/login", h.Auth.AdminLogin)
		adminGroup.GET("/logout", h.Auth.Logout)

		adminAuth := adminGroup.Group("", authn, admin)
		{
			adminAuth.POST("/register", h.Admin.Register)
			adminAuth.GET("", h.Admin.List)
			adminAuth.GET("/users", h.User.ListUsers)
			adminAuth.DELETE("/users/:userId", h.User.DeleteProfile)
			adminAuth.GET("/:adminId", h.Admin.Get)
			adminAuth.PUT("/update/:adminId", h.Admin.Update)
			adminAuth.DELETE("/delete/:adminId", h.Admin.Delete)
		}
	}

	// Health check endpoint (public)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
