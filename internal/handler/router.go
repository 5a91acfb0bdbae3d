package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tcioe-dev/department-portal-api/internal/service"
)

// Routes bundles the handlers the portal API mounts.
type Routes struct {
	OTP        *OTPHandler
	Submission *SubmissionHandler
	Content    *ContentHandler
	Metrics    *service.MetricsService
}

// Register mounts every portal route under the given prefix.
func (rt Routes) Register(r *gin.Engine, prefix string) {
	api := r.Group(prefix)

	submissions := api.Group("/submissions")
	{
		otp := submissions.Group("/otp")
		otp.POST("/request", rt.OTP.Request)
		otp.POST("/verify", rt.OTP.Verify)
		otp.POST("/resend", rt.OTP.Resend)

		submissions.GET("/verification/status", rt.OTP.Status)
		submissions.POST("/project", rt.Submission.Project)
		submissions.POST("/research", rt.Submission.Research)
		submissions.POST("/journal", rt.Submission.Journal)
		submissions.POST("/form", rt.Submission.Form)
		submissions.POST("/contact", rt.Submission.Contact)
	}

	if rt.Content != nil {
		content := api.Group("/content")
		for _, resource := range service.Resources() {
			content.GET("/"+resource, rt.Content.List(resource))
		}
		content.GET("/alumni", rt.Content.Alumni)
		content.GET("/programs/:id/subjects", rt.Content.Subjects)
		content.GET("/departments/:code/slug", rt.Content.DepartmentSlug)

		api.GET("/forms/:slug", rt.Content.Form)
	}

	if rt.Metrics != nil {
		r.GET("/metrics", gin.WrapH(rt.Metrics.Handler()))
	}
}

// RegisterHealth mounts liveness and readiness probes at the root.
func RegisterHealth(r *gin.Engine, ready func() error) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if ready != nil {
			if err := ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
