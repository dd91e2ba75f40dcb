package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/gin-gonic/gin"
)

// assessResponse is the body of a successful assessment.
type assessResponse struct {
	schema.Assessment
	Advice string `json:"advice"`
}

func (s *Server) handleAssess(c *gin.Context) {
	if s.assessor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": schema.ErrModelNotLoaded.Error()})
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.metrics.observe(outcomeInvalid, "", 0)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	start := time.Now()
	assessment, err := s.assessor.Assess(schema.RawInputFromAny(body))
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			s.metrics.observe(outcomeInvalid, "", 0)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid input",
				"field":   verr.Field,
				"details": err.Error(),
			})
			return
		}
		s.metrics.observe(outcomeError, "", 0)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "assessment failed",
			"details": err.Error(),
		})
		return
	}

	s.metrics.observe(outcomeOK, assessment.Result.Tier, time.Since(start))
	c.JSON(http.StatusOK, assessResponse{Assessment: assessment, Advice: assessment.Result.Tier.Advice()})
}

func (s *Server) handleSchema(c *gin.Context) {
	resp := gin.H{"fields": schema.Fields}
	if s.assessor != nil {
		resp["model"] = s.assessor.Describe()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	resp := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}
	if s.assessor == nil {
		status = http.StatusServiceUnavailable
		resp["status"] = "unavailable"
	} else {
		resp["model_id"] = s.assessor.Model().Info.ModelID
	}
	c.JSON(status, resp)
}
