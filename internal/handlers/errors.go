package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/repos"
)

// writeError maps service errors onto status codes: a version conflict
// is 409, an illegal lifecycle transition is 422, a missing row is 404,
// everything else is a 400 from the caller's perspective.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repos.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
