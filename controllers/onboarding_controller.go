package controllers

import (
	"net/http"

	"preggy/services"

	"github.com/gin-gonic/gin"
)

// POST /user/onboarding
// Accepts a due date, or a trimester with an optional current week; the
// service derives the consistent (week, trimester, due date) triple.
func CompleteOnboarding(c *gin.Context) {
	email := c.GetString("email")

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.CompleteOnboarding(email, input); err != nil {
		respondStageError(c, err)
		return
	}

	profile, err := services.GetUserProfile(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
