package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"preggy/services"
	"preggy/utils"

	"github.com/gin-gonic/gin"
)

// FoodController carries the shared lookup service; the optional Gemini
// client is wired in at router setup.
type FoodController struct {
	Foods *services.FoodService
}

func NewFoodController(foods *services.FoodService) *FoodController {
	return &FoodController{Foods: foods}
}

// GET /food/search?q=salmon
func (fc *FoodController) Search(c *gin.Context) {
	out, err := fc.Foods.Search(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /food/recognize  { "image_base64": "data:image/jpeg;base64,..." }
func (fc *FoodController) Recognize(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	out, err := fc.Foods.Recognize(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /food/:id — the validated detail variant for one catalog entry.
func (fc *FoodController) Details(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	verdict, err := fc.Foods.Details(uint(id))
	if err != nil {
		if errors.Is(err, utils.ErrMalformedRecord) {
			// never partially rendered; the app shows its fallback state
			c.JSON(http.StatusBadGateway, gin.H{"error": "details unavailable"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, verdict)
}
