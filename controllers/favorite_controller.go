package controllers

import (
	"net/http"
	"strconv"

	"preggy/config"
	"preggy/models"

	"github.com/gin-gonic/gin"
)

// POST /food/:id/favorite
func AddFavorite(c *gin.Context) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	var food models.Food
	if err := config.DB.First(&food, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}

	fav := models.Favorite{UserID: uid, FoodID: food.ID}
	if err := config.DB.Where(&models.Favorite{UserID: uid, FoodID: food.ID}).
		FirstOrCreate(&fav).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "favorite saved"})
}

// GET /user/favorites
func ListFavorites(c *gin.Context) {
	uid := c.GetUint("userID")

	var favs []models.Favorite
	if err := config.DB.Preload("Food").Where("user_id = ?", uid).Find(&favs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	foods := make([]models.Food, 0, len(favs))
	for _, f := range favs {
		foods = append(foods, f.Food)
	}
	c.JSON(http.StatusOK, foods)
}

// DELETE /food/:id/favorite
func RemoveFavorite(c *gin.Context) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	if err := config.DB.Where("user_id = ? AND food_id = ?", uid, uint(id)).
		Delete(&models.Favorite{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "favorite removed"})
}
