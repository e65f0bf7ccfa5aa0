package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"bistro-pos/internal/database"
	"bistro-pos/internal/models"
	"bistro-pos/internal/units"

	"github.com/gin-gonic/gin"
)

// --- GET: List the menu with recipes ---
func GetMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := database.DB.Preload("Ingredients").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type MenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	Ingredients []struct {
		Name     string  `json:"name" binding:"required"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit" binding:"required"`
	} `json:"ingredients"`
}

// --- POST: Add a menu item with its recipe ---
func AddMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Validate recipe units up front so a dish never carries an
	// unconvertible ingredient into the kitchen flow.
	for _, ing := range req.Ingredients {
		if _, err := units.BaseUnitOf(ing.Unit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	item := models.MenuItem{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	for _, ing := range req.Ingredients {
		item.Ingredients = append(item.Ingredients, models.RecipeIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}

	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// --- PUT: Update a menu item (replaces the recipe if one is sent) ---
func UpdateMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	var item models.MenuItem
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	for _, ing := range req.Ingredients {
		if _, err := units.BaseUnitOf(ing.Unit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	updates := map[string]interface{}{
		"name":     req.Name,
		"price":    req.Price,
		"category": req.Category,
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}
	if err := database.DB.Model(&item).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}

	if len(req.Ingredients) > 0 {
		if err := database.DB.Where("menu_item_id = ?", item.ID).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace recipe"})
			return
		}
		for _, ing := range req.Ingredients {
			ingredient := models.RecipeIngredient{
				MenuItemID: item.ID,
				Name:       ing.Name,
				Quantity:   ing.Quantity,
				Unit:       ing.Unit,
			}
			if err := database.DB.Create(&ingredient).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace recipe"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated successfully"})
}

// --- DELETE: Remove a menu item and its recipe ---
func DeleteMenuItem(c *gin.Context) {
	id := c.Param("id")
	if err := database.DB.Where("menu_item_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete menu item recipe"})
		return
	}
	if err := database.DB.Delete(&models.MenuItem{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete menu item. It might be linked to past orders."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

// --- UPLOAD: Handle menu image files ---
func UploadImage(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// 2. Generate a safe unique filename
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	filepath := "./uploads/" + filename

	// 3. Save the file to the 'uploads' folder
	if err := c.SaveUploadedFile(file, filepath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}
