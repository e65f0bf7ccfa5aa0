package handlers

import (
	"fmt"
	"net/http"

	"bistro-pos/internal/database"
	"bistro-pos/internal/mailer"
	"bistro-pos/internal/models"
	"bistro-pos/internal/otp"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var otpStore = otp.NewStore()

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// --- POST: /api/send-password-reset-otp ---
// Always responds 200 so the endpoint cannot be used to probe which
// emails have accounts.
func SendPasswordResetOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		code, err := otpStore.Issue(req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate code"})
			return
		}
		body := fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes.", code)
		if err := mailer.NewFromEnv().Send(c.Request.Context(), req.Email, "Password Reset Code", body); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a code has been sent"})
}

type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// --- POST: /api/verify-password-reset-otp ---
func VerifyPasswordResetOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and code are required"})
		return
	}

	if err := otpStore.Verify(req.Email, req.Code); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	// Verified: hand back a single-use code for the actual reset call.
	code, err := otpStore.Issue(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code verified", "reset_code": code})
}

type PasswordResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// --- POST: /api/reset-password ---
func ResetPassword(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, code and a password of at least 8 characters are required"})
		return
	}

	if err := otpStore.Verify(req.Email, req.Code); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := database.DB.Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
