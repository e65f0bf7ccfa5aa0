package handlers

import (
	"io"
	"net/http"

	"bistro-pos/internal/delivery"

	"github.com/gin-gonic/gin"
)

// --- POST: /api/quotation ---
func GetDeliveryQuote(c *gin.Context) {
	client := delivery.NewFromEnv()
	if !client.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Delivery is not configured"})
		return
	}

	var req delivery.QuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Stops) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pickup and drop-off stops are required"})
		return
	}

	quote, err := client.Quote(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote.Data)
}

type DeliveryOrderRequest struct {
	QuotationID  string           `json:"quotation_id" binding:"required"`
	SenderStopID string           `json:"sender_stop_id" binding:"required"`
	RecipStopID  string           `json:"recipient_stop_id" binding:"required"`
	Sender       delivery.Contact `json:"sender" binding:"required"`
	Recipient    delivery.Contact `json:"recipient" binding:"required"`
}

// --- POST: /api/place-order ---
func PlaceDeliveryOrder(c *gin.Context) {
	client := delivery.NewFromEnv()
	if !client.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Delivery is not configured"})
		return
	}

	var req DeliveryOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	placed, err := client.PlaceOrder(c.Request.Context(), delivery.PlaceOrderRequest{
		QuotationID: req.QuotationID,
		Sender:      req.Sender,
		Recipient:   req.Recipient,
		SenderStop:  req.SenderStopID,
		RecipStop:   req.RecipStopID,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, placed.Data)
}

// --- POST: /api/webhook/lalamove ---
// Courier status callbacks. Unsigned or stale requests are dropped.
func DeliveryWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	ts := c.GetHeader("X-Request-Timestamp")
	sig := c.GetHeader("X-Request-Signature")
	if !delivery.NewFromEnv().ValidateWebhook(ts, sig, string(body)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	// Acknowledge; the POS polls order state rather than pushing to
	// terminals, so storing the raw event is enough for now.
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
