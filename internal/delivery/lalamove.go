// Package delivery integrates with the Lalamove on-demand courier API
// for take-out orders delivered to customers.
package delivery

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	sandboxHost    = "https://rest.sandbox.lalamove.com"
	productionHost = "https://rest.lalamove.com"
)

type Client struct {
	apiKey    string
	apiSecret string
	market    string
	host      string
	http      *http.Client
}

// NewFromEnv builds a client from LALAMOVE_API_KEY, LALAMOVE_API_SECRET
// and LALAMOVE_MARKET. LALAMOVE_ENV=production selects the live host;
// anything else stays on the sandbox.
func NewFromEnv() *Client {
	host := sandboxHost
	if os.Getenv("LALAMOVE_ENV") == "production" {
		host = productionHost
	}
	market := os.Getenv("LALAMOVE_MARKET")
	if market == "" {
		market = "PH"
	}
	return &Client{
		apiKey:    os.Getenv("LALAMOVE_API_KEY"),
		apiSecret: os.Getenv("LALAMOVE_API_SECRET"),
		market:    market,
		host:      host,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.apiSecret != ""
}

// Sign produces the request signature Lalamove expects: an HMAC-SHA256
// over "timestamp\r\nMETHOD\r\npath\r\n\r\nbody", hex encoded.
func Sign(secret string, timestamp int64, method, path, body string) string {
	raw := fmt.Sprintf("%d\r\n%s\r\n%s\r\n\r\n%s", timestamp, method, path, body)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body string
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = string(buf)
	}

	ts := time.Now().UnixMilli()
	signature := Sign(c.apiSecret, ts, method, path, body)

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, bytes.NewReader([]byte(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Market", c.market)
	req.Header.Set("Authorization", fmt.Sprintf("hmac %s:%d:%s", c.apiKey, ts, signature))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("lalamove returned status %d: %s", resp.StatusCode, string(raw))
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

type Coordinates struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type Stop struct {
	Coordinates Coordinates `json:"coordinates"`
	Address     string      `json:"address"`
}

type QuotationRequest struct {
	ServiceType string `json:"serviceType"`
	Language    string `json:"language"`
	Stops       []Stop `json:"stops"`
}

type QuotationResponse struct {
	Data struct {
		QuotationID    string `json:"quotationId"`
		PriceBreakdown struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"priceBreakdown"`
		Stops []struct {
			StopID string `json:"stopId"`
		} `json:"stops"`
	} `json:"data"`
}

// Quote asks for a delivery price between the restaurant and the
// customer's address.
func (c *Client) Quote(ctx context.Context, req QuotationRequest) (*QuotationResponse, error) {
	if req.ServiceType == "" {
		req.ServiceType = "MOTORCYCLE"
	}
	if req.Language == "" {
		req.Language = "en_PH"
	}
	var out QuotationResponse
	if err := c.do(ctx, http.MethodPost, "/v3/quotations", map[string]any{"data": req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PlaceOrderRequest struct {
	QuotationID string  `json:"quotationId"`
	Sender      Contact `json:"sender"`
	Recipient   Contact `json:"recipient"`
	SenderStop  string  `json:"-"`
	RecipStop   string  `json:"-"`
}

type PlaceOrderResponse struct {
	Data struct {
		OrderID  string `json:"orderId"`
		Status   string `json:"status"`
		ShareURL string `json:"shareLink"`
	} `json:"data"`
}

// PlaceOrder books a courier against a previously fetched quotation.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	payload := map[string]any{
		"data": map[string]any{
			"quotationId": req.QuotationID,
			"sender": map[string]any{
				"stopId": req.SenderStop,
				"name":   req.Sender.Name,
				"phone":  req.Sender.Phone,
			},
			"recipients": []map[string]any{{
				"stopId": req.RecipStop,
				"name":   req.Recipient.Name,
				"phone":  req.Recipient.Phone,
			}},
		},
	}
	var out PlaceOrderResponse
	if err := c.do(ctx, http.MethodPost, "/v3/orders", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateWebhook checks the signature on an incoming status callback.
// Timestamps older than five minutes are rejected to stop replays.
func (c *Client) ValidateWebhook(timestamp, signature, body string) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := time.Since(time.UnixMilli(ts))
	if age > 5*time.Minute || age < -5*time.Minute {
		return false
	}
	expected := Sign(c.apiSecret, ts, http.MethodPost, "/webhook", body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
