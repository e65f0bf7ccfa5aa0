package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bistro-pos/internal/database"
	"bistro-pos/internal/inventory"
	"bistro-pos/internal/models"
	"bistro-pos/internal/units"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the kitchen assistant for a restaurant POS.

	RULES:
	1. STOCK: If a user asks how much of an ingredient is left, call 'check_inventory'
	   and read the JSON to answer. Quantities are already in display units (kg, L, pcs, box).
	2. RESTOCK: If a user asks what needs restocking or what is empty, call
	   'check_restock_levels'. Do NOT guess from memory.
	3. SALES: If the user asks for sales or revenue figures, use 'get_sales_summary'
	   with a date range. Default to today if no range is given.

	USER: %s`, today, userMessage)

	// --- DEFINE TOOLS ---
	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full ingredient inventory with display quantities, units and stock status.",
				},
				{
					Name:        "check_restock_levels",
					Description: "List only the ingredients that are empty or below their restock threshold.",
				},
				{
					Name:        "get_sales_summary",
					Description: "Get total sales revenue and order count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// --- HANDLE TOOL CALLS ---
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {

			// TOOL 1: Full Inventory
			if funcCall.Name == "check_inventory" {
				return executeCheckInventory(ctx, session, false), nil
			}

			// TOOL 2: Restock Shortlist
			if funcCall.Name == "check_restock_levels" {
				return executeCheckInventory(ctx, session, true), nil
			}

			// TOOL 3: Sales Summary
			if funcCall.Name == "get_sales_summary" {
				return executeSalesSummary(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

// --- HELPER FUNCTIONS ---

type stockLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Status   string  `json:"status"`
}

func executeCheckInventory(ctx context.Context, session *genai.ChatSession, restockOnly bool) string {
	var items []models.InventoryItem
	database.DB.Order("name asc").Find(&items)

	var lines []stockLine
	for _, item := range items {
		status := inventory.Classify(item.QuantityBase, item.BaseUnit)
		if restockOnly && status == inventory.StatusSteady {
			continue
		}
		display := units.FromBase(item.QuantityBase, item.BaseUnit, item.PiecesPerBox)
		lines = append(lines, stockLine{
			Name:     item.Name,
			Quantity: display.Value,
			Unit:     display.Unit,
			Status:   string(status),
		})
	}

	jsonBytes, _ := json.Marshal(lines)

	toolName := "check_inventory"
	if restockOnly {
		toolName = "check_restock_levels"
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     toolName,
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "I could not fetch the inventory."
	}
	return printResponse(finalResp)
}

func executeSalesSummary(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr := args["start_date"].(string)
	endStr := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_summary",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"order_count": report.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
