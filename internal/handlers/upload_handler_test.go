package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"bistro-pos/internal/database"
	"bistro-pos/internal/models"
	"bistro-pos/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseRestockRowsHeaderAliases(t *testing.T) {
	rows := [][]string{
		{"Product", "Qty", "UOM"},
		{"Rice", "5", "kg"},
		{"Vinegar", "2", "L"},
	}
	parsed, warnings := ParseRestockRows(rows)
	require.Len(t, parsed, 2)
	assert.Empty(t, warnings)
	assert.Equal(t, "Rice", parsed[0].ItemName)
	assert.Equal(t, 5.0, parsed[0].Quantity)
	assert.Equal(t, "kg", parsed[0].Unit)
}

func TestParseRestockRowsSkipsAndWarns(t *testing.T) {
	rows := [][]string{
		{"Item Name", "Quantity", "Unit"},
		{"", "5", "kg"},          // blank name: skipped silently
		{"Eggs", "dozen", "pcs"}, // junk quantity: warned
		{"Flour", "3", "sack"},   // unknown unit: warned
		{"Sugar", "2", "kg"},
	}
	parsed, warnings := ParseRestockRows(rows)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Sugar", parsed[0].ItemName)
	assert.Len(t, warnings, 2)
}

func TestParseRestockRowsMissingUnitDefaultsToPieces(t *testing.T) {
	rows := [][]string{
		{"Name", "Stock"},
		{"Takeout Boxes", "200"},
	}
	parsed, warnings := ParseRestockRows(rows)
	require.Len(t, parsed, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, "pcs", parsed[0].Unit)
}

func TestParseRestockRowsEmptySheet(t *testing.T) {
	parsed, _ := ParseRestockRows(nil)
	assert.Empty(t, parsed)

	parsed, _ = ParseRestockRows([][]string{{"Name", "Qty"}})
	assert.Empty(t, parsed)
}

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, val))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func multipartUpload(t *testing.T, r *gin.Engine, path string, file *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "restock.xlsx")
	require.NoError(t, err)
	_, err = part.Write(file.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBulkRestockUploadRestocksAndCreates(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.DB.Create(&models.InventoryItem{
		Name: "Rice", QuantityBase: 1000, BaseUnit: units.Grams,
	}).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/inventory/bulk-upload", BulkRestockUpload)

	buf := buildWorkbook(t, [][]any{
		{"Item Name", "Quantity", "Unit"},
		{"Rice", 5, "kg"},
		{"Soy Sauce", 3, "L"},
	})
	w := multipartUpload(t, r, "/inventory/bulk-upload", buf)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Existing item restocked: 1000g + 5kg
	var rice models.InventoryItem
	require.NoError(t, database.DB.Where("name = ?", "Rice").First(&rice).Error)
	assert.Equal(t, 6000.0, rice.QuantityBase)

	// Unknown item created with converted base quantity
	var soy models.InventoryItem
	require.NoError(t, database.DB.Where("name = ?", "Soy Sauce").First(&soy).Error)
	assert.Equal(t, 3000.0, soy.QuantityBase)
	assert.Equal(t, units.Milliliters, soy.BaseUnit)
}

func TestBulkRestockUploadRejectsUselessFile(t *testing.T) {
	setupTestDB(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/inventory/bulk-upload", BulkRestockUpload)

	buf := buildWorkbook(t, [][]any{
		{"Item Name", "Quantity", "Unit"},
		{"", "", ""},
	})
	w := multipartUpload(t, r, "/inventory/bulk-upload", buf)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
