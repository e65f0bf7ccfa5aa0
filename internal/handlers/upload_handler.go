package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bistro-pos/internal/database"
	"bistro-pos/internal/inventory"
	"bistro-pos/internal/models"
	"bistro-pos/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column header aliases accepted in restock spreadsheets, all matched
// case-insensitively.
var (
	nameHeaders     = []string{"item name", "name", "item", "product"}
	quantityHeaders = []string{"restock quantity", "quantity", "qty", "amount", "current stock", "stock"}
	unitHeaders     = []string{"unit of measure", "unit", "uom"}
	expiryHeaders   = []string{"expiration date", "expiration", "exp date"}
)

// RestockRow is one parsed spreadsheet row.
type RestockRow struct {
	ItemName       string
	Quantity       float64
	Unit           string
	ExpirationDate *time.Time
}

// --- POST: Bulk restock from an uploaded spreadsheet ---
// Invalid rows are skipped and reported as warnings; items that don't exist
// yet are created. Only a spreadsheet with zero usable rows is an error.
func BulkRestockUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is not a valid spreadsheet"})
		return
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Spreadsheet has no sheets"})
		return
	}
	rawRows, err := workbook.GetRows(sheets[0])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read spreadsheet rows"})
		return
	}

	rows, warnings := ParseRestockRows(rawRows)
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "No valid restock data found in the file. Ensure it has an Item Name column and a Quantity/Stock column with numeric values.",
			"warnings": warnings,
		})
		return
	}

	processed := 0
	created := 0
	for _, row := range rows {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var item models.InventoryItem
			findErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("name = ?", row.ItemName).First(&item).Error

			if findErr == gorm.ErrRecordNotFound {
				// Unknown item: create it instead of rejecting the row
				baseUnit, err := units.BaseUnitOf(row.Unit)
				if err != nil {
					return err
				}
				quantityBase, err := units.ToBase(row.Quantity, row.Unit, 0)
				if err != nil {
					return err
				}
				now := time.Now()
				item = models.InventoryItem{
					Name:                row.ItemName,
					QuantityBase:        quantityBase,
					BaseUnit:            baseUnit,
					LastRestockQuantity: quantityBase,
					LastRestockDate:     &now,
					ExpirationDate:      row.ExpirationDate,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				created++
				return inventory.UpdateStatusAndNotify(tx, &item)
			}
			if findErr != nil {
				return findErr
			}

			return inventory.ApplyRestock(tx, &item, row.Quantity, row.Unit, row.ExpirationDate, "bulk-upload")
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Row for %q failed: %v", row.ItemName, err))
			continue
		}
		processed++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Processed %d rows (%d new items)", processed, created),
		"processed": processed,
		"created":   created,
		"warnings":  warnings,
	})
}

// ParseRestockRows turns raw sheet rows into restock rows, collecting one
// warning per skipped row. The first row must be the header.
func ParseRestockRows(rawRows [][]string) ([]RestockRow, []string) {
	var warnings []string
	if len(rawRows) < 2 {
		return nil, []string{"Spreadsheet has no data rows"}
	}

	nameCol := findColumn(rawRows[0], nameHeaders)
	qtyCol := findColumn(rawRows[0], quantityHeaders)
	unitCol := findColumn(rawRows[0], unitHeaders)
	expiryCol := findColumn(rawRows[0], expiryHeaders)

	if nameCol < 0 || qtyCol < 0 {
		return nil, []string{"Missing required Item Name or Quantity column"}
	}

	var rows []RestockRow
	for i, raw := range rawRows[1:] {
		rowNum := i + 2 // 1-based, after the header

		name := strings.TrimSpace(cell(raw, nameCol))
		if name == "" {
			continue // blank/spacer rows are not worth a warning
		}

		qtyText := strings.TrimSpace(cell(raw, qtyCol))
		qty, err := strconv.ParseFloat(qtyText, 64)
		if qtyText == "" || err != nil || qty <= 0 {
			warnings = append(warnings, fmt.Sprintf("Row %d (%s): invalid quantity %q, skipped", rowNum, name, qtyText))
			continue
		}

		unit := strings.TrimSpace(cell(raw, unitCol))
		if unit == "" {
			unit = "pcs"
		}
		if _, err := units.BaseUnitOf(unit); err != nil {
			warnings = append(warnings, fmt.Sprintf("Row %d (%s): %v, skipped", rowNum, name, err))
			continue
		}

		row := RestockRow{ItemName: name, Quantity: qty, Unit: unit}
		if expiryCol >= 0 {
			if exp, ok := parseDate(strings.TrimSpace(cell(raw, expiryCol))); ok {
				row.ExpirationDate = &exp
			}
		}
		rows = append(rows, row)
	}
	return rows, warnings
}

func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		for _, alias := range aliases {
			if normalized == alias {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
