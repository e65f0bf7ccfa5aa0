package analytics

import (
	"regexp"
	"sort"
	"strings"

	"bistro-pos/internal/models"
	"bistro-pos/internal/orders"
)

// Summary is the sales snapshot behind the analytics dashboard cards.
type Summary struct {
	OrderCount        int                `json:"order_count"`
	GrossSales        float64            `json:"gross_sales"`
	TotalDiscount     float64            `json:"total_discount"`
	TotalTax          float64            `json:"total_tax"`
	NetSales          float64            `json:"net_sales"` // gross - discount - tax
	DishCount         int                `json:"dish_count"`
	GuestCount        int                `json:"guest_count"`
	AverageOrderValue float64            `json:"average_order_value"`
	PaymentMethods    map[string]float64 `json:"payment_methods"`
	TotalCollection   float64            `json:"total_collection"`
	TopProducts       []ProductSales     `json:"top_products"`
}

// ProductSales is one row of the top-products ranking.
type ProductSales struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

var maskedCardPattern = regexp.MustCompile(`\d{4}|\*{4}`)

// NormalizePaymentMethod buckets a raw payment-method string into
// Cash / GCash / Card. Ambiguous strings that look like a masked card
// number go to Card, everything else defaults to Cash.
func NormalizePaymentMethod(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(lower, "gcash"):
		return "GCash"
	case strings.Contains(lower, "cash"):
		return "Cash"
	case strings.Contains(lower, "card"),
		strings.Contains(lower, "visa"),
		strings.Contains(lower, "master"),
		strings.Contains(lower, "credit"):
		return "Card"
	case maskedCardPattern.MatchString(lower):
		return "Card"
	default:
		return "Cash"
	}
}

// Summarize folds a set of orders into the dashboard summary. Orders whose
// status does not normalize (cancelled, unknown) are excluded from every
// figure. An empty input yields a zero summary, never an error.
func Summarize(orderList []models.Order) Summary {
	summary := Summary{
		PaymentMethods: map[string]float64{"Cash": 0, "GCash": 0, "Card": 0, "Other": 0},
	}

	productSales := make(map[string]*ProductSales)

	for _, o := range orderList {
		if _, ok := orders.NormalizeStatus(o.Status); !ok {
			continue
		}
		summary.OrderCount++

		// Use the order total if present, otherwise sum line items
		orderTotal := o.Total
		if orderTotal == 0 {
			for _, item := range o.Items {
				line := item.LineTotal
				if line == 0 {
					line = item.UnitPrice * float64(item.Quantity)
				}
				orderTotal += line
			}
		}
		summary.GrossSales += orderTotal
		summary.TotalDiscount += o.Discount
		summary.TotalTax += o.Tax
		summary.GuestCount += o.PaxNumber

		for _, item := range o.Items {
			qty := item.Quantity
			if qty == 0 {
				qty = 1
			}
			summary.DishCount += qty

			if item.Name == "" {
				continue
			}
			sale, exists := productSales[item.Name]
			if !exists {
				sale = &ProductSales{Name: item.Name}
				productSales[item.Name] = sale
			}
			sale.Quantity += qty
			sale.Revenue += item.UnitPrice * float64(qty)
		}

		summary.PaymentMethods[NormalizePaymentMethod(o.PaymentMethod)] += paidAmount(o)
	}

	summary.NetSales = summary.GrossSales - summary.TotalDiscount - summary.TotalTax
	summary.TotalCollection = summary.PaymentMethods["Cash"] +
		summary.PaymentMethods["GCash"] + summary.PaymentMethods["Card"]
	if summary.OrderCount > 0 {
		summary.AverageOrderValue = summary.GrossSales / float64(summary.OrderCount)
	}
	summary.TopProducts = topProducts(productSales, 5)

	return summary
}

// topProducts ranks by quantity sold, breaking ties by revenue.
func topProducts(sales map[string]*ProductSales, limit int) []ProductSales {
	ranked := make([]ProductSales, 0, len(sales))
	for _, s := range sales {
		ranked = append(ranked, *s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// paidAmount prefers the tendered payment total, falling back to the
// order total.
func paidAmount(o models.Order) float64 {
	if o.PaymentTotal != 0 {
		return o.PaymentTotal
	}
	return o.Total
}
