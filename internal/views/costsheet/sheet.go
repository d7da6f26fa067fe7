// Package costsheet renders recipe cost breakdowns as an HTML sheet and as an
// XLSX workbook.
package costsheet

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"backbar/internal/costing"
	"backbar/models"
)

// SheetRow is one priced recipe line.
type SheetRow struct {
	Order      int
	Ingredient string
	Amount     string
	Cost       string
	Outcome    string
	Note       string
	Attention  bool
}

// SheetData aggregates what the costing sheet and the export need.
type SheetData struct {
	RecipeID        uint
	RecipeName      string
	Category        string
	Glassware       string
	ABV             float64
	Rows            []SheetRow
	Total           string
	MenuPrice       string
	PourCostPercent string
	FullyCosted     bool
	Unresolved      int
}

// NewSheet flattens a recipe and its cost summary into display strings.
func NewSheet(recipe *models.Recipe, summary costing.Summary) SheetData {
	data := SheetData{
		RecipeID:    summary.RecipeID,
		RecipeName:  summary.RecipeName,
		Total:       costing.FormatMoney(summary.Total),
		FullyCosted: summary.FullyCosted,
		Unresolved:  summary.Unresolved,
	}
	if recipe != nil {
		data.Category = recipe.Category
		data.Glassware = recipe.Glassware
		data.ABV = recipe.ABV
	}
	if summary.MenuPrice > 0 {
		data.MenuPrice = costing.FormatMoney(summary.MenuPrice)
		data.PourCostPercent = strconv.FormatFloat(summary.PourCostPercent, 'f', 1, 64) + "%"
	}

	for i, line := range summary.Lines {
		row := SheetRow{
			Order:      i + 1,
			Ingredient: line.IngredientName,
			Amount:     FormatAmount(line.Amount, line.Unit),
			Outcome:    string(line.Outcome),
			Note:       line.Reason,
			Attention:  line.NeedsCostAttention,
		}
		if line.Outcome != costing.OutcomeUnresolved {
			row.Cost = costing.FormatMoney(line.Cost)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// FormatAmount renders an amount with at most two decimals and its unit.
// Unquantified pours show the unit alone.
func FormatAmount(amount float64, unit string) string {
	if amount <= 0 {
		return unit
	}
	value := strconv.FormatFloat(amount, 'f', 2, 64)
	value = strings.TrimRight(strings.TrimRight(value, "0"), ".")
	if unit == "" {
		return value
	}
	return value + " " + unit
}

// Sheet renders the costing sheet as an HTML fragment.
func Sheet(data SheetData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="costing-sheet" data-recipe-id="`)
		b.WriteString(strconv.FormatUint(uint64(data.RecipeID), 10))
		b.WriteString(`"><header><h1>`)
		b.WriteString(templ.EscapeString(data.RecipeName))
		b.WriteString(`</h1>`)
		if data.Category != "" || data.Glassware != "" {
			b.WriteString(`<p class="meta">`)
			b.WriteString(templ.EscapeString(strings.Trim(data.Category+" · "+data.Glassware, " ·")))
			b.WriteString(`</p>`)
		}
		fmt.Fprintf(&b, `<p class="abv">%.1f%% ABV</p></header>`, data.ABV)

		b.WriteString(`<table><thead><tr><th>#</th><th>Ingredient</th><th>Amount</th><th>Cost</th><th>Note</th></tr></thead><tbody>`)
		for _, row := range data.Rows {
			state := "ok"
			if row.Attention {
				state = "attention"
			}
			fmt.Fprintf(&b, `<tr data-outcome="%s" data-state="%s"><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(row.Outcome), state, row.Order,
				templ.EscapeString(row.Ingredient), templ.EscapeString(row.Amount),
				templ.EscapeString(row.Cost), templ.EscapeString(row.Note))
		}
		b.WriteString(`</tbody><tfoot><tr><th colspan="3">Total</th><td>`)
		b.WriteString(templ.EscapeString(data.Total))
		b.WriteString(`</td><td></td></tr>`)
		if data.MenuPrice != "" {
			fmt.Fprintf(&b, `<tr><th colspan="3">Menu price</th><td>%s</td><td>%s pour cost</td></tr>`,
				templ.EscapeString(data.MenuPrice), templ.EscapeString(data.PourCostPercent))
		}
		b.WriteString(`</tfoot></table>`)
		if !data.FullyCosted {
			fmt.Fprintf(&b, `<p class="warning">%d ingredient(s) need pricing before this cost is complete.</p>`, data.Unresolved)
		}
		b.WriteString(`</section>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
