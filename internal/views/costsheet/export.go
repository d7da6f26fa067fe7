package costsheet

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Costing"

var exportHeader = []any{"#", "Ingredient", "Amount", "Cost", "Outcome", "Note"}

// WriteXLSX writes the costing sheet as a single-sheet workbook.
func WriteXLSX(w io.Writer, data SheetData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", []any{data.RecipeName}); err != nil {
		return err
	}
	if err := sw.SetRow("A3", exportHeader); err != nil {
		return err
	}
	next := 4
	for _, row := range data.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, next)
		if err := sw.SetRow(cell, []any{row.Order, row.Ingredient, row.Amount, row.Cost, row.Outcome, row.Note}); err != nil {
			return err
		}
		next++
	}

	next++
	cell, _ := excelize.CoordinatesToCellName(1, next)
	if err := sw.SetRow(cell, []any{nil, "Total", nil, data.Total}); err != nil {
		return err
	}
	if data.MenuPrice != "" {
		next++
		cell, _ = excelize.CoordinatesToCellName(1, next)
		if err := sw.SetRow(cell, []any{nil, "Menu price", nil, data.MenuPrice, "Pour cost", data.PourCostPercent}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
