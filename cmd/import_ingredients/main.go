package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"backbar/internal/catalog"
	"backbar/internal/config"
	"backbar/internal/db"
	applog "backbar/internal/log"
)

var (
	numberPattern   = regexp.MustCompile(`[-+]?\d*\.?\d+`)
	sizePattern     = regexp.MustCompile(`^\s*(\d*\.?\d+)\s*([a-zA-Z][a-zA-Z .]*)\s*$`)
	cleanWhitespace = regexp.MustCompile(`\s+`)
)

// headerAliases maps the column names seen on supplier price lists to the
// fields of a price row.
var headerAliases = map[string]string{
	"name":              "name",
	"ingredient":        "name",
	"ingredient name":   "name",
	"product":           "name",
	"category":          "category",
	"spirit type":       "spirit_type",
	"type":              "spirit_type",
	"unit":              "unit",
	"recipe unit":       "unit",
	"price":             "price",
	"purchase price":    "price",
	"bottle price":      "price",
	"quantity":          "quantity",
	"purchase quantity": "quantity",
	"size":              "quantity",
	"bottle size":       "quantity",
	"purchase unit":     "purchase_unit",
	"size unit":         "purchase_unit",
	"case price":        "case_price",
	"bottles per case":  "bottles_per_case",
	"case size":         "bottles_per_case",
	"pack":              "bottles_per_case",
	"abv":               "abv",
	"abv %":             "abv",
	"proof":             "proof",
}

func main() {
	path := "price list.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := run(context.Background(), path); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("price list path must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate price list: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	rows, err := readPriceList(path)
	if err != nil {
		return fmt.Errorf("read price list: %w", err)
	}

	result, err := catalog.New(database).ImportPrices(ctx, rows)
	if err != nil {
		return err
	}
	return report(os.Stdout, filepath.Base(path), result)
}

// report prints a summary and returns an error naming the failed rows.
func report(w io.Writer, source string, result catalog.BatchResult) error {
	failed := result.Failed()
	fmt.Fprintf(w, "Imported %d of %d ingredients from %s\n", len(result.Items)-len(failed), len(result.Items), source)
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, 0, len(failed))
	for _, item := range failed {
		fmt.Fprintf(w, "  %s: %s\n", item.Name, item.Error)
		names = append(names, item.Name)
	}
	return fmt.Errorf("%d rows failed: %s", len(failed), strings.Join(names, ", "))
}

// readPriceList reads a CSV or XLSX price list. Only the first sheet of a
// workbook is used.
func readPriceList(path string) ([]catalog.PriceRow, error) {
	var records []map[string]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(path)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	rows := make([]catalog.PriceRow, 0, len(records))
	for _, record := range records {
		row := buildPriceRow(record)
		if row.Name == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return toRecords(rows)
}

func readXLSX(path string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return toRecords(rows)
}

// toRecords keys every row by its canonical column name. Unknown columns are
// ignored.
func toRecords(rows [][]string) ([]map[string]string, error) {
	if len(rows) == 0 {
		return nil, errors.New("price list is empty")
	}

	header := make([]string, len(rows[0]))
	known := 0
	for idx, column := range rows[0] {
		key := strings.ToLower(normalizeText(column))
		if field, ok := headerAliases[key]; ok {
			header[idx] = field
			known++
		}
	}
	if known == 0 {
		return nil, errors.New("price list header has no recognised columns")
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		record := make(map[string]string, len(header))
		for idx, field := range header {
			if field == "" || idx >= len(row) {
				continue
			}
			record[field] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}
	return records, nil
}

func buildPriceRow(record map[string]string) catalog.PriceRow {
	row := catalog.PriceRow{
		Name:           normalizeText(record["name"]),
		Category:       normalizeText(record["category"]),
		SpiritType:     strings.ToLower(normalizeText(record["spirit_type"])),
		Unit:           normalizeText(record["unit"]),
		PurchasePrice:  parseMoney(record["price"]),
		PurchaseUnit:   normalizeText(record["purchase_unit"]),
		CasePrice:      parseMoney(record["case_price"]),
		BottlesPerCase: int(parseFirstNumber(record["bottles_per_case"])),
		ABV:            parseFirstNumber(record["abv"]),
	}

	quantity := normalizeValue(record["quantity"])
	if m := sizePattern.FindStringSubmatch(quantity); m != nil && row.PurchaseUnit == "" {
		row.PurchaseQuantity = parseFirstNumber(m[1])
		row.PurchaseUnit = strings.TrimSpace(m[2])
	} else {
		row.PurchaseQuantity = parseFirstNumber(quantity)
	}

	if row.ABV == 0 {
		if proof := parseFirstNumber(record["proof"]); proof > 0 {
			row.ABV = proof / 2
		}
	}
	return row
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") || value == "-" {
		return ""
	}
	return value
}

func normalizeText(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return value
	}
	return strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
}

// parseMoney reads prices such as "$1,234.50" to the cent.
func parseMoney(value string) float64 {
	value = normalizeValue(value)
	if value == "" {
		return 0
	}
	value = strings.NewReplacer(",", "", "$", "", "€", "", "£", "").Replace(value)
	match := numberPattern.FindString(value)
	if match == "" {
		return 0
	}
	amount, err := decimal.NewFromString(match)
	if err != nil || amount.IsNegative() {
		return 0
	}
	return amount.Round(2).InexactFloat64()
}

func parseFirstNumber(value string) float64 {
	value = normalizeValue(value)
	if value == "" {
		return 0
	}
	match := numberPattern.FindString(strings.ReplaceAll(value, ",", ""))
	if match == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return parsed
}
