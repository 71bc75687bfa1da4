// Package importer turns spreadsheet uploads into inventory item rows and
// runs them against the inventory service one row at a time.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	"github.com/tanpawarit/qbd-assistant/inventory"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnreadableFile = errors.New("import file is unreadable")
	ErrNoSheet        = errors.New("workbook has no sheet")
	ErrNoHeader       = errors.New("import file has no header row")
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Row is one valid spreadsheet row. Number is the row as a spreadsheet
// viewer shows it, header included.
type Row struct {
	Number int                  `json:"row"`
	Action Action               `json:"action"`
	ItemID string               `json:"itemId,omitempty"`
	Fields contractx.ItemFields `json:"fields"`
}

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ParseResult holds every valid row plus one error per rejected row.
// Total counts non-blank data rows.
type ParseResult struct {
	Rows   []Row      `json:"rows"`
	Errors []RowError `json:"errors"`
	Total  int        `json:"total"`
}

// record is one table row. Number is the row a spreadsheet viewer shows;
// Err marks a row that could not be read at all.
type record struct {
	Number int
	Cells  []string
	Err    error
}

// Parse reads the first sheet of an .xlsx workbook or a .csv file. Only
// file-level problems return an error; row problems land in Errors.
func Parse(data []byte, filename string) (*ParseResult, error) {
	records, err := readTable(data, filename)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || blankRecord(records[0].Cells) {
		return nil, ErrNoHeader
	}
	if err := records[0].Err; err != nil {
		return nil, fmt.Errorf("%w: header row: %v", ErrUnreadableFile, err)
	}

	header := indexHeader(records[0].Cells)
	res := &ParseResult{Rows: []Row{}, Errors: []RowError{}}
	for _, rec := range records[1:] {
		if rec.Err == nil && blankRecord(rec.Cells) {
			continue
		}
		res.Total++
		if rec.Err != nil {
			res.Errors = append(res.Errors, RowError{Row: rec.Number, Error: rec.Err.Error()})
			continue
		}

		row, err := parseRow(header, rec.Cells, rec.Number)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: rec.Number, Error: err.Error()})
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func readTable(data []byte, filename string) ([]record, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return readCSV(data)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return readWorkbook(data)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrUnreadableFile, ext)
	}
}

// readCSV numbers records the way a spreadsheet viewer does: an empty line
// is a row of its own, a quoted cell spanning several lines is one row.
// The csv reader skips empty lines, so they are recovered from the gap
// between one record's last line and the next record's first.
func readCSV(data []byte) ([]record, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	var (
		records []record
		row     int
		lastEnd int
	)
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		var start, end int
		var parseErr *csv.ParseError
		switch {
		case errors.As(err, &parseErr):
			start, end = parseErr.StartLine, parseErr.Line
		case err != nil:
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		default:
			start, _ = r.FieldPos(0)
			last := len(cells) - 1
			end, _ = r.FieldPos(last)
			end += strings.Count(cells[last], "\n")
		}

		row += start - lastEnd
		lastEnd = end

		rec := record{Number: row, Cells: cells}
		if parseErr != nil {
			rec.Err = fmt.Errorf("unreadable row: %v", parseErr.Err)
		}
		records = append(records, rec)
	}
}

func readWorkbook(data []byte) ([]record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrUnreadableFile, sheets[0], err)
	}

	records := make([]record, 0, len(rows))
	for i, cells := range rows {
		records = append(records, record{Number: i + 1, Cells: cells})
	}
	return records, nil
}

func parseRow(header headerIndex, rec []string, num int) (Row, error) {
	raw := strings.ToLower(header.text(rec, colAction))
	action := Action(raw)
	if action != ActionCreate && action != ActionUpdate {
		if raw == "" {
			return Row{}, errors.New("missing action (expected create or update)")
		}
		return Row{}, fmt.Errorf("invalid action %q (expected create or update)", raw)
	}

	row := Row{
		Number: num,
		Action: action,
		ItemID: header.text(rec, colItemID),
		Fields: contractx.ItemFields{
			Name:                header.str(rec, colName),
			SKU:                 header.str(rec, colSKU),
			SalesPrice:          header.number(rec, colSalesPrice),
			PurchaseCost:        header.number(rec, colPurchaseCost),
			SalesDescription:    header.str(rec, colSalesDescription),
			PurchaseDescription: header.str(rec, colPurchaseDescription),
			IncomeAccountID:     header.str(rec, colIncomeAccountID),
			COGSAccountID:       header.str(rec, colCOGSAccountID),
			AssetAccountID:      header.str(rec, colAssetAccountID),
			QuantityOnHand:      header.number(rec, colQuantityOnHand),
			ReorderPoint:        header.number(rec, colReorderPoint),
			IsActive:            header.boolean(rec, colIsActive),
		},
	}

	switch action {
	case ActionCreate:
		if missing := inventory.MissingForCreate(row.Fields); len(missing) > 0 {
			return Row{}, fmt.Errorf("create requires %s", strings.Join(missing, ", "))
		}
	case ActionUpdate:
		if row.ItemID == "" && row.Fields.Name == nil {
			return Row{}, errors.New("update requires an item id or name")
		}
	}
	return row, nil
}

// parseNumber accepts plain decimals plus currency symbols and thousands
// separators. Anything else is treated as absent.
func parseNumber(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', ',', '$', '€', '£', '฿', '¥':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	}
	return false, false
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
