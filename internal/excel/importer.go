// Package excel imports word lists from Excel or CSV files into the words
// table.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath     string // Path to the Excel or CSV file
	EnColumn     string // Column with the English word
	JaColumn     string // Column with the Japanese translation
	LevelColumn  string // Column with the level (1-3)
	SeriesColumn string // Column with the series label
	BaseColumn   string // Column with the verb base form
	PastColumn   string // Column with the verb past form
	PPColumn     string // Column with the verb past participle
	SheetName    string // Name of the sheet to import
	StartRow     int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		EnColumn:     "A",
		JaColumn:     "B",
		LevelColumn:  "C",
		SeriesColumn: "D",
		BaseColumn:   "E",
		PastColumn:   "F",
		PPColumn:     "G",
		SheetName:    "Sheet1",
		StartRow:     2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportWords imports words from an Excel or CSV file
func ImportWords(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel imports words from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %v", config.SheetName, err)
	}

	columns := map[string]int{
		config.EnColumn:     -1,
		config.JaColumn:     -1,
		config.LevelColumn:  -1,
		config.SeriesColumn: -1,
		config.BaseColumn:   -1,
		config.PastColumn:   -1,
		config.PPColumn:     -1,
	}
	for name := range columns {
		idx, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return nil, fmt.Errorf("invalid column %q: %v", name, err)
		}
		columns[name] = idx - 1
	}

	result := &ImportResult{}
	repo := database.NewWordRepository()

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		cell := func(column string) string {
			idx := columns[column]
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		importRecord(repo, result, rowNum,
			cell(config.EnColumn), cell(config.JaColumn), cell(config.LevelColumn),
			cell(config.SeriesColumn), cell(config.BaseColumn), cell(config.PastColumn), cell(config.PPColumn))
	}

	return result, nil
}

// importFromCSV imports words from a CSV file with the same column order as
// the default Excel layout: en, ja, level, series, base, past, pp.
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	repo := database.NewWordRepository()

	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		cell := func(idx int) string {
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		importRecord(repo, result, rowNum,
			cell(0), cell(1), cell(2), cell(3), cell(4), cell(5), cell(6))
	}

	return result, nil
}

// importRecord validates one row and upserts it into the words table.
func importRecord(repo *database.WordRepository, result *ImportResult, rowNum int, en, ja, levelText, series, base, past, pp string) {
	result.TotalProcessed++

	if en == "" || ja == "" {
		result.Skipped++
		return
	}

	level := 1
	if levelText != "" {
		n, err := strconv.Atoi(levelText)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid level %q", rowNum, levelText))
			result.Skipped++
			return
		}
		level = n
	}

	word := models.WordEntry{
		EN:     en,
		JA:     ja,
		Level:  level,
		Series: series,
	}
	forms := models.VerbForms{Base: base, Past: past, PP: pp}
	if forms.Complete() {
		word.Forms = &forms
	}

	created, err := repo.Upsert(word)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		result.Skipped++
		return
	}
	if created {
		result.Created++
	} else {
		result.Updated++
	}
}
