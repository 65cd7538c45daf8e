// Package manifest reads bulk provisioning manifests: spreadsheets listing
// the databases to create, one per row, as operations teams hand them over.
//
// The first sheet is read. The first row must be a header; columns are
// matched by name, case-insensitively:
//
//	┌─────────────┬──────────┬────────────────────────────────────────┐
//	│ Column      │ Required │ Value                                  │
//	├─────────────┼──────────┼────────────────────────────────────────┤
//	│ name        │ yes      │ database name                          │
//	│ datasize    │ yes      │ size literal, e.g. "200GB"             │
//	│ logsize     │ no       │ size literal                           │
//	│ perfilesize │ no       │ size literal, fixes the per-file size  │
//	│ owner       │ no       │ login to own the database              │
//	│ collation   │ no       │ collation name                         │
//	│ querystore  │ no       │ "true"/"yes"/"1" to enable Query Store │
//	└─────────────┴──────────┴────────────────────────────────────────┘
//
// Unknown columns are ignored, so teams can keep their own bookkeeping
// columns in the same sheet.
package manifest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/pkg/sizeunit"
)

// Read parses a manifest workbook into database specs. Row numbers in errors
// are 1-based, matching what the spreadsheet shows.
func Read(r io.Reader) ([]models.DatabaseSpec, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("manifest has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("manifest sheet %q is empty", sheets[0])
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var specs []models.DatabaseSpec
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		spec, err := parseRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

type columnMap map[string]int

func mapColumns(header []string) (columnMap, error) {
	columns := columnMap{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "datasize"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("manifest is missing the %q column", required)
		}
	}
	return columns, nil
}

func (m columnMap) get(row []string, name string) string {
	i, ok := m[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRow(columns columnMap, row []string) (models.DatabaseSpec, error) {
	spec := models.DatabaseSpec{
		Name:      columns.get(row, "name"),
		Owner:     columns.get(row, "owner"),
		Collation: columns.get(row, "collation"),
	}
	if spec.Name == "" {
		return models.DatabaseSpec{}, fmt.Errorf("name is empty")
	}

	var err error
	if spec.DataSizeMB, err = sizeunit.Parse(columns.get(row, "datasize")); err != nil {
		return models.DatabaseSpec{}, fmt.Errorf("invalid datasize: %w", err)
	}
	if raw := columns.get(row, "logsize"); raw != "" {
		if spec.LogSizeMB, err = sizeunit.Parse(raw); err != nil {
			return models.DatabaseSpec{}, fmt.Errorf("invalid logsize: %w", err)
		}
	}
	if raw := columns.get(row, "perfilesize"); raw != "" {
		perFile, err := sizeunit.Parse(raw)
		if err != nil {
			return models.DatabaseSpec{}, fmt.Errorf("invalid perfilesize: %w", err)
		}
		spec.PerFileSizeMB = &perFile
	}
	if raw := columns.get(row, "querystore"); raw != "" {
		switch strings.ToLower(raw) {
		case "true", "yes", "1":
			spec.QueryStore = true
		case "false", "no", "0":
		default:
			return models.DatabaseSpec{}, fmt.Errorf("invalid querystore value %q", raw)
		}
	}
	return spec, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
