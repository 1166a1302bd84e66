package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"bottlecraft/internal/domain"
)

// SKUMatrixImporter reads explicit SKU assignments from a CSV export with
// vessel, fitment, closure and sku columns.
type SKUMatrixImporter struct {
	reader *csv.Reader
}

func NewSKUMatrixImporter(r io.Reader) *SKUMatrixImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	csvr.Comment = '#'
	return &SKUMatrixImporter{reader: csvr}
}

var requiredColumns = []string{"vessel", "closure", "sku"}

// Run parses every row. Blank rows are skipped; a blank fitment makes the
// record fitment-agnostic.
func (i *SKUMatrixImporter) Run() ([]domain.SKURecord, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var records []domain.SKURecord
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, fmt.Errorf("read row: %w", err)
		}
		row, _ := i.reader.FieldPos(0)

		rec := domain.SKURecord{
			Vessel:  pick(record, index, "vessel"),
			Fitment: pick(record, index, "fitment"),
			Closure: pick(record, index, "closure"),
			SKU:     pick(record, index, "sku"),
		}
		if rec == (domain.SKURecord{}) {
			continue
		}
		if rec.Vessel == "" || rec.Closure == "" || rec.SKU == "" {
			return records, fmt.Errorf("row %d: vessel, closure and sku required", row)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Apply replaces the family's SKU matrix with records. The caller is expected
// to validate the family afterwards.
func Apply(family *domain.Family, records []domain.SKURecord) {
	family.SKUMatrix = append([]domain.SKURecord(nil), records...)
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
