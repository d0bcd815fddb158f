package sheet

import (
	"fmt"
	"log"
	"strings"

	"github.com/ethanbaker/hq-console/pkg/record"
)

// Column positions of a record row
const (
	colID = iota
	colTopicName
	colBrand
	colDomain
	colContent
	colSummary
	colKeywords
	colMetaJSON
	colStatus
	colUpdatedAt
	colApprovedBy
)

// recordFromRow maps a positional row to a record. Rows fetched from the store
// are approved unless their status column says otherwise
func recordFromRow(row []string, kind record.Kind) *record.Record {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	r := &record.Record{
		ID:        cell(colID),
		Kind:      kind,
		TopicName: cell(colTopicName),
		Brand:     cell(colBrand),
		Domain:    cell(colDomain),
		Content:   cell(colContent),
		Summary:   cell(colSummary),
		Keywords:  record.ParseKeywords(cell(colKeywords)),
		MetaJSON:  cell(colMetaJSON),
		Status:    record.StatusApproved,
		UpdatedAt: cell(colUpdatedAt),
	}

	if status, ok := record.ParseStatus(cell(colStatus)); ok {
		r.Status = status
	}
	if !r.Kind.Valid() {
		r.Kind = r.EffectiveKind()
	}

	return r
}

// recordsFromRows converts rows, skipping rows without an id
func recordsFromRows(rows [][]string, kind record.Kind) []*record.Record {
	records := make([]*record.Record, 0, len(rows))
	for i, row := range rows {
		r := recordFromRow(row, kind)
		if r.ID == "" {
			log.Printf("[SHEET]: Skipping row %d without an id", i)
			continue
		}
		records = append(records, r)
	}
	return records
}

// stringRows normalizes loosely typed cells ([][]any from JSON or the Sheets API) into strings
func stringRows(values [][]any) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				rows[i][j] = fmt.Sprint(cell)
			}
		}
	}
	return rows
}

// rowFromAppend lays out an append request in column order
func rowFromAppend(req AppendRequest) []any {
	r := req.Record
	row := make([]any, colApprovedBy+1)
	row[colID] = r.ID
	row[colTopicName] = r.TopicName
	row[colBrand] = r.Brand
	row[colDomain] = r.Domain
	row[colContent] = r.Content
	row[colSummary] = r.Summary
	row[colKeywords] = r.KeywordsText()
	row[colMetaJSON] = r.MetaJSON
	row[colStatus] = string(req.Status)
	row[colUpdatedAt] = req.ApprovedAt.UTC().Format(TimestampLayout)
	row[colApprovedBy] = req.ApprovedBy
	return row
}
