package host

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
)

// columnIndexes maps the known column set to positions in the header row.
// -1 means the column is absent; every cell of an absent column reads as "".
type columnIndexes struct {
	externalID int
	name       int
	company    int
	email      int
	phone      int
	location   int
	status     int
}

// ParseCSV turns CSV bytes into the ordered row sequence. The first record is
// the header; ragged records are tolerated (missing cells default to empty,
// excess cells are dropped). A malformed quote structure fails the whole file.
func ParseCSV(data []byte) ([]domain.RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	return mapRecords(records)
}

// ParseXLSX reads the first worksheet of an xlsx workbook. A corrupt
// container fails the whole file with a single error.
func ParseXLSX(data []byte) ([]domain.RawRow, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer workbook.Close()

	sheetName := workbook.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no worksheet found", ErrUnreadableFile)
	}

	records, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	return mapRecords(records)
}

func mapRecords(records [][]string) ([]domain.RawRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrUnreadableFile)
	}

	cols := mapHeader(records[0])

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, domain.RawRow{
			ExternalID: cellValue(record, cols.externalID),
			Name:       cellValue(record, cols.name),
			Company:    cellValue(record, cols.company),
			Email:      cellValue(record, cols.email),
			Phone:      cellValue(record, cols.phone),
			Location:   cellValue(record, cols.location),
			Status:     cellValue(record, cols.status),
		})
	}

	return rows, nil
}

func mapHeader(header []string) columnIndexes {
	cols := columnIndexes{
		externalID: -1,
		name:       -1,
		company:    -1,
		email:      -1,
		phone:      -1,
		location:   -1,
		status:     -1,
	}

	for i, name := range header {
		switch normalizeHeader(name) {
		case "id", "external id":
			cols.externalID = i
		case "name":
			cols.name = i
		case "company":
			cols.company = i
		case "email", "email address":
			cols.email = i
		case "phone", "phone number":
			cols.phone = i
		case "location":
			cols.location = i
		case "status":
			cols.status = i
		}
		// Unknown columns are ignored.
	}

	return cols
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func cellValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
