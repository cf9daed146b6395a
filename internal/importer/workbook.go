// Package importer loads users and their profiles from an xlsx workbook.
// The first sheet must start with a header row; column order is free.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mroshb/roommatch/internal/services"
)

// Columns understood in the header row
const (
	ColEmail       = "email"
	ColPassword    = "password"
	ColFirstName   = "first_name"
	ColLastName    = "last_name"
	ColPhone       = "phone"
	ColAge         = "age"
	ColGender      = "gender"
	ColOccupation  = "occupation"
	ColEducation   = "education"
	ColBudgetMin   = "budget_min"
	ColBudgetMax   = "budget_max"
	ColLocation    = "location"
	ColRoomType    = "room_type"
	ColCleanliness = "cleanliness"
	ColSocial      = "social"
	ColNoise       = "noise"
	ColPet         = "pet"
	ColSmoking     = "smoking"
	ColBio         = "bio"
	ColInterests   = "interests"
)

// Record is one user row of the workbook
type Record struct {
	Row     int
	Account services.RegisterInput
	Profile services.ProfileInput
}

// RowError reports a row that could not be parsed
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ReadWorkbook parses the first sheet of an xlsx file
func ReadWorkbook(r io.Reader) ([]Record, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets found")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	return ParseRows(rows)
}

// ParseRows turns a header row plus data rows into records. Blank rows are
// skipped; malformed ones are reported and skipped.
func ParseRows(rows [][]string) ([]Record, []RowError, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("workbook is empty")
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index[ColEmail]; !ok {
		return nil, nil, fmt.Errorf("header row has no %q column", ColEmail)
	}

	var (
		records []Record
		rowErrs []RowError
	)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if isBlank(row) {
			continue
		}

		rec, err := parseRow(index, row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Err: err})
			continue
		}
		rec.Row = rowNum
		records = append(records, rec)
	}

	return records, rowErrs, nil
}

func parseRow(index map[string]int, row []string) (Record, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var parseErr error
	number := func(col string) int {
		v := cell(col)
		if v == "" || parseErr != nil {
			return 0
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			// spreadsheets often store whole numbers as floats
			f, ferr := strconv.ParseFloat(v, 64)
			if ferr != nil || f != float64(int(f)) {
				parseErr = fmt.Errorf("%s: %q is not a whole number", col, v)
				return 0
			}
			n = int(f)
		}
		return n
	}

	rec := Record{
		Account: services.RegisterInput{
			Email:     cell(ColEmail),
			Password:  cell(ColPassword),
			FirstName: cell(ColFirstName),
			LastName:  cell(ColLastName),
			Phone:     cell(ColPhone),
		},
		Profile: services.ProfileInput{
			Age:                number(ColAge),
			Gender:             cell(ColGender),
			Occupation:         cell(ColOccupation),
			Education:          cell(ColEducation),
			BudgetMin:          number(ColBudgetMin),
			BudgetMax:          number(ColBudgetMax),
			LocationPreference: cell(ColLocation),
			RoomType:           cell(ColRoomType),
			CleanlinessLevel:   number(ColCleanliness),
			SocialLevel:        number(ColSocial),
			NoiseTolerance:     number(ColNoise),
			PetPreference:      cell(ColPet),
			SmokingPreference:  cell(ColSmoking),
			Bio:                cell(ColBio),
			Interests:          splitList(cell(ColInterests)),
		},
	}
	if parseErr != nil {
		return Record{}, parseErr
	}
	if rec.Account.Email == "" {
		return Record{}, fmt.Errorf("email is empty")
	}

	return rec, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
