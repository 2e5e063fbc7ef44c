package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/placementcell/placement-service/pkg/errors"
	"github.com/placementcell/placement-service/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// RosterParser extracts the selected-student emails from an uploaded
// round-result sheet. Any structural problem aborts the whole parse so a
// malformed roster can never partially resolve a round.
type RosterParser struct{}

func NewRosterParser() *RosterParser {
	return &RosterParser{}
}

func (p *RosterParser) Parse(data []byte) ([]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.RosterParseError{Err: err}
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.RosterParseError{Err: errors.ErrRosterEmpty}
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, errors.RosterParseError{Err: err}
	}
	if len(rows) < 2 {
		return nil, errors.RosterParseError{Err: errors.ErrRosterEmpty}
	}

	emailCol := -1
	for i, col := range rows[0] {
		if strings.ToLower(strings.TrimSpace(col)) == "email" {
			emailCol = i
			break
		}
	}
	if emailCol < 0 {
		return nil, errors.RosterParseError{Err: fmt.Errorf("missing required column: email")}
	}

	seen := make(map[string]bool)
	var emails []string
	for _, row := range rows[1:] {
		if emailCol >= len(row) {
			continue
		}
		email := utils.NormalizeEmail(row[emailCol])
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}

	if len(emails) == 0 {
		return nil, errors.RosterParseError{Err: errors.ErrRosterEmpty}
	}
	return emails, nil
}
