package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/placementcell/placement-service/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// StudentRow is one parsed line of a student sheet. The same layout
// serves bulk onboarding and bulk profile updates; rows are keyed by
// their normalized email.
type StudentRow struct {
	Name           string
	Email          string
	Phone          string
	Password       string
	Course         string
	Branch         string
	CGPA           float64
	TenthPercent   float64
	TwelfthPercent float64
	Semester       int
	Backlogs       int
	GapYears       int
	PassingYear    int
	RowNum         int
}

// StudentSheetParser reads bulk student sheets with the same skip
// policy as the job importer: an invalid row is counted and skipped,
// never fatal for the rest of the sheet.
type StudentSheetParser struct{}

func NewStudentSheetParser() *StudentSheetParser {
	return &StudentSheetParser{}
}

var studentColumns = []string{
	"name", "email", "course", "branch", "cgpa",
	"tenth_percent", "twelfth_percent", "semester",
}

func (p *StudentSheetParser) Parse(data []byte) ([]StudentRow, int, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open student sheet: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("student sheet has no worksheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read student sheet rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("student sheet has no data rows")
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range studentColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, 0, fmt.Errorf("missing required column: %s", col)
		}
	}

	var students []StudentRow
	skipped := 0
	for i, row := range rows[1:] {
		student, err := p.parseRow(row, columnMap)
		if err != nil {
			skipped++
			continue
		}
		student.RowNum = i + 2
		students = append(students, *student)
	}

	return students, skipped, nil
}

func (p *StudentSheetParser) parseRow(row []string, columnMap map[string]int) (*StudentRow, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	name := getValue("name")
	email := utils.NormalizeEmail(getValue("email"))
	course := getValue("course")
	branch := getValue("branch")
	if name == "" || email == "" || course == "" || branch == "" {
		return nil, fmt.Errorf("name, email, course and branch are required")
	}

	cgpa, err := strconv.ParseFloat(getValue("cgpa"), 64)
	if err != nil || cgpa < 0 || cgpa > 10 {
		return nil, fmt.Errorf("invalid cgpa: %s", getValue("cgpa"))
	}
	tenth, err := strconv.ParseFloat(getValue("tenth_percent"), 64)
	if err != nil || tenth < 30 || tenth > 100 {
		return nil, fmt.Errorf("invalid tenth_percent: %s", getValue("tenth_percent"))
	}
	twelfth, err := strconv.ParseFloat(getValue("twelfth_percent"), 64)
	if err != nil || twelfth < 30 || twelfth > 100 {
		return nil, fmt.Errorf("invalid twelfth_percent: %s", getValue("twelfth_percent"))
	}
	semester, err := strconv.Atoi(getValue("semester"))
	if err != nil || semester < 1 || semester > 10 {
		return nil, fmt.Errorf("invalid semester: %s", getValue("semester"))
	}

	backlogs, err := parseOptionalCount(getValue("backlogs"))
	if err != nil {
		return nil, fmt.Errorf("invalid backlogs: %s", getValue("backlogs"))
	}
	gapYears, err := parseOptionalCount(getValue("gap_years"))
	if err != nil {
		return nil, fmt.Errorf("invalid gap_years: %s", getValue("gap_years"))
	}
	passingYear, err := parseOptionalCount(getValue("passing_year"))
	if err != nil {
		return nil, fmt.Errorf("invalid passing_year: %s", getValue("passing_year"))
	}

	return &StudentRow{
		Name:           name,
		Email:          email,
		Phone:          getValue("phone"),
		Password:       getValue("password"),
		Course:         course,
		Branch:         branch,
		CGPA:           cgpa,
		TenthPercent:   tenth,
		TwelfthPercent: twelfth,
		Semester:       semester,
		Backlogs:       backlogs,
		GapYears:       gapYears,
		PassingYear:    passingYear,
	}, nil
}

// parseOptionalCount reads a non-negative integer column, blank meaning
// zero.
func parseOptionalCount(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("not a non-negative integer: %s", raw)
	}
	return n, nil
}
