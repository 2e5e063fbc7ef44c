package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

// JobRow is one parsed line of a bulk job-import sheet.
type JobRow struct {
	Job    domain.Job
	RowNum int
}

// JobSheetParser reads bulk job postings. Invalid rows are skipped and
// counted rather than aborting the import; the roster parser takes the
// opposite policy on purpose (a bad job row affects only itself, a bad
// roster row affects everyone).
type JobSheetParser struct{}

func NewJobSheetParser() *JobSheetParser {
	return &JobSheetParser{}
}

var jobColumns = []string{
	"title", "description", "salary", "vacancy", "deadline",
	"min_cgpa", "max_backlogs", "allowed_gap_years", "semesters_allowed",
	"branches_allowed", "courses_allowed", "min_tenth_percent", "min_twelfth_percent",
}

func (p *JobSheetParser) Parse(data []byte, createdBy uint) ([]JobRow, int, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open job sheet: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("job sheet has no worksheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read job sheet rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("job sheet has no data rows")
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range jobColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, 0, fmt.Errorf("missing required column: %s", col)
		}
	}

	var jobs []JobRow
	skipped := 0
	for i, row := range rows[1:] {
		job, err := p.parseRow(row, columnMap, createdBy)
		if err != nil {
			skipped++
			continue
		}
		jobs = append(jobs, JobRow{Job: *job, RowNum: i + 2})
	}

	return jobs, skipped, nil
}

func (p *JobSheetParser) parseRow(row []string, columnMap map[string]int, createdBy uint) (*domain.Job, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	title := getValue("title")
	description := getValue("description")
	if title == "" || description == "" {
		return nil, fmt.Errorf("title and description are required")
	}

	salary, err := strconv.ParseFloat(getValue("salary"), 64)
	if err != nil || salary < 1 {
		return nil, fmt.Errorf("invalid salary: %s", getValue("salary"))
	}

	vacancy, err := strconv.Atoi(getValue("vacancy"))
	if err != nil || vacancy < 1 {
		return nil, fmt.Errorf("invalid vacancy: %s", getValue("vacancy"))
	}

	deadline, err := time.Parse("2006-01-02", getValue("deadline"))
	if err != nil {
		return nil, fmt.Errorf("invalid deadline: %s", getValue("deadline"))
	}

	minCGPA, err := strconv.ParseFloat(getValue("min_cgpa"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid min_cgpa")
	}
	maxBacklogs, err := strconv.Atoi(getValue("max_backlogs"))
	if err != nil {
		return nil, fmt.Errorf("invalid max_backlogs")
	}
	gapYears, err := strconv.Atoi(getValue("allowed_gap_years"))
	if err != nil {
		return nil, fmt.Errorf("invalid allowed_gap_years")
	}
	minTenth, err := strconv.ParseFloat(getValue("min_tenth_percent"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid min_tenth_percent")
	}
	minTwelfth, err := strconv.ParseFloat(getValue("min_twelfth_percent"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid min_twelfth_percent")
	}

	semesters, err := parseIntList(getValue("semesters_allowed"))
	if err != nil {
		return nil, fmt.Errorf("invalid semesters_allowed")
	}

	branches := parseStringList(getValue("branches_allowed"))
	courses := parseStringList(getValue("courses_allowed"))
	if len(branches) == 0 || len(courses) == 0 {
		return nil, fmt.Errorf("branches_allowed and courses_allowed are required")
	}

	return &domain.Job{
		Title:          title,
		Description:    description,
		Salary:         salary,
		Vacancy:        vacancy,
		Deadline:       deadline,
		Status:         domain.JobActive,
		CoursesAllowed: courses,
		CreatedBy:      createdBy,
		Eligibility: domain.Eligibility{
			MinCGPA:           minCGPA,
			MaxBacklogs:       maxBacklogs,
			AllowedGapYears:   gapYears,
			SemestersAllowed:  semesters,
			BranchesAllowed:   branches,
			MinTenthPercent:   minTenth,
			MinTwelfthPercent: minTwelfth,
		},
	}, nil
}

func parseStringList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseIntList(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
