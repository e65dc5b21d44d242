package ml

import (
	"fmt"
)

// CleaningRule rejects or rewrites a row.
type CleaningRule interface {
	Apply(*Row) (*Row, error)
	Name() string
}

// QualityIssue records why a row was rejected.
type QualityIssue struct {
	Rule    string `json:"rule"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type CleaningStats struct {
	TotalProcessed int            `json:"total_processed"`
	Passed         int            `json:"passed"`
	Rejected       int            `json:"rejected"`
	Issues         map[string]int `json:"issues"`
}

// DataCleaner runs every rule over each row and keeps rows no rule rejected.
type DataCleaner struct {
	rules []CleaningRule
	stats CleaningStats
}

// NewDataCleaner returns a cleaner that drops rows missing any required column.
func NewDataCleaner() *DataCleaner {
	cleaner := &DataCleaner{
		stats: CleaningStats{Issues: make(map[string]int)},
	}
	for _, column := range RequiredColumns() {
		cleaner.AddRule(NewMissingValueRule(column))
	}
	return cleaner
}

func (dc *DataCleaner) AddRule(rule CleaningRule) {
	dc.rules = append(dc.rules, rule)
}

func (dc *DataCleaner) Clean(rows []*Row) ([]*Row, []QualityIssue) {
	cleaned := make([]*Row, 0, len(rows))
	var issues []QualityIssue

	for _, row := range rows {
		dc.stats.TotalProcessed++

		var rowIssues []QualityIssue
		for _, rule := range dc.rules {
			out, err := rule.Apply(row)
			if err != nil {
				rowIssues = append(rowIssues, QualityIssue{
					Rule:    rule.Name(),
					Line:    row.Line,
					Message: err.Error(),
				})
				dc.stats.Issues[rule.Name()]++
				continue
			}
			if out != nil {
				row = out
			}
		}

		if len(rowIssues) > 0 {
			dc.stats.Rejected++
			issues = append(issues, rowIssues...)
			continue
		}
		dc.stats.Passed++
		cleaned = append(cleaned, row)
	}
	return cleaned, issues
}

func (dc *DataCleaner) Stats() CleaningStats {
	stats := dc.stats
	stats.Issues = make(map[string]int, len(dc.stats.Issues))
	for name, count := range dc.stats.Issues {
		stats.Issues[name] = count
	}
	return stats
}

// MissingValueRule rejects rows whose column cell is missing.
type MissingValueRule struct {
	Column string
}

func NewMissingValueRule(column string) *MissingValueRule {
	return &MissingValueRule{Column: column}
}

func (r *MissingValueRule) Name() string {
	return "missing_" + r.Column
}

func (r *MissingValueRule) Apply(row *Row) (*Row, error) {
	var present bool
	switch r.Column {
	case ColumnTemperature:
		present = row.Temperature != nil
	case ColumnHumidity:
		present = row.Humidity != nil
	case ColumnPHLevel:
		present = row.PHLevel != nil
	case ColumnHealthStatus:
		present = row.HealthStatus != nil
	default:
		return nil, fmt.Errorf("unknown column %s", r.Column)
	}
	if !present {
		return nil, fmt.Errorf("%s is missing", r.Column)
	}
	return row, nil
}
