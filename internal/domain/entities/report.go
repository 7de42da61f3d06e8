package entities

import (
	"fmt"
	"time"
)

// ReportType selects the analysis prompt, schema, and template for a run
type ReportType string

// ReportType constants
const (
	ReportTypeClient ReportType = "client"
	ReportTypeDesign ReportType = "design"
)

// Valid reports whether rt is a known report type.
func (rt ReportType) Valid() bool {
	return rt == ReportTypeClient || rt == ReportTypeDesign
}

// Filename returns the timestamped default file name for a report.
func (rt ReportType) Filename(ts time.Time) string {
	prefix := "report"
	if rt == ReportTypeDesign {
		prefix = "design_report"
	}
	return fmt.Sprintf("%s_%s.pdf", prefix, ts.Format("20060102_150405"))
}

// TemplateName returns the default template file name for a report.
func (rt ReportType) TemplateName() string {
	if rt == ReportTypeDesign {
		return "design_report_template.html"
	}
	return "report_template.html"
}

// Report describes a rendered PDF artifact
type Report struct {
	Type        ReportType
	Path        string
	Transcript  string // source label of the input
	SizeBytes   int64
	GeneratedAt time.Time
}
