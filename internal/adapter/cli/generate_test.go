package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/domain/entities"
	"github.com/clientbrief/clientbrief/pkg/config"
)

func resetFlags() {
	flagInput = ""
	flagOutput = ""
	flagTemplate = ""
	flagReportType = string(entities.ReportTypeClient)
	flagNoCache = false
	flagLogLevel = ""
}

func testConfig() *config.Config {
	return &config.Config{
		Paths: config.PathsConfig{
			CacheDir:     "cache/ai_outputs",
			ReportsDir:   "reports",
			AssetsDir:    "assets",
			TemplatesDir: "templates",
			FixturesDir:  "fixtures",
			LogsDir:      "logs",
		},
	}
}

func TestResolveOptions_ClientDefaults(t *testing.T) {
	resetFlags()
	flagInput = "meeting.txt"

	opts, err := resolveOptions(testConfig(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opts.reportType != entities.ReportTypeClient {
		t.Fatalf("expected client report type, got %s", opts.reportType)
	}
	if opts.template != filepath.Join("templates", "report_template.html") {
		t.Fatalf("unexpected template: %s", opts.template)
	}
	base := filepath.Base(opts.output)
	if !strings.HasPrefix(base, "report_") || !strings.HasSuffix(base, ".pdf") {
		t.Fatalf("unexpected output name: %s", opts.output)
	}
	if filepath.Dir(opts.output) != "reports" {
		t.Fatalf("expected output under reports/, got %s", opts.output)
	}
	if !opts.useCache {
		t.Fatal("expected cache enabled by default")
	}
}

func TestResolveOptions_DesignDefaults(t *testing.T) {
	resetFlags()
	flagInput = "meeting.txt"
	flagReportType = "design"

	opts, err := resolveOptions(testConfig(), 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opts.template != filepath.Join("templates", "design_report_template.html") {
		t.Fatalf("unexpected template: %s", opts.template)
	}
	if !strings.HasPrefix(filepath.Base(opts.output), "design_report_") {
		t.Fatalf("unexpected output name: %s", opts.output)
	}
}

func TestResolveOptions_ExplicitTemplateWins(t *testing.T) {
	resetFlags()
	flagInput = "meeting.txt"
	flagReportType = "design"
	flagTemplate = filepath.Join("custom", "minimal.html")

	opts, err := resolveOptions(testConfig(), 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opts.template != filepath.Join("custom", "minimal.html") {
		t.Fatalf("explicit template was overridden: %s", opts.template)
	}
	if opts.reportType != entities.ReportTypeDesign {
		t.Fatalf("expected design report type, got %s", opts.reportType)
	}
}

func TestResolveOptions_RejectsUnknownReportType(t *testing.T) {
	resetFlags()
	flagInput = "meeting.txt"
	flagReportType = "weekly"

	_, err := resolveOptions(testConfig(), 2)
	if err == nil {
		t.Fatal("expected an error for unknown report type")
	}
	if errors.CodeOf(err) != errors.ErrorCode_INPUT_INVALID {
		t.Fatalf("expected INPUT_INVALID, got %s", errors.CodeOf(err))
	}
}

func TestResolveOptions_NoCacheFlag(t *testing.T) {
	resetFlags()
	flagInput = "meeting.txt"
	flagNoCache = true

	opts, err := resolveOptions(testConfig(), 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opts.useCache {
		t.Fatal("expected cache disabled with --no-cache")
	}
}

func TestReadTranscript_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "call.txt")
	if err := os.WriteFile(path, []byte("Maria: We need a website.\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	transcript, err := readTranscript(&runOptions{input: path})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if transcript.Source != "call.txt" {
		t.Fatalf("unexpected source: %s", transcript.Source)
	}
	if transcript.Empty() {
		t.Fatal("expected non-empty transcript")
	}
}

func TestReadTranscript_MissingFileIsInputError(t *testing.T) {
	_, err := readTranscript(&runOptions{input: filepath.Join(t.TempDir(), "absent.txt")})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if errors.CodeOf(err) != errors.ErrorCode_INPUT_INVALID {
		t.Fatalf("expected INPUT_INVALID, got %s", errors.CodeOf(err))
	}
}

func TestImageDataURI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.png")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatalf("writing image: %v", err)
	}

	uri, err := imageDataURI(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(string(uri), "data:image/png;base64,") {
		t.Fatalf("unexpected data URI: %s", uri)
	}
}
