package cli

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/domain/entities"
	"github.com/clientbrief/clientbrief/internal/infrastructure/cache"
	"github.com/clientbrief/clientbrief/internal/infrastructure/render"
	"github.com/clientbrief/clientbrief/internal/usecase/analysis"
	pkgai "github.com/clientbrief/clientbrief/pkg/ai"
	"github.com/clientbrief/clientbrief/pkg/config"
	"github.com/clientbrief/clientbrief/pkg/logging"
)

var (
	flagInput      string
	flagOutput     string
	flagTemplate   string
	flagReportType string
	flagNoCache    bool
	flagLogLevel   string
)

func init() {
	rootCmd.Flags().StringVarP(&flagInput, "input", "i", "", "Transcript file (default: stdin when piped, fixtures/sample_transcript.txt otherwise)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output PDF path (default: auto-generated in reports/ with timestamp)")
	rootCmd.Flags().StringVar(&flagTemplate, "template", "", "HTML template path (default: picked per report type under templates/)")
	rootCmd.Flags().StringVar(&flagReportType, "report-type", string(entities.ReportTypeClient), "Report type to generate: client or design")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Force fresh AI requests; the cache is still refreshed with the new result")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: LOG_LEVEL or info)")
}

// runOptions is the resolved form of the CLI flags for one run.
type runOptions struct {
	input      string
	output     string
	template   string
	reportType entities.ReportType
	useCache   bool
	startedAt  time.Time
}

func runGenerate(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.ErrConfigInvalid(err)
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Paths.LogsDir)
	if err != nil {
		return errors.ErrConfigInvalid(err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	opts, err := resolveOptions(cfg, cmd.Flags().NFlag())
	if err != nil {
		return err
	}

	logger.Info("starting report generation",
		zap.String("input", opts.input),
		zap.String("output", opts.output),
		zap.String("template", opts.template),
		zap.String("report_type", string(opts.reportType)),
		zap.Bool("cache", opts.useCache))

	source := opts.input
	if source == "" {
		source = "stdin"
	}
	fmt.Printf("\n[1/3] Reading transcript: %s\n", source)

	transcript, err := readTranscript(opts)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Read %d characters\n", transcript.Chars())

	store, err := cache.NewStore(cfg.Paths.CacheDir, logger)
	if err != nil {
		return errors.ErrCacheFailed("open cache", err)
	}
	assets, err := cache.NewAssetStore(cfg.Paths.AssetsDir, logger)
	if err != nil {
		return errors.ErrCacheFailed("open assets", err)
	}

	client := pkgai.NewClient(cfg.OpenAI, pkgai.PolicyFromConfig(cfg.Retry), logger)
	service := analysis.NewService(client, store, assets, logger)
	renderer := render.NewRenderer(logger)

	data := render.ReportContext{
		GenerationDate: opts.startedAt.Format("2006-01-02 15:04:05"),
		TranscriptName: transcript.Source,
	}

	ctx := cmd.Context()

	switch opts.reportType {
	case entities.ReportTypeDesign:
		fmt.Println("\n[2/3] Extracting design brief...")
		printCacheNote(opts.useCache)

		brief, err := service.GetDesignBrief(ctx, transcript, opts.useCache)
		if err != nil {
			return err
		}
		fmt.Println("✓ Design brief extracted")
		fmt.Printf("  Project: %s\n", brief.ProjectName)
		data.Brief = brief

		// The illustration is decoration. When it fails the report still
		// ships, with a note in its place.
		if path, imgErr := service.IllustrateBrief(ctx, brief, opts.useCache); imgErr != nil {
			if ctx.Err() != nil {
				return imgErr
			}
			logger.Error("report illustration failed", zap.Error(imgErr))
			fmt.Println("! Illustration failed, continuing without it")
			data.ImageFailed = true
		} else if uri, uriErr := imageDataURI(path); uriErr != nil {
			logger.Error("embedding report image failed", zap.Error(uriErr))
			data.ImageFailed = true
		} else {
			fmt.Println("✓ Illustration ready")
			data.ImageURI = uri
		}

	default:
		fmt.Println("\n[2/3] Analyzing dialogue with AI...")
		printCacheNote(opts.useCache)

		record, err := service.GetClientAnalysis(ctx, transcript, opts.useCache)
		if err != nil {
			return err
		}
		fmt.Println("✓ Analysis complete")
		fmt.Printf("  Client: %s\n", record.ClientName)
		fmt.Printf("  Topic:  %s\n", record.Topic)
		data.Analysis = record
	}

	fmt.Println("\n[3/3] Generating PDF report...")

	if _, err := os.Stat(opts.template); err != nil {
		return errors.ErrInputInvalid(fmt.Sprintf("template not found: %s", opts.template))
	}

	html, err := renderer.RenderHTML(opts.template, data)
	if err != nil {
		return err
	}
	size, err := renderer.WritePDF(ctx, html, opts.output)
	if err != nil {
		return err
	}

	report := buildReport(opts, transcript, size)
	printSummary(report)
	logger.Info("report generation completed",
		zap.String("path", report.Path),
		zap.Int64("bytes", report.SizeBytes))
	return nil
}

// resolveOptions turns flags into a concrete plan: which file to read, which
// template to render, where the PDF goes. With no flags at all on a terminal
// it falls back to the interactive picker.
func resolveOptions(cfg *config.Config, flagCount int) (*runOptions, error) {
	opts := &runOptions{
		input:      flagInput,
		output:     flagOutput,
		template:   flagTemplate,
		reportType: entities.ReportType(flagReportType),
		useCache:   !flagNoCache,
		startedAt:  time.Now(),
	}

	if !opts.reportType.Valid() {
		return nil, errors.ErrInputInvalid(fmt.Sprintf("unknown report type %q, expected client or design", flagReportType))
	}

	if opts.input == "" && !stdinPiped() {
		if flagCount == 0 {
			if err := pickInteractively(cfg, opts); err != nil {
				return nil, err
			}
		} else {
			opts.input = filepath.Join(cfg.Paths.FixturesDir, "sample_transcript.txt")
		}
	}

	if opts.template == "" {
		opts.template = filepath.Join(cfg.Paths.TemplatesDir, opts.reportType.TemplateName())
	}
	if opts.output == "" {
		opts.output = filepath.Join(cfg.Paths.ReportsDir, opts.reportType.Filename(opts.startedAt))
	}
	return opts, nil
}

func stdinPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

func readTranscript(opts *runOptions) (entities.Transcript, error) {
	if opts.input == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return entities.Transcript{}, errors.ErrInputInvalid(fmt.Sprintf("reading stdin: %v", err))
		}
		return entities.NewTranscript(string(data), "stdin"), nil
	}

	data, err := os.ReadFile(opts.input)
	if err != nil {
		if os.IsNotExist(err) {
			return entities.Transcript{}, errors.ErrInputInvalid(fmt.Sprintf("file not found: %s", opts.input))
		}
		return entities.Transcript{}, errors.ErrInputInvalid(fmt.Sprintf("reading %s: %v", opts.input, err))
	}
	return entities.NewTranscript(string(data), filepath.Base(opts.input)), nil
}

func printCacheNote(useCache bool) {
	if useCache {
		fmt.Println("  (cache enabled)")
	} else {
		fmt.Println("  (cache disabled, calling the AI)")
	}
}

func buildReport(opts *runOptions, transcript entities.Transcript, size int64) entities.Report {
	path := opts.output
	if abs, err := filepath.Abs(opts.output); err == nil {
		path = abs
	}
	return entities.Report{
		Type:        opts.reportType,
		Path:        path,
		Transcript:  transcript.Source,
		SizeBytes:   size,
		GeneratedAt: opts.startedAt,
	}
}

func printSummary(report entities.Report) {
	line := strings.Repeat("=", 60)
	fmt.Println("\n" + line)
	fmt.Println("DONE!")
	fmt.Println(line)
	fmt.Printf("Report: %s\n", report.Path)
	fmt.Printf("Size:   %.1f KB\n", float64(report.SizeBytes)/1024)
	fmt.Println(line)
}

// imageDataURI inlines a stored PNG so the PDF needs no filesystem access
// at render time.
func imageDataURI(path string) (template.URL, error) {
	png, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
