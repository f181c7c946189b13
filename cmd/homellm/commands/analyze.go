package commands

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/homellm/cmd/homellm/ui"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/ingest"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/pdf"
	"github.com/spherical/homellm/internal/readings"
)

var (
	analyzeLocal   bool
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Analyze a lab report",
	Long: `Analyze a lab report. PDFs are sent to the remote analysis service unless
--local is given, in which case their text layer is extracted and parsed here.
Other files are always parsed locally.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeLocal, "local", false, "extract PDF text locally instead of calling the remote service")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "remote analysis timeout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	parser := readings.NewParser(readings.ParserConfig{})
	path := args[0]

	var result *domain.AnalysisResult
	if analyzeLocal && pdf.IsPDF(path, "") {
		result, err = analyzePDFLocally(ctx, path, parser, logger)
	} else {
		file, rerr := readUpload(path)
		if rerr != nil {
			return rerr
		}

		var remote domain.RemoteAnalyzer
		if ingest.IsRemote(file) {
			client, cleanup, cerr := newAnalysisClient(ctx, cfg, parser, logger)
			if cerr != nil {
				return cerr
			}
			defer cleanup()
			remote = client
		}

		svc := ingest.NewService(parser, remote, logger)
		if remote != nil {
			spin := ui.NewSpinner("Analyzing " + file.Name + "...")
			spin.Start()
			result, err = svc.Analyze(ctx, file)
			spin.Stop()
		} else {
			result, err = svc.Analyze(ctx, file)
		}
	}
	if err != nil {
		return err
	}

	ui.Section("Analysis: " + result.FileName)
	if result.Model != "" {
		ui.KeyValue("Model", result.Model)
	}
	if result.ReviewedAt != "" {
		ui.KeyValue("Reviewed", result.ReviewedAt)
	}
	ui.Newline()
	printResult(result)
	return nil
}

func analyzePDFLocally(ctx context.Context, path string, parser *readings.Parser, logger *observability.Logger) (*domain.AnalysisResult, error) {
	spin := ui.NewSpinner("Extracting text from " + filepath.Base(path) + "...")
	spin.Start()
	text, err := pdf.NewExtractor(logger).ExtractText(ctx, path)
	spin.Stop()
	if err != nil {
		return nil, err
	}
	return parser.Analyze(text, filepath.Base(path))
}
