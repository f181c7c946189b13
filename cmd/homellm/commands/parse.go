package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spherical/homellm/cmd/homellm/ui"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/ingest"
	"github.com/spherical/homellm/internal/readings"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse lab result files locally",
	Long: `Parse CSV, TSV, JSON or plain-text lab results without contacting the
remote analysis service. PDFs need "homellm analyze".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var parseCanonical bool

func init() {
	parseCmd.Flags().BoolVar(&parseCanonical, "canonical", false, "print each result as tab-delimited text that re-parses to the same readings")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	files := make([]domain.UploadedFile, 0, len(args))
	for _, path := range args {
		file, err := readUpload(path)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	svc := ingest.NewService(readings.NewParser(readings.ParserConfig{}), nil, logger)

	eventCh := make(chan ingest.Event, 4*len(files)+2)
	bar := ui.NewProgressBar(int64(len(files)), "Parsing")
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range eventCh {
			switch event.Type {
			case ingest.EventFileProcessing:
				bar.Describe(event.FileName)
			case ingest.EventFileComplete, ingest.EventError:
				bar.Set(int64(event.Index + 1))
			}
		}
	}()

	outcomes := svc.AnalyzeBatch(context.Background(), files, eventCh)
	close(eventCh)
	<-done
	bar.Finish()

	failed := 0
	for _, o := range outcomes {
		ui.Section(o.FileName)
		if o.Err != nil {
			failed++
			ui.Error("%s", domain.UserMessage(o.Err))
			continue
		}
		if parseCanonical {
			fmt.Print(readings.CanonicalText(o.Result))
			continue
		}
		printResult(o.Result)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be parsed", failed, len(files))
	}
	return nil
}

// printResult shows the readings table, graded findings and summary.
func printResult(result *domain.AnalysisResult) {
	ui.Table(readingHeaders, readingRows(result))
	ui.Newline()
	if len(result.Exceedances) > 0 {
		ui.Warning("%d reading(s) exceed reference limits", len(result.Exceedances))
	} else {
		ui.Success("No readings exceed reference limits")
	}
	writeFindings(os.Stdout, readings.Findings(result))
	if result.Summary != "" {
		ui.Newline()
		fmt.Println(result.Summary)
	}
}
