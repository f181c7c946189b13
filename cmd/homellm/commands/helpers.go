package commands

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spherical/homellm/internal/analysis"
	"github.com/spherical/homellm/internal/cache"
	"github.com/spherical/homellm/internal/config"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/readings"
)

// loadConfig reads the --config file, falling back to CONFIG_PATH.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return config.Load(path)
}

// newLogger logs to stderr; debug output only with --verbose.
func newLogger(cfg *config.Config) *observability.Logger {
	if !verbose {
		return observability.NopLogger()
	}
	logCfg := cfg.LogConfig("homellm-cli")
	logCfg.Level = "debug"
	logCfg.Output = os.Stderr
	return observability.NewLogger(logCfg)
}

// newAnalysisClient builds the remote client with the configured cache.
// The returned cleanup closes the cache.
func newAnalysisClient(ctx context.Context, cfg *config.Config, parser *readings.Parser, logger *observability.Logger) (*analysis.Client, func(), error) {
	var responseCache cache.Client
	if cfg.Cache.Backend == "redis" {
		rc, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, domain.ConfigError("failed to connect to redis cache", err)
		}
		responseCache = rc
	} else {
		responseCache = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	client := analysis.NewClient(analysis.ClientConfig{
		Endpoint: cfg.AnalysisEndpoint(),
		APIKey:   cfg.Analysis.APIKey,
		Model:    cfg.Analysis.Model,
		Parser:   parser,
		Cache:    responseCache,
		CacheTTL: cfg.Analysis.CacheTTL,
		Logger:   logger,
	})
	return client, func() { _ = responseCache.Close() }, nil
}

// readUpload loads a file from disk the way the API receives uploads.
func readUpload(path string) (domain.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadedFile{}, domain.IOError("failed to read "+path, err)
	}
	return domain.UploadedFile{
		Name:     filepath.Base(path),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
		Data:     data,
	}, nil
}

// readingRows renders readings as table rows.
func readingRows(result *domain.AnalysisResult) [][]string {
	rows := make([][]string, 0, len(result.Entries))
	for _, r := range result.Entries {
		limit := "-"
		if r.Reference != nil && r.Reference.MCL != nil {
			limit = readings.FormatValue(*r.Reference.MCL) + " " + r.Reference.Unit
		}
		unit := r.Unit
		if unit == "" {
			unit = "-"
		}
		rows = append(rows, []string{r.Parameter, readings.FormatValue(r.Value), unit, limit, string(r.Status)})
	}
	return rows
}

// writeFindings lists graded exceedances, highest severity first, each with
// its recommended action.
func writeFindings(w io.Writer, findings []readings.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "  · No urgent contaminant findings.")
		return
	}
	for _, f := range findings {
		fmt.Fprintf(w, "  %s %s Action: %s\n", severityMarker(f.Severity), f.Message, f.Action)
	}
}

func severityMarker(s readings.Severity) string {
	switch s {
	case readings.SeverityHigh:
		return "!"
	case readings.SeverityMedium:
		return "-"
	}
	return "·"
}

var readingHeaders = []string{"PARAMETER", "VALUE", "UNIT", "LIMIT", "STATUS"}
