package domain

import "context"

// ReadingParser turns pasted or uploaded text into an analysis result
type ReadingParser interface {
	// Analyze normalizes raw text and fails with a parse error when no readings survive
	Analyze(raw, fileName string) (*AnalysisResult, error)
}

// RemoteAnalyzer sends a file to an external analysis service
type RemoteAnalyzer interface {
	// AnalyzeFile posts the file and reshapes the response into an analysis result
	AnalyzeFile(ctx context.Context, file UploadedFile) (*AnalysisResult, error)
}

// TextExtractor pulls plain text out of a document for local parsing
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}
