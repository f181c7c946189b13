package analysis

import "strings"

// AnalysisPath is appended to a base URL to reach the analysis route.
const AnalysisPath = "/water-analysis"

// EndpointSources lists the places an analysis endpoint can come from.
type EndpointSources struct {
	Override    string // explicit URL, used as-is
	BaseURL     string // configured API base
	EnvEndpoint string
	EnvBaseURL  string
}

// ResolveEndpoint picks the endpoint by precedence: explicit override,
// configured base URL, environment endpoint, environment base URL.
// It returns "" when nothing is configured.
func ResolveEndpoint(s EndpointSources) string {
	if v := strings.TrimSpace(s.Override); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.BaseURL); v != "" {
		return joinPath(v)
	}
	if v := strings.TrimSpace(s.EnvEndpoint); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.EnvBaseURL); v != "" {
		return joinPath(v)
	}
	return ""
}

func joinPath(base string) string {
	return strings.TrimRight(base, "/") + AnalysisPath
}
