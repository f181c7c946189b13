package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/homellm/cmd/homellm-api/handlers"
	"github.com/spherical/homellm/internal/analysis"
	"github.com/spherical/homellm/internal/composer"
	"github.com/spherical/homellm/internal/dataset"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/guidance"
	"github.com/spherical/homellm/internal/ingest"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/readings"
	"github.com/spherical/homellm/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithRemote(t, nil)
}

// newTestServerWithRemote builds the API with client as the remote
// analyzer; nil leaves remote analysis off.
func newTestServerWithRemote(t *testing.T, client *analysis.Client) *httptest.Server {
	t.Helper()

	examples, err := dataset.Load()
	require.NoError(t, err)

	parser := readings.NewParser(readings.ParserConfig{})
	var remote domain.RemoteAnalyzer
	if client != nil {
		remote = client
	}
	svc := &Services{
		Parser:   parser,
		Analyzer: ingest.NewService(parser, remote, nil),
		Store:    session.NewStore(),
		Examples: examples,
	}

	srv := httptest.NewServer(NewRouter(observability.NopLogger(), svc, DefaultAppConfig()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/compose", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestGuidanceEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("ready snapshot", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/guidance?issue=water-quality&recipient=utility&escalation=formal&urgency=high&state=Texas", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		snap := decode[guidance.Snapshot](t, resp)
		assert.True(t, snap.Ready)
		require.NotNil(t, snap.Issue)
		assert.Equal(t, "water-quality", snap.Issue.Code)
		assert.NotEmpty(t, snap.StateRefs)
	})

	t.Run("incomplete snapshot", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/guidance?issue=unknown", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		snap := decode[guidance.Snapshot](t, resp)
		assert.False(t, snap.Ready)
		assert.Equal(t, guidance.IncompleteSelectionMessage, snap.Message)
	})

	t.Run("tables", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/guidance/tables", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		opts := decode[guidance.Options](t, resp)
		assert.Len(t, opts.Issues, 5)
		assert.Len(t, opts.Recipients, 7)
		assert.Len(t, opts.States, 4)
	})

	t.Run("dataset", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/dataset", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		ds := decode[handlers.DatasetResponseDTO](t, resp)
		assert.Equal(t, 3, ds.Count)
	})
}

func TestCompose(t *testing.T) {
	srv := newTestServer(t)

	form := domain.DefaultFormState()
	form.Location = "Building C"
	form.City = "Austin"

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/compose", handlers.ComposeRequestDTO{
		Form:        form,
		Attachments: []domain.Attachment{{Name: "photo.jpg"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	email := decode[handlers.EmailDTO](t, resp)
	expected := composer.BuildEmail(form, []domain.Attachment{{Name: "photo.jpg"}})
	assert.Equal(t, expected.Subject, email.Subject)
	assert.Equal(t, expected.Body, email.Body)
	assert.Equal(t, expected.Text(), email.Text)
	assert.Equal(t, composer.DownloadFilename, email.Filename)
}

func TestCompose_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/compose", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestParseReadings(t *testing.T) {
	srv := newTestServer(t)

	t.Run("parses pasted text", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/readings/parse", handlers.ParseRequestDTO{
			Text: "Parameter,Value,Unit\nLead,0.02,mg/L\nNitrate,3,mg/L",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		result := decode[handlers.ParseResponseDTO](t, resp)
		require.NotNil(t, result.AnalysisResult)
		assert.Equal(t, "pasted-readings.txt", result.FileName)
		assert.Len(t, result.Entries, 2)
		assert.Len(t, result.Exceedances, 1)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, "Lead", result.Findings[0].Parameter)
		assert.Equal(t,
			"Parameter\tValue\tUnit\tStatus\tReference\nLead\t0.02\tmg/L\texceeds\t0.015 mg/L\nNitrate\t3\tmg/L\twithin\t10 mg/L\n",
			result.CanonicalText)
	})

	t.Run("values too large to round are dropped", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/readings/parse", handlers.ParseRequestDTO{
			Text: "Lead,1e305,mg/L\nCopper,1.1,mg/L",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		result := decode[handlers.ParseResponseDTO](t, resp)
		require.NotNil(t, result.AnalysisResult)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "Copper", result.Entries[0].Parameter)
	})

	t.Run("no numeric readings", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/readings/parse", handlers.ParseRequestDTO{
			Text: "nothing to see here",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		body := decode[map[string]string](t, resp)
		assert.Equal(t, string(domain.ErrorTypeParse), body["detail"])
	})
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions/", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[handlers.SessionResponseDTO](t, resp)
	require.NotNil(t, created.Session)
	id := created.Session.ID
	base := srv.URL + "/api/v1/sessions/" + id

	assert.Equal(t, domain.DefaultFormState(), created.Session.State.Form)

	// no email yet
	resp = doJSON(t, http.MethodGet, base+"/email", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/events", map[string]string{
		"type": "field_changed", "name": "location", "value": "Unit 4B",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[handlers.SessionResponseDTO](t, resp)
	assert.Equal(t, "Unit 4B", updated.Session.State.Form.Location)

	resp = doJSON(t, http.MethodPost, base+"/events", map[string]string{"type": "email_generated"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	generated := decode[handlers.SessionResponseDTO](t, resp)
	assert.Equal(t, session.StatusMessage(session.EmailGenerated{}), generated.Status)
	assert.True(t, strings.HasPrefix(generated.Session.State.GeneratedEmail, "Subject: "))

	resp = doJSON(t, http.MethodGet, base+"/email", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), composer.DownloadFilename)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))

	resp = doJSON(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionEvents_Invalid(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions/", nil)
	created := decode[handlers.SessionResponseDTO](t, resp)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.Session.ID+"/events", map[string]string{"type": "launch"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions/missing/events", map[string]string{"type": "reset"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func upload(t *testing.T, url, name, content string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSessionUploadAnalysis(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions/", nil)
	created := decode[handlers.SessionResponseDTO](t, resp)
	base := srv.URL + "/api/v1/sessions/" + created.Session.ID

	t.Run("local text is parsed and applied", func(t *testing.T) {
		resp := upload(t, base+"/analysis", "lab.csv", "Lead,0.02,mg/L")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[handlers.SessionResponseDTO](t, resp)
		require.NotNil(t, body.Session.State.Analysis)
		assert.Equal(t, "lab.csv", body.Session.State.Analysis.FileName)
		assert.Equal(t, body.Session.State.Analysis.Summary, body.Session.State.Form.Measurements)
		assert.Equal(t, "Parsed 1 reading(s) from lab.csv.", body.Status)
	})

	t.Run("failure leaves the session untouched", func(t *testing.T) {
		before := decode[handlers.SessionResponseDTO](t, doJSON(t, http.MethodGet, base, nil))

		resp := upload(t, base+"/analysis", "notes.txt", "no numbers here")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		after := decode[handlers.SessionResponseDTO](t, doJSON(t, http.MethodGet, base, nil))
		assert.Equal(t, before.Session.State, after.Session.State)
	})

	t.Run("pdf without remote analysis configured", func(t *testing.T) {
		resp := upload(t, base+"/analysis", "lab.pdf", "%PDF-1.4")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("missing session", func(t *testing.T) {
		resp := upload(t, srv.URL+"/api/v1/sessions/missing/analysis", "lab.csv", "Lead,0.02,mg/L")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSessionUploadAnalysis_SessionAPIKey(t *testing.T) {
	var auth string
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"entries":[{"parameter":"Lead","value":0.03,"unit":"mg/L"}]}`))
	}))
	t.Cleanup(remote.Close)

	newSession := func(t *testing.T, srv *httptest.Server) string {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions/", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return srv.URL + "/api/v1/sessions/" + decode[handlers.SessionResponseDTO](t, resp).Session.ID
	}

	t.Run("session key is sent and never echoed", func(t *testing.T) {
		srv := newTestServerWithRemote(t, analysis.NewClient(analysis.ClientConfig{Endpoint: remote.URL}))
		base := newSession(t, srv)

		resp := doJSON(t, http.MethodPost, base+"/events", map[string]string{
			"type": "field_changed", "name": "apiKey", "value": "user-key-123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = upload(t, base+"/analysis", "lab.pdf", "%PDF-1.4 session")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Bearer user-key-123", auth)

		resp = doJSON(t, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var raw bytes.Buffer
		_, err := raw.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, raw.String(), "user-key-123")
		assert.NotContains(t, raw.String(), "apiKey")
	})

	t.Run("server key is the fallback", func(t *testing.T) {
		srv := newTestServerWithRemote(t, analysis.NewClient(analysis.ClientConfig{Endpoint: remote.URL, APIKey: "server-key"}))
		base := newSession(t, srv)

		resp := upload(t, base+"/analysis", "lab.pdf", "%PDF-1.4 fallback")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Bearer server-key", auth)
	})

	t.Run("no key anywhere", func(t *testing.T) {
		srv := newTestServerWithRemote(t, analysis.NewClient(analysis.ClientConfig{Endpoint: remote.URL}))
		base := newSession(t, srv)

		resp := upload(t, base+"/analysis", "lab.pdf", "%PDF-1.4 nokey")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
