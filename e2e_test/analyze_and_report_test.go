//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/harmonycheck/cmd"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	server   *httptest.Server
	settings = cmd.Settings{RootPolicy: "tertian", DetectKey: true}
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "harmonycheck-e2e")
	if err != nil {
		panic(err.Error())
	}
	st, err := store.NewSQLite(filepath.Join(dir, "reports.db"))
	if err != nil {
		panic(err.Error())
	}
	srv, err := cmd.NewServer(st, settings)
	if err != nil {
		panic(err.Error())
	}
	server = httptest.NewServer(srv.Router("*"))

	exitVal := m.Run()

	server.Close()
	st.Close()
	os.RemoveAll(dir)
	os.Exit(exitVal)
}

// parallelFifths is G4-A4 over C4-D4 in quarters.
func parallelFifths(t *testing.T) []byte {
	mf := smf.New()
	mf.TimeFormat = smf.MetricTicks(480)

	var upper smf.Track
	upper.Add(0, gomidi.NoteOn(0, 67, 100))
	upper.Add(480, gomidi.NoteOff(0, 67))
	upper.Add(0, gomidi.NoteOn(0, 69, 100))
	upper.Add(480, gomidi.NoteOff(0, 69))
	upper.Close(0)

	var lower smf.Track
	lower.Add(0, gomidi.NoteOn(0, 60, 100))
	lower.Add(480, gomidi.NoteOff(0, 60))
	lower.Add(0, gomidi.NoteOn(0, 62, 100))
	lower.Add(480, gomidi.NoteOff(0, 62))
	lower.Close(0)

	mf.Tracks = append(mf.Tracks, upper, lower)

	var buf bytes.Buffer
	_, err := mf.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestAnalyzeMidiE2E(t *testing.T) {
	data := parallelFifths(t)
	req, err := http.NewRequest(http.MethodPost, server.URL+"/analyze", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "audio/midi")
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	require.Equal(t, 200, resp.StatusCode, string(respBody))
	assert.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))

	var analyzeResponse model.AnalyzeResponse
	require.NoError(t, json.Unmarshal(respBody, &analyzeResponse))
	assert.Equal(settings.ReportID(data, "audio/midi"), analyzeResponse.ID)
	assert.Equal(1, analyzeResponse.Report.ErrorsByType[model.ParallelFifths])
	assert.Equal(2, analyzeResponse.Report.Statistics.TotalVoices)
	assert.Equal(1, analyzeResponse.Report.Statistics.MeasuresAnalyzed)

	got, err := http.Get(server.URL + "/reports/" + analyzeResponse.ID)
	require.NoError(t, err)
	defer got.Body.Close()
	require.Equal(t, 200, got.StatusCode)

	var stored model.StoredReport
	require.NoError(t, json.NewDecoder(got.Body).Decode(&stored))
	assert.Equal(analyzeResponse.Report.TotalErrors, stored.Report.TotalErrors)
}

func TestAnalyzeRejectsSingleVoiceE2E(t *testing.T) {
	body := []byte(`{"voices":[{"events":[{"pitches":["C4"],"offset":0,"duration":1}]}]}`)
	resp, err := http.Post(server.URL+"/analyze", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
