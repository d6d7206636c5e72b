package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exportTestSession archives the push_back scenario to a fresh database
// and returns the database path.
func exportTestSession(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewExportCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "scenarios", "push_back.yaml"), "--db", dbPath})
	require.NoError(t, cmd.Execute())

	return dbPath
}

func TestReplayList(t *testing.T) {
	dbPath := exportTestSession(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "cli-session-1\n", buf.String())
}

func TestReplayListEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no archived sessions")
}

func TestReplaySession(t *testing.T) {
	dbPath := exportTestSession(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath, "cli-session-1"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "session:  cli-session-1")
	assert.Contains(t, output, "budget:   9500")
	assert.Contains(t, output, "N1 -> OPT_B")
	assert.Contains(t, output, "EXP_N1: DONE_OK")
	assert.Contains(t, output, "deviations: 0")
	assert.Contains(t, output, "SEQ_A")
}

func TestReplaySessionJSON(t *testing.T) {
	dbPath := exportTestSession(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath, "cli-session-1"})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestReplayUnknownSession(t *testing.T) {
	dbPath := exportTestSession(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath, "no-such-session"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "E203")
}
