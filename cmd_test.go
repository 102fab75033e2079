package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart_email_generator/generator"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCmd_Raw(t *testing.T) {
	out, err := runCmd(t, "--provider", "mock", "generate", "--raw", "Team", "Offsite")
	require.NoError(t, err)
	assert.Contains(t, out, "Subject: Team Offsite")
}

func TestGenerateCmd_JSONWithFollowUp(t *testing.T) {
	out, err := runCmd(t, "--provider", "mock", "generate", "--json", "--chain", "--follow-up", "Agenda attached", "Team Offsite")
	require.NoError(t, err)

	var results []generator.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.NotEmpty(t, results[0].Analysis)
	assert.Equal(t, "Agenda attached", results[1].Email.SubjectLine)
	assert.Contains(t, results[1].Prompt, "Human: Team Offsite")
}

func TestGenerateCmd_Formatted(t *testing.T) {
	out, err := runCmd(t, "--provider", "mock", "generate", "--tone", "friendly", "Welcome")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome")
}

func TestGenerateCmd_NeedsSubject(t *testing.T) {
	_, err := runCmd(t, "--provider", "mock", "generate")
	assert.Error(t, err)
}

func TestGenerateCmd_UnknownProvider(t *testing.T) {
	_, err := runCmd(t, "--provider", "nope", "generate", "x")
	assert.ErrorContains(t, err, "not supported")
}

func TestSamplesCmd(t *testing.T) {
	out, err := runCmd(t, "samples")
	require.NoError(t, err)
	assert.Equal(t, generator.SampleSubjects, strings.Split(strings.TrimSpace(out), "\n"))
}
