package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

const request = `# Project Description

Build a landing page website for **Evergreen Yards**, a landscaping company located in Austin, TX.

## Services

- Lawn Care - weekly mowing
- Hardscaping - patios and walls
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("REDIS_ADDR", "")
	outDir, asJSON, asYAML, jobID, retentionDays = "", false, false, "", 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeRequest(t *testing.T) (string, string) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.md")
	require.NoError(t, os.WriteFile(path, []byte(request), 0644))
	return dir, path
}

func TestResolveCommand(t *testing.T) {
	_, path := writeRequest(t)

	out, err := execute(t, "resolve", path)
	require.NoError(t, err)

	var spec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &spec))
	assert.Equal(t, "Evergreen Yards", spec["business_name"])
}

func TestGenerateCommand(t *testing.T) {
	dir, path := writeRequest(t)

	out, err := execute(t, "generate", path, "--out", filepath.Join(dir, "out"), "--job-id", "job-1")
	require.NoError(t, err)
	assert.Contains(t, out, "business: Evergreen Yards")
	assert.Contains(t, out, "delivery: ")
	assert.DirExists(t, filepath.Join(dir, "out", "versions", "job-1"))
}

func TestGenerateCommand_InvalidJobID(t *testing.T) {
	dir, path := writeRequest(t)

	_, err := execute(t, "generate", path, "--out", filepath.Join(dir, "out"), "--job-id", "../escaped")
	require.ErrorIs(t, err, domain.ErrInvalidJobID)
	assert.NoDirExists(t, filepath.Join(dir, "escaped"))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestReviewCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.php")
	require.NoError(t, os.WriteFile(path, []byte("<html><head><title>Acme</title></head></html>"), 0644))

	out, err := execute(t, "review", path)
	require.NoError(t, err)
	assert.Contains(t, out, "## Design Critique: Acme")
}

func TestCleanupCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "cleanup", "--out", dir, "--older-than", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 director(ies)")
}
