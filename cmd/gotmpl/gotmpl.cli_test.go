package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testTemplateContent = "Hello, {{.user | upper}}!"
	testDataJSON        = `{"user": "alice"}`
	testDataYAML        = "user: alice\n"
	testExpectedOutput  = "Hello, ALICE!"
	testInvalidContent  = "{{if .x}}unclosed"
)

// setupTestData creates test files in a temp directory
func setupTestData(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	templatePath := filepath.Join(tmpDir, "template.txt")
	require.NoError(t, os.WriteFile(templatePath, []byte(testTemplateContent), FilePermissions))

	dataPath := filepath.Join(tmpDir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(testDataJSON), FilePermissions))

	yamlPath := filepath.Join(tmpDir, "data.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(testDataYAML), FilePermissions))

	invalidPath := filepath.Join(tmpDir, "invalid.txt")
	require.NoError(t, os.WriteFile(invalidPath, []byte(testInvalidContent), FilePermissions))

	return tmpDir
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	stdin := strings.NewReader("")

	exitCode := run(nil, stdin, stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Contains(t, stdout.String(), CmdNameRender)
	assert.Contains(t, stdout.String(), CmdNameAnalyze)
}

func TestRun_UnknownCommand(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	stdin := strings.NewReader("")

	exitCode := run([]string{"unknown"}, stdin, stdout, stderr)

	assert.Equal(t, ExitCodeUsageError, exitCode)
	assert.Contains(t, stdout.String(), ErrMsgUnknownCommand)
}

func TestRun_VersionCommand(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	stdin := strings.NewReader("")

	exitCode := run([]string{CmdNameVersion}, stdin, stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Contains(t, stdout.String(), "gotmpl version")
}

// ==================== render command tests ====================

func TestRender_WithInlineData(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameRender,
		"-t", filepath.Join(tmpDir, "template.txt"),
		"-d", testDataJSON,
	}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Equal(t, testExpectedOutput, stdout.String())
}

func TestRender_WithDataFile(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameRender,
		"-t", filepath.Join(tmpDir, "template.txt"),
		"-f", filepath.Join(tmpDir, "data.json"),
	}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Equal(t, testExpectedOutput, stdout.String())
}

func TestRender_WithYAMLDataFile(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameRender,
		"-t", filepath.Join(tmpDir, "template.txt"),
		"-f", filepath.Join(tmpDir, "data.yaml"),
	}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Equal(t, testExpectedOutput, stdout.String())
}

func TestRender_TemplateFromStdin(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameRender,
		"-t", InputSourceStdin,
		"-d", testDataJSON,
	}, strings.NewReader(testTemplateContent), stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Equal(t, testExpectedOutput, stdout.String())
}

func TestRender_OutputToFile(t *testing.T) {
	tmpDir := setupTestData(t)
	outPath := filepath.Join(tmpDir, "out.txt")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameRender,
		"-t", filepath.Join(tmpDir, "template.txt"),
		"-d", testDataJSON,
		"-o", outPath,
	}, strings.NewReader(""), stdout, stderr)

	require.Equal(t, ExitCodeSuccess, exitCode)
	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, testExpectedOutput, string(content))
}

func TestRender_MissingTemplate(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{CmdNameRender}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeUsageError, exitCode)
	assert.Contains(t, stderr.String(), ErrMsgMissingTemplate)
}

func TestRender_InvalidTemplate(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameRender,
		"-t", filepath.Join(tmpDir, "invalid.txt"),
	}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeError, exitCode)
	assert.Contains(t, stderr.String(), ErrMsgRenderFailed)
}

// ==================== lint command tests ====================

func TestLint_ValidTemplate(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameLint,
		"-t", filepath.Join(tmpDir, "template.txt"),
	}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Contains(t, stdout.String(), LintTextValid)
}

func TestLint_InvalidTemplate(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameLint,
		"-t", filepath.Join(tmpDir, "invalid.txt"),
	}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeLintError, exitCode)
	assert.Contains(t, stdout.String(), LintTextParseError)
}

func TestLint_JSONOutput(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameLint,
		"-t", filepath.Join(tmpDir, "template.txt"),
		"-F", OutputFormatJSON,
	}, strings.NewReader(""), stdout, stderr)

	require.Equal(t, ExitCodeSuccess, exitCode)

	var output lintOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &output))
	assert.True(t, output.Valid)
}

// ==================== analyze command tests ====================

func TestAnalyze_TextOutput(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameAnalyze,
		"-t", filepath.Join(tmpDir, "template.txt"),
	}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Contains(t, stdout.String(), "upper")
	assert.Contains(t, stdout.String(), ".user")
}

func TestAnalyze_JSONOutput(t *testing.T) {
	tmpDir := setupTestData(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{
		CmdNameAnalyze,
		"-t", filepath.Join(tmpDir, "template.txt"),
		"-F", OutputFormatJSON,
	}, strings.NewReader(""), stdout, stderr)

	require.Equal(t, ExitCodeSuccess, exitCode)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Contains(t, decoded, "functions")
}

// ==================== funcs command tests ====================

func TestFuncs_ListsRegisteredHelpers(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{CmdNameFuncs}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeSuccess, exitCode)
	assert.Contains(t, stdout.String(), "upper")
	assert.Contains(t, stdout.String(), "coalesce")
}

func TestFuncs_InvalidFormat(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run([]string{CmdNameFuncs, "-F", "xml"}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCodeUsageError, exitCode)
	assert.Contains(t, stderr.String(), ErrMsgInvalidFormat)
}
