package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleCSV = "name,age,city\nAda,36,London\nAlan,41,\nGrace,85,Arlington\nLinus,54,Portland\nKen,80,London\n"

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileTable(t *testing.T) {
	out, err := run(t, "profile", writeSample(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "people.csv: 5 rows, 3 columns (profiled 5 rows)"))
	assert.Contains(t, out, "Column")
	assert.Contains(t, out, "London (2)")
	assert.Contains(t, out, "# CSV Insights Report")
}

func TestProfileJSON(t *testing.T) {
	out, err := run(t, "profile", "--format", "json", writeSample(t))
	require.NoError(t, err)

	var doc profileOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 5, doc.RowCount)
	assert.Equal(t, []string{"name", "age", "city"}, doc.Profile.Headers)
	col, ok := doc.Profile.Column("age")
	require.True(t, ok)
	assert.Equal(t, "number", string(col.Type))
}

func TestProfileYAMLUsesCamelCase(t *testing.T) {
	out, err := run(t, "profile", "-f", "yaml", "--rows", "2", writeSample(t))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 5, doc["rowCount"])
	prof := doc["profile"].(map[string]interface{})
	assert.Equal(t, 2, prof["rowCount"])
	assert.Equal(t, 1, prof["schemaVersion"])
}

func TestProfileErrors(t *testing.T) {
	_, err := run(t, "profile", "--format", "xml", writeSample(t))
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "profile", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("a\n1\n"), 0o644))
	_, err = run(t, "profile", txt)
	assert.ErrorContains(t, err, "not_csv")

	_, err = run(t, "profile")
	assert.Error(t, err)
}

func TestAskWithMockProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "mock")
	out, err := run(t, "ask", writeSample(t), "Which", "city", "repeats?")
	require.NoError(t, err)
	assert.Contains(t, out, `"Which city repeats?"`)
}
