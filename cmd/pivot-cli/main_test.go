package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocdat202/pivot"
)

const salesCSV = `region,product,sales,quantity
North,Widget A,1200,100
North,Widget B,800,60
South,Widget A,1500,120
South,Widget B,950,75
North,Widget A,1400,115
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func csvLines(out string) []string {
	return strings.Split(strings.TrimSpace(out), "\n")
}

func TestProcess(t *testing.T) {
	data := writeFile(t, "sales.csv", salesCSV)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "automatic configuration",
			args: []string{"--format", "csv"},
			want: []string{
				`"Region","Sales","Quantity"`,
				`"Total","5850","470"`,
				`"North","3400","275"`,
				`"South","2450","195"`,
			},
		},
		{
			name: "explicit metric and aggregate",
			args: []string{"--group-by", "product", "--metric", "sales:max", "--format", "csv"},
			want: []string{
				`"Product","Sales"`,
				`"Total","1500"`,
				`"Widget A","1500"`,
				`"Widget B","950"`,
			},
		},
		{
			name: "filter",
			args: []string{"--filter", "region:equals:South", "--format", "csv"},
			want: []string{
				`"Region","Sales","Quantity"`,
				`"Total","2450","195"`,
				`"South","2450","195"`,
			},
		},
		{
			name: "expand",
			args: []string{"--group-by", "region,product", "--metric", "sales", "--expand", "North", "--format", "csv"},
			want: []string{
				`"Region, Product","Sales"`,
				`"Total","5850"`,
				`"North","3400"`,
				`"Widget A","2600"`,
				`"Widget B","800"`,
				`"South","2450"`,
			},
		},
		{
			name: "expand all",
			args: []string{"--group-by", "region,product", "--metric", "sales", "--expand-all", "--format", "csv"},
			want: []string{
				`"Region, Product","Sales"`,
				`"Total","5850"`,
				`"North","3400"`,
				`"Widget A","2600"`,
				`"Widget B","800"`,
				`"South","2450"`,
				`"Widget A","1500"`,
				`"Widget B","950"`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, append([]string{"process", data}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, csvLines(out))
		})
	}
}

func TestProcess_TextByDefault(t *testing.T) {
	out, _, err := run(t, "process", writeFile(t, "sales.csv", salesCSV))
	require.NoError(t, err)
	assert.Contains(t, out, "Region")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "North")
}

func TestProcess_SettingsFile(t *testing.T) {
	data := writeFile(t, "sales.csv", salesCSV)
	settings := writeFile(t, "view.yaml", `group_by: [product]
metrics: [quantity]
aggregates:
  quantity: avg
`)

	out, _, err := run(t, "process", data, "--settings", settings, "--format", "csv")
	require.NoError(t, err)
	lines := csvLines(out)
	require.Len(t, lines, 4)
	assert.Equal(t, `"Product","Quantity"`, lines[0])
	assert.Equal(t, `"Total","94"`, lines[1])
}

func TestProcess_OutputFile(t *testing.T) {
	data := writeFile(t, "sales.csv", salesCSV)
	out := filepath.Join(t.TempDir(), "report.json")

	_, _, err := run(t, "process", data, "--output", out)
	require.NoError(t, err)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"Region": "North"`)
}

func TestProcess_Explain(t *testing.T) {
	_, errOut, err := run(t, "process", writeFile(t, "sales.csv", salesCSV), "--format", "csv", "--explain")
	require.NoError(t, err)
	assert.Contains(t, errOut, "filter")
	assert.Contains(t, errOut, "group")
}

func TestProcess_Errors(t *testing.T) {
	data := writeFile(t, "sales.csv", salesCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"process", filepath.Join(t.TempDir(), "none.csv")}, "reading"},
		{"bad metric", []string{"process", data, "--metric", "sales:median"}, "median"},
		{"bad filter", []string{"process", data, "--filter", "sales:gt"}, "col:op:value"},
		{"bad operator", []string{"process", data, "--filter", "sales:between:1"}, "between"},
		{"bad sort", []string{"process", data, "--sort", "sales:up"}, "up"},
		{"unknown column", []string{"process", data, "--group-by", "country", "--validate"}, "country"},
		{"bad format", []string{"process", data, "--format", "pdf"}, "pdf"},
		{"missing config", []string{"process", data, "--config", "nowhere.yaml"}, "config file not found"},
		{"no arguments", []string{"process"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProcess_ConfigFile(t *testing.T) {
	data := writeFile(t, "sales.csv", salesCSV)
	cfg := writeFile(t, "pivot.yaml", "total_label: Grand total\n")
	defer pivot.SetEngineConfig(pivot.NewEngineConfig())

	out, _, err := run(t, "process", data, "--config", cfg, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, `"Grand total","5850","470"`, csvLines(out)[1])
}

func TestInspect(t *testing.T) {
	out, _, err := run(t, "inspect", writeFile(t, "sales.csv", salesCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "Rows: 5")
	assert.Contains(t, out, "Columns: 4")
	assert.Regexp(t, `region\s+string`, out)
	assert.Regexp(t, `sales\s+number`, out)
	assert.Contains(t, out, "Automatic settings:")
	assert.Contains(t, out, "- region")
}

func TestSettingsConvert(t *testing.T) {
	in := writeFile(t, "view.json", `{"group_by":["region"],"metrics":["sales"],"aggregates":{"sales":"avg"}}`)
	dir := t.TempDir()

	for _, target := range []string{"view.yaml", "view.msgpack", "view.token"} {
		t.Run(target, func(t *testing.T) {
			out := filepath.Join(dir, target)
			stdout, _, err := run(t, "settings", "convert", in, out)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Converted")

			s, err := pivot.LoadSettings(out)
			require.NoError(t, err)
			assert.Equal(t, []string{"region"}, s.GroupBy)
			assert.Equal(t, pivot.Avg, s.Aggregates["sales"])
		})
	}

	t.Run("explicit codec", func(t *testing.T) {
		out := filepath.Join(dir, "view.txt")
		_, _, err := run(t, "settings", "convert", in, out, "--to", "token")
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		decoded, err := pivot.DecodeSettings(data, "token")
		require.NoError(t, err)
		assert.Equal(t, []string{"sales"}, decoded.Metrics)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, _, err := run(t, "settings", "convert", in, filepath.Join(dir, "view.xml"))
		assert.Error(t, err)
	})
}

func TestSettingsShow(t *testing.T) {
	in := writeFile(t, "view.yaml", "group_by: [region]\nmetrics: [sales]\n")

	out, _, err := run(t, "settings", "show", in, "--as", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"group_by": [`)
	assert.Contains(t, out, `"region"`)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Pivot Table Engine")

	out, _, err = run(t, "version", "--short")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}
