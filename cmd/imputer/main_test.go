package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/imputer/pkg/frame"
	"github.com/wdm0006/imputer/pkg/io/jsonlio"
	"github.com/wdm0006/imputer/pkg/io/parquetio"
)

const survey = `Age,Gender,Income
25,Male,50000
,Female,60000
35,,
,Female,50000
`

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func readOut(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "imputer "+version+"\n", out)
}

func TestUsageErrors(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "no config provided")

	code, _, _ = runCLI(t, "-no-such-flag")
	assert.Equal(t, 2, code)

	code, _, errOut = runCLI(t, "-config", "x.json", "-profile", "xml")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unsupported profile format")
}

func TestBatchMostFrequent(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "survey.csv", survey)
	out := filepath.Join(dir, "out.csv")
	cfg := writeFile(t, dir, "c.json", `{
		"input": {"path": "`+in+`"},
		"output": {"path": "`+out+`"},
		"imputer": {"strategy": "most_frequent", "numeric_only": false},
		"log_level": "error"
	}`)

	code, _, errOut := runCLI(t, "-config", cfg)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Age,Gender,Income\n"+
		"25,Male,50000\n"+
		"25,Female,60000\n"+
		"35,Female,50000\n"+
		"25,Female,50000\n", readOut(t, out))
}

func TestBatchNumericOnlyLeavesCategorical(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "survey.csv", survey)
	out := filepath.Join(dir, "out.csv")
	cfg := writeFile(t, dir, "c.yaml", "input:\n  path: "+in+"\noutput:\n  path: "+out+"\nimputer:\n  strategy: median\n")

	code, _, errOut := runCLI(t, "-config", cfg, "-log-level", "error")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Age,Gender,Income\n"+
		"25,Male,50000\n"+
		"30,Female,60000\n"+
		"35,,50000\n"+
		"30,Female,50000\n", readOut(t, out))
}

func TestResidualMissingIsLogged(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "survey.csv", survey)
	cfg := writeFile(t, dir, "c.toml", "[input]\npath = \""+in+"\"\n[output]\npath = \""+filepath.Join(dir, "o.csv")+"\"\n")

	code, _, errOut := runCLI(t, "-config", cfg, "-log-level", "warn")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "missing values remain after imputation")
}

func TestStreamWithFitTable(t *testing.T) {
	dir := t.TempDir()
	fit := writeFile(t, dir, "fit.csv", "x,y\n1,a\n3,b\n5,b\n")
	in := writeFile(t, dir, "in.csv", "x,y\n,a\n2,\n,c\n4,a\n")
	out := filepath.Join(dir, "out.jsonl")
	cfg := writeFile(t, dir, "c.json", `{
		"input": {"path": "`+in+`"},
		"fit": {"path": "`+fit+`"},
		"output": {"path": "`+out+`"},
		"imputer": {"numeric_only": false, "categorical_strategy": "most_frequent"}
	}`)

	code, _, errOut := runCLI(t, "-config", cfg, "-chunk-size", "2", "-log-level", "error")
	require.Equal(t, 0, code, errOut)

	f, err := jsonlio.Read(out, jsonlio.ReaderOptions{})
	require.NoError(t, err)
	require.Equal(t, 4, f.Rows())
	xs, _ := f.ColumnByName("x")
	ys, _ := f.ColumnByName("y")
	var gotX []float64
	var gotY []string
	for r := 0; r < f.Rows(); r++ {
		x, _ := xs.Get(r).Float()
		y, _ := ys.Get(r).Str()
		gotX = append(gotX, x)
		gotY = append(gotY, y)
	}
	assert.Equal(t, []float64{3, 2, 3, 4}, gotX)
	assert.Equal(t, []string{"a", "b", "c", "a"}, gotY)
}

func TestUnknownColumnFails(t *testing.T) {
	dir := t.TempDir()
	fit := writeFile(t, dir, "fit.csv", "x\n1\n2\n")
	in := writeFile(t, dir, "in.csv", "x,z\n1,\n,2\n")
	cfg := writeFile(t, dir, "c.json", `{"input":{"path":"`+in+`"},"fit":{"path":"`+fit+`"},
		"output":{"path":"`+filepath.Join(dir, "o.csv")+`"}}`)

	code, _, errOut := runCLI(t, "-config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "was not present when the imputer was fitted")
	_, err := os.Stat(filepath.Join(dir, "o.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestBadStrategyIsUsageError(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "x\n1\n")
	cfg := writeFile(t, dir, "c.json", `{"input":{"path":"`+in+`"},"imputer":{"strategy":"avg"}}`)
	code, _, errOut := runCLI(t, "-config", cfg)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "invalid strategy")
}

func TestConfigErrorsAreUsageErrors(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"c.ini":  "[input]\npath = in.csv\n",
		"c.json": `{"output":{"path":"out.csv"}}`,
	} {
		code, _, errOut := runCLI(t, "-config", writeFile(t, dir, name, body))
		assert.Equal(t, 2, code, name)
		assert.Contains(t, errOut, "invalid", name)
	}

	code, _, _ := runCLI(t, "-config", filepath.Join(dir, "absent.json"))
	assert.Equal(t, 1, code)
}

func TestParquetNullMarker(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.parquet")
	require.NoError(t, parquetio.WriteAll(in, frame.MustNew(
		frame.MustColumn("x", frame.KindInt, 1, nil, 3),
	)))

	for _, chunk := range []string{"0", "2"} {
		out := filepath.Join(dir, "out"+chunk+".csv")
		cfg := writeFile(t, dir, "c"+chunk+".json", `{
			"input": {"path": "`+in+`"},
			"output": {"path": "`+out+`"},
			"imputer": {"missing_values": "null"},
			"require_complete": true,
			"log_level": "error"
		}`)
		code, _, errOut := runCLI(t, "-config", cfg, "-chunk-size", chunk)
		require.Equal(t, 0, code, errOut)
		assert.Equal(t, "x\n1\n2\n3\n", readOut(t, out), "chunk size %s", chunk)
	}
}

func TestProfileReports(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "survey.csv", survey)
	cfg := writeFile(t, dir, "c.json", `{"input":{"path":"`+in+`"},"output":{"path":"`+filepath.Join(dir, "o.csv")+`"},"log_level":"error"}`)

	code, out, errOut := runCLI(t, "-config", cfg, "-profile", "text")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "- Age (float, numeric): count=2 missing=2")
	assert.Contains(t, out, `"Female": 2`)

	code, out, errOut = runCLI(t, "-config", cfg, "-profile", "json", "-chunk-size", "3")
	require.Equal(t, 0, code, errOut)
	var rep struct {
		Columns []struct {
			Name    string `json:"name"`
			Missing int    `json:"missing"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Columns, 3)
	missing := map[string]int{}
	for _, c := range rep.Columns {
		missing[c.Name] = c.Missing
	}
	assert.Equal(t, map[string]int{"Age": 2, "Gender": 1, "Income": 1}, missing)
}

func TestPlotIsWritten(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "survey.csv", survey)
	plotPath := filepath.Join(dir, "missing.png")
	cfg := writeFile(t, dir, "c.json", `{"input":{"path":"`+in+`"},"output":{"path":"`+filepath.Join(dir, "o.csv")+`"},"log_level":"error"}`)

	code, _, errOut := runCLI(t, "-config", cfg, "-plot", plotPath)
	require.Equal(t, 0, code, errOut)
	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
	assert.False(t, strings.Contains(errOut, "ERR"))
}

func TestAliasesAndRequireComplete(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "x,city\n1,Oslo\n-,n/a\n3, Oslo\n")
	out := filepath.Join(dir, "out.csv")
	body := `{"input":{"path":"` + in + `"},"output":{"path":"` + out + `"},
		"trim": true, "missing_aliases": ["-", "n/a"], "require_complete": true,
		"imputer": {"numeric_only": %s, "categorical_strategy": "most_frequent"}, "log_level": "error"}`

	strict := writeFile(t, dir, "strict.json", strings.Replace(body, "%s", "true", 1))
	code, _, errOut := runCLI(t, "-config", strict)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "column city has 1 missing values")

	full := writeFile(t, dir, "full.json", strings.Replace(body, "%s", "false", 1))
	code, _, errOut = runCLI(t, "-config", full)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "x,city\n1,Oslo\n2,Oslo\n3,Oslo\n", readOut(t, out))
}
