package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/numscan/entity"
	"github.com/az-ai-labs/numscan/extract"
	"github.com/az-ai-labs/numscan/tokenizer"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeLines[T any](t *testing.T, out string) []T {
	t.Helper()
	var items []T
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var it T
		require.NoError(t, json.Unmarshal(sc.Bytes(), &it), sc.Text())
		items = append(items, it)
	}
	require.NoError(t, sc.Err())
	return items
}

func TestParseCommand(t *testing.T) {
	t.Parallel()
	out, err := run(t, "", "parse", "I have 3 apples")
	require.NoError(t, err)

	anns := decodeLines[extract.Annotation](t, out)
	require.Len(t, anns, 1)
	assert.Equal(t, extract.Annotation{
		Text: "3", Value: 3, Start: 7, End: 8,
		NumberType: extract.Integer, ValueType: extract.IntegerValue,
	}, anns[0])
}

func TestParseCommandStdin(t *testing.T) {
	t.Parallel()
	out, err := run(t, "twenty five apples\n", "parse")
	require.NoError(t, err)

	anns := decodeLines[extract.Annotation](t, out)
	require.Len(t, anns, 1)
	assert.Equal(t, 25.0, anns[0].Value)
	assert.Equal(t, extract.Spoken, anns[0].NumberType)
}

func TestParseCommandTable(t *testing.T) {
	t.Parallel()
	out, err := run(t, "", "parse", "--format", "table", "twenty five apples and 2.5k users")
	require.NoError(t, err)
	assert.Contains(t, out, "Value Type")
	assert.Contains(t, out, "twenty five")
	assert.Contains(t, out, "2.5k")
	assert.Contains(t, out, "2500")
	assert.Contains(t, out, "spoken")
}

func TestParseCommandErrors(t *testing.T) {
	t.Parallel()

	_, err := run(t, "  \n", "parse")
	require.ErrorIs(t, err, errNoInput)

	_, err = run(t, "", "parse", "--format", "xml", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestLexiconFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		text  string
		value float64
	}{
		{"unsigned", []string{"parse"}, "minus five degrees", 5},
		{"signs", []string{"parse", "--signs"}, "minus five degrees", -5},
		{"complex", []string{"parse", "--complex"}, "z = 4j", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := run(t, "", append(tt.args, tt.text)...)
			require.NoError(t, err)
			anns := decodeLines[extract.Annotation](t, out)
			require.Len(t, anns, 1)
			assert.Equal(t, tt.value, anns[0].Value)
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "numscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lexicon:\n  signs_allowed: true\n"), 0o600))

	out, err := run(t, "", "--config", path, "parse", "minus five degrees")
	require.NoError(t, err)
	anns := decodeLines[extract.Annotation](t, out)
	require.Len(t, anns, 1)
	assert.Equal(t, "minus five", anns[0].Text)
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()
	_, err := run(t, "", "--exclude-separator", "#", "parse", "3")
	require.Error(t, err)

	_, err = run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "parse", "3")
	require.Error(t, err)
}

func TestConvertCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"two", "million,", "three", "hundred", "thousand"}, "2300000\n"},
		{[]string{"two point five"}, "2.5\n"},
		{[]string{"0xff"}, "255\n"},
		{[]string{"minus two dozen"}, "-24\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			out, err := run(t, "", append([]string{"convert"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	_, err := run(t, "", "convert", "invalid text")
	require.Error(t, err)
}

func TestNormalizeCommand(t *testing.T) {
	t.Parallel()
	out, err := run(t, "", "normalize", "twenty-five")
	require.NoError(t, err)
	assert.Equal(t, "twenty five\n", out)
}

func TestTokenizeCommand(t *testing.T) {
	t.Parallel()
	out, err := run(t, "", "tokenize", "I have 3")
	require.NoError(t, err)

	tokens := decodeLines[tokenizer.Token](t, out)
	require.NotEmpty(t, tokens)
	last := tokens[len(tokens)-1]
	assert.Equal(t, "3", last.Text)
	assert.Equal(t, tokenizer.Number, last.Type)
}

func TestEntitiesCommand(t *testing.T) {
	t.Parallel()
	out, err := run(t, "", "entities", "-p", `unit=\bkg\b`, "add 2 kg and twenty grams")
	require.NoError(t, err)

	var labeled []string
	for _, tok := range decodeLines[entity.Token](t, out) {
		labeled = append(labeled, tok.Entity+":"+tok.Text)
	}
	assert.Equal(t, []string{"number:2", "unit:kg", "number:twenty"}, labeled)
}

func TestEntitiesCommandAll(t *testing.T) {
	t.Parallel()
	const text = "add 2 kg"
	out, err := run(t, "", "entities", "--all", text)
	require.NoError(t, err)
	assert.True(t, covers(text, decodeLines[entity.Token](t, out)))
}

func TestEntitiesCommandBadPattern(t *testing.T) {
	t.Parallel()
	_, err := run(t, "", "entities", "-p", "nolabel", "x")
	require.Error(t, err)

	_, err = run(t, "", "entities", "-p", "bad=(", "x")
	require.Error(t, err)
}

func TestSpellCommand(t *testing.T) {
	t.Parallel()
	out, err := run(t, "", "spell", "42")
	require.NoError(t, err)
	assert.Equal(t, "forty-two\n", out)

	out, err = run(t, "", "spell", "--", "-42")
	require.NoError(t, err)
	assert.Equal(t, "minus forty-two\n", out)

	_, err = run(t, "", "spell", "forty")
	require.Error(t, err)

	_, err = run(t, "", "spell", "9223372036854775807")
	require.Error(t, err)
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":     "I have 3 apples and twenty five pears.\n",
		"sub/b.txt": "The 21st runner finished 2.5k metres ahead.\nNothing here.\n",
		"c.md":      "ignored 42\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	return dir
}

func TestScanCommand(t *testing.T) {
	t.Parallel()
	dir := writeCorpus(t)
	prom := filepath.Join(t.TempDir(), "numscan.prom")

	out, err := run(t, "", "scan", "--workers", "2", "--metrics-out", prom, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "files:       2\n")
	assert.Contains(t, out, "failed:      0\n")
	assert.Contains(t, out, "ordinal")
	assert.Contains(t, out, "spoken")

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "numscan_files_total 2")
	assert.Contains(t, string(data), `numscan_annotations_total{number_type="ordinal"} 1`)
}

func TestScanCommandExt(t *testing.T) {
	t.Parallel()
	out, err := run(t, "", "scan", "--ext", ".md", writeCorpus(t))
	require.NoError(t, err)
	assert.Contains(t, out, "files:       1\n")
	assert.Contains(t, out, "annotations: 1\n")
}

func TestScanCommandMissingDir(t *testing.T) {
	t.Parallel()
	_, err := run(t, "", "scan", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestSplitChunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		size int
		want []string
	}{
		{"fits", "abc", 5, []string{"abc"}},
		{"empty", "", 5, nil},
		{"newline", "ab\ncd\nef", 6, []string{"ab\ncd\n", "ef"}},
		{"hard cut", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"rune boundary", "aé", 2, []string{"a", "é"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []string
			for _, c := range splitChunks([]byte(tt.data), tt.size) {
				got = append(got, string(c))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCovers(t *testing.T) {
	t.Parallel()
	const text = "add 2"
	assert.True(t, covers(text, []entity.Token{
		{Text: "add ", Start: 0, End: 4},
		{Text: "2", Entity: "number", Start: 4, End: 5},
	}))
	assert.False(t, covers(text, []entity.Token{{Text: "add ", Start: 0, End: 4}}))
	assert.False(t, covers(text, []entity.Token{
		{Text: "add ", Start: 0, End: 4},
		{Text: "x", Start: 4, End: 5},
	}))
	assert.True(t, covers("", nil))
}

func TestParsePatterns(t *testing.T) {
	t.Parallel()
	got, err := parsePatterns([]string{"unit=kg|g", "eq=a=b"})
	require.NoError(t, err)
	assert.Equal(t, []entity.Pattern{{Entity: "unit", Expr: "kg|g"}, {Entity: "eq", Expr: "a=b"}}, got)

	for _, bad := range []string{"", "=x", "x="} {
		_, err := parsePatterns([]string{bad})
		assert.Error(t, err, bad)
	}
}
