package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/az-ai-labs/numscan/entity"
	"github.com/az-ai-labs/numscan/extract"
	"github.com/az-ai-labs/numscan/normalize"
	"github.com/az-ai-labs/numscan/numtext"
	"github.com/az-ai-labs/numscan/tokenizer"
)

// Output formats of the parse command.
const (
	formatJSON  = "json"
	formatTable = "table"
)

func newParseCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Print the numbers found in text",
		Long: "Print every number found in the arguments, or in standard input when\n" +
			"there are none, with its value, type and byte span.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			anns := a.engine.Parse(text)
			switch format {
			case formatJSON:
				return writeJSONLines(cmd.OutOrStdout(), anns)
			case formatTable:
				writeTable(cmd.OutOrStdout(), anns)
				return nil
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or table")
	return cmd
}

func writeJSONLines[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, anns []extract.Annotation) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Text", "Value", "Type", "Value Type", "Start", "End", "Suffix"})
	table.SetAutoFormatHeaders(false)
	for _, a := range anns {
		table.Append([]string{
			a.Text,
			formatValue(a.Value),
			a.NumberType.String(),
			a.ValueType.String(),
			strconv.Itoa(a.Start),
			strconv.Itoa(a.End),
			a.Suffix,
		})
	}
	table.Render()
}

// formatValue prints v without an exponent.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <phrase...>",
		Short: "Convert a number phrase to its value",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			v, ok := numtext.Parse(text, a.lex)
			if !ok {
				return fmt.Errorf("convert: no number in %q", strings.TrimSpace(text))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
			return err
		},
	}
}

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <text...>",
		Short: "Print text in the canonical spacing used for classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), normalize.Normalize(text, a.lex))
			return err
		},
	}
}

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <text...>",
		Short: "Print the word tokens of text as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return writeJSONLines(cmd.OutOrStdout(), tokenizer.WordTokens(text))
		},
	}
}

func newEntitiesCmd(a *app) *cobra.Command {
	var (
		patterns []string
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "entities [text...]",
		Short: "Label text with regex patterns, then numbers",
		Long: "Run an extraction pipeline over text: every --pattern label=regex in\n" +
			"order, then the number recognizer on whatever is left. Labeled tokens\n" +
			"are printed as JSON lines.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var recognizers []entity.Recognizer
			if len(patterns) > 0 {
				ps, err := parsePatterns(patterns)
				if err != nil {
					return err
				}
				rec, err := entity.NewPatternRecognizer(ps...)
				if err != nil {
					return err
				}
				recognizers = append(recognizers, rec)
			}
			recognizers = append(recognizers, extract.NewRecognizer(a.engine))

			tokens := entity.NewPipeline(recognizers...).
				WithConcurrency(a.cfg.Workers).
				WithLogger(a.logger).
				Extract(text)
			if !all {
				typed := tokens[:0]
				for _, t := range tokens {
					if t.Typed() {
						typed = append(typed, t)
					}
				}
				tokens = typed
			}
			return writeJSONLines(cmd.OutOrStdout(), tokens)
		},
	}
	cmd.Flags().StringArrayVarP(&patterns, "pattern", "p", nil, "entity pattern as label=regex (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "also print unlabeled tokens")
	return cmd
}

func parsePatterns(specs []string) ([]entity.Pattern, error) {
	out := make([]entity.Pattern, 0, len(specs))
	for _, s := range specs {
		label, expr, ok := strings.Cut(s, "=")
		if !ok || label == "" || expr == "" {
			return nil, fmt.Errorf("pattern %q: want label=regex", s)
		}
		out = append(out, entity.Pattern{Entity: label, Expr: expr})
	}
	return out, nil
}

func newSpellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spell <integer>",
		Short: "Print the English words for an integer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(strings.ReplaceAll(args[0], "_", ""), 10, 64)
			if err != nil {
				return fmt.Errorf("spell: %w", err)
			}
			words := numtext.Spell(n)
			if words == "" {
				return fmt.Errorf("spell: %d is out of range", n)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), words)
			return err
		},
	}
}
