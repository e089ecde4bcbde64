package main

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/az-ai-labs/numscan/entity"
	"github.com/az-ai-labs/numscan/extract"
	"github.com/az-ai-labs/numscan/internal/config"
	"github.com/az-ai-labs/numscan/internal/metrics"
)

// chunkSize is the largest piece of a file handed to the extractor at once.
// Files are split on line breaks where possible.
const chunkSize = 1 << 20

type scanOptions struct {
	ext        string
	metricsOut string
}

// scanStats aggregates the results of all files.
type scanStats struct {
	mu          sync.Mutex
	files       int
	bytes       int64
	annotations map[string]int
	failed      []string
}

func newScanCmd(a *app) *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Extract numbers from every text file under a directory",
		Long: "Walk dir, extract numbers from each matching file, verify that every\n" +
			"span points at its text and that the pipeline tokens rebuild the file,\n" +
			"and print counts by number type.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scan(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().Int("workers", config.Default().Workers, "files processed concurrently")
	cmd.Flags().StringVar(&opts.ext, "ext", ".txt", "file extension to scan")
	cmd.Flags().StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile")
	return cmd
}

func (a *app) scan(ctx context.Context, out io.Writer, dir string, opts scanOptions) error {
	paths, err := collectFiles(dir, opts.ext)
	if err != nil {
		return err
	}
	a.logger.Info("scan started", zap.String("dir", dir), zap.Int("files", len(paths)))

	stats := &scanStats{annotations: make(map[string]int)}
	rec := metrics.New()
	pipeline := entity.NewPipeline(extract.NewRecognizer(a.engine)).WithLogger(a.logger)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a.scanFile(path, pipeline, stats, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if opts.metricsOut != "" {
		if err := rec.WriteTextfile(opts.metricsOut); err != nil {
			return err
		}
	}
	printStats(out, stats, elapsed)
	a.logger.Info("scan finished", zap.Int("files", stats.files), zap.Duration("took", elapsed))

	if len(stats.failed) > 0 {
		return fmt.Errorf("scan: %d of %d files failed checks", len(stats.failed), len(paths))
	}
	return nil
}

func collectFiles(dir, ext string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan: walk %s: %w", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// scanFile extracts numbers from one file and checks the span and cover
// properties of the results.
func (a *app) scanFile(path string, pipeline *entity.Pipeline, stats *scanStats, rec *metrics.Recorder) {
	log := a.logger.With(zap.String("file", path))
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		log.Error("read failed", zap.Error(err))
		rec.ObserveError(metrics.KindRead)
		stats.fail(path)
		return
	}

	fileStart := time.Now()
	var types []string
	ok := true
	for _, chunk := range splitChunks(data, chunkSize) {
		text := string(chunk)
		for _, ann := range a.engine.Parse(text) {
			types = append(types, ann.NumberType.String())
			if ann.Start < 0 || ann.End > len(text) || text[ann.Start:ann.End] != ann.Text {
				log.Warn("span mismatch", zap.Stringer("annotation", ann))
				rec.ObserveError(metrics.KindSpan)
				ok = false
			}
		}
		if !covers(text, pipeline.Extract(text)) {
			log.Warn("pipeline tokens do not rebuild the text")
			rec.ObserveError(metrics.KindCoverage)
			ok = false
		}
	}
	took := time.Since(fileStart)
	rec.ObserveFile(len(data), types, took)
	log.Debug("scanned", zap.Int("annotations", len(types)), zap.Duration("took", took))

	stats.add(len(data), types)
	if !ok {
		stats.fail(path)
	}
}

// covers reports whether tokens are contiguous from 0 and concatenate to
// text.
func covers(text string, tokens []entity.Token) bool {
	if text == "" {
		return len(tokens) == 0
	}
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, t := range tokens {
		if t.Start != pos || text[t.Start:t.End] != t.Text {
			return false
		}
		b.WriteString(t.Text)
		pos = t.End
	}
	return pos == len(text) && b.String() == text
}

// splitChunks cuts data into pieces of at most size bytes, after the last
// newline when one exists and otherwise on a rune boundary.
func splitChunks(data []byte, size int) [][]byte {
	var out [][]byte
	for len(data) > size {
		cut := bytes.LastIndexByte(data[:size], '\n') + 1
		if cut == 0 {
			cut = size
			for cut > 0 && !utf8.RuneStart(data[cut]) {
				cut--
			}
			if cut == 0 {
				cut = size
			}
		}
		out = append(out, data[:cut])
		data = data[cut:]
	}
	if len(data) > 0 {
		out = append(out, data)
	}
	return out
}

func (s *scanStats) add(size int, types []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files++
	s.bytes += int64(size)
	for _, t := range types {
		s.annotations[t]++
	}
}

func (s *scanStats) fail(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, path)
}

func printStats(w io.Writer, s *scanStats, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	type count struct {
		name string
		n    int
	}
	counts := make([]count, 0, len(s.annotations))
	for name, n := range s.annotations {
		counts = append(counts, count{name, n})
		total += n
	}
	slices.SortFunc(counts, func(a, b count) int {
		if c := cmp.Compare(b.n, a.n); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	fmt.Fprintf(w, "files:       %d\n", s.files)
	fmt.Fprintf(w, "bytes:       %d\n", s.bytes)
	fmt.Fprintf(w, "annotations: %d\n", total)
	for _, c := range counts {
		fmt.Fprintf(w, "  %-12s %d\n", c.name, c.n)
	}
	slices.Sort(s.failed)
	fmt.Fprintf(w, "failed:      %d\n", len(s.failed))
	for _, p := range s.failed {
		fmt.Fprintf(w, "  %s\n", p)
	}
	fmt.Fprintf(w, "took:        %s\n", elapsed.Round(time.Millisecond))
}
