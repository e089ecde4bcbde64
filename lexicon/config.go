package lexicon

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidConfig is returned for configuration values that cannot be used
// to build a lexicon.
var ErrInvalidConfig = errors.New("invalid config")

// ErrUnknownLanguage is returned when no built-in tables exist for a language.
var ErrUnknownLanguage = errors.New("unknown language")

// ExcludeAll, given as the only exclude_suffixes entry, disables metric
// suffixes entirely.
const ExcludeAll = "all"

// separators lists the thousands separators that may be excluded. "." is
// accepted as well and disables decimal-point floats.
var separators = []string{",", ".", "_", "'", " "}

// Config holds parse options. It is treated as an immutable value: components
// keep their own Clone.
type Config struct {
	Language          string   `mapstructure:"language" yaml:"language" json:"language"`
	SignsAllowed      bool     `mapstructure:"signs_allowed" yaml:"signs_allowed" json:"signs_allowed"`
	ParseComplex      bool     `mapstructure:"parse_complex" yaml:"parse_complex" json:"parse_complex"`
	BoundedNumbers    bool     `mapstructure:"bounded_numbers" yaml:"bounded_numbers" json:"bounded_numbers"`
	MixedNums         bool     `mapstructure:"mixed_nums" yaml:"mixed_nums" json:"mixed_nums"`
	Merge             bool     `mapstructure:"merge" yaml:"merge" json:"merge"`
	MergeMultiples    bool     `mapstructure:"merge_multiples" yaml:"merge_multiples" json:"merge_multiples"`
	MergeImplied      bool     `mapstructure:"merge_implied" yaml:"merge_implied" json:"merge_implied"`
	MergePoints       bool     `mapstructure:"merge_points" yaml:"merge_points" json:"merge_points"`
	MergeInformals    bool     `mapstructure:"merge_informals" yaml:"merge_informals" json:"merge_informals"`
	ExcludeSeparators []string `mapstructure:"exclude_separators" yaml:"exclude_separators" json:"exclude_separators"`
	ExcludeSuffixes   []string `mapstructure:"exclude_suffixes" yaml:"exclude_suffixes" json:"exclude_suffixes"`
}

// DefaultConfig returns the default options: English, unsigned, unbounded,
// mixed numbers on, merging of multiples and informals on, and the "m"
// (milli) and "y" (yocto) suffixes excluded as too ambiguous in prose.
func DefaultConfig() Config {
	return Config{
		Language:        "en",
		MixedNums:       true,
		Merge:           true,
		MergeMultiples:  true,
		MergeInformals:  true,
		ExcludeSuffixes: []string{"m", "y"},
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.ExcludeSeparators = slices.Clone(c.ExcludeSeparators)
	c.ExcludeSuffixes = slices.Clone(c.ExcludeSuffixes)
	return c
}

// Validate checks the values that do not depend on the lexicon tables.
func (c Config) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("lexicon: %w: empty language", ErrInvalidConfig)
	}
	for _, sep := range c.ExcludeSeparators {
		if !slices.Contains(separators, sep) {
			return fmt.Errorf("lexicon: %w: unknown separator %q", ErrInvalidConfig, sep)
		}
	}
	if slices.Contains(c.ExcludeSuffixes, ExcludeAll) && len(c.ExcludeSuffixes) != 1 {
		return fmt.Errorf("lexicon: %w: %q must be the only excluded suffix", ErrInvalidConfig, ExcludeAll)
	}
	return nil
}

// excludesAllSuffixes reports whether suffix recognition is disabled.
func (c Config) excludesAllSuffixes() bool {
	return len(c.ExcludeSuffixes) == 1 && c.ExcludeSuffixes[0] == ExcludeAll
}

// allowsSeparator reports whether sep is not excluded.
func (c Config) allowsSeparator(sep string) bool {
	return !slices.Contains(c.ExcludeSeparators, sep)
}
