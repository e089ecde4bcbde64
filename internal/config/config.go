// Package config loads numscan settings from a YAML file, NUMSCAN_*
// environment variables and command-line flags, in increasing order of
// precedence, on top of the library defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/az-ai-labs/numscan/internal/logging"
	"github.com/az-ai-labs/numscan/lexicon"
)

// envPrefix is the environment variable prefix: lexicon.signs_allowed is
// read from NUMSCAN_LEXICON_SIGNS_ALLOWED.
const envPrefix = "NUMSCAN"

// ErrInvalid is wrapped by settings that fail validation outside the
// lexicon configuration.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full set of command settings.
type Config struct {
	Lexicon lexicon.Config `mapstructure:"lexicon" yaml:"lexicon"`
	Log     logging.Config `mapstructure:"log" yaml:"log"`
	Workers int            `mapstructure:"workers" yaml:"workers"`
}

// Default returns the library defaults with one worker.
func Default() Config {
	return Config{
		Lexicon: lexicon.DefaultConfig(),
		Log:     logging.DefaultConfig(),
		Workers: 1,
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Lexicon.Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: %w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: %w: log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"language":          "lexicon.language",
	"signs":             "lexicon.signs_allowed",
	"complex":           "lexicon.parse_complex",
	"bounded":           "lexicon.bounded_numbers",
	"mixed":             "lexicon.mixed_nums",
	"merge":             "lexicon.merge",
	"merge-multiples":   "lexicon.merge_multiples",
	"merge-implied":     "lexicon.merge_implied",
	"merge-points":      "lexicon.merge_points",
	"merge-informals":   "lexicon.merge_informals",
	"exclude-separator": "lexicon.exclude_separators",
	"exclude-suffix":    "lexicon.exclude_suffixes",
	"log-level":         "log.level",
	"log-format":        "log.format",
	"workers":           "workers",
}

// New returns a viper instance carrying the defaults and bound to the
// NUMSCAN_ environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	d := Default()
	v.SetDefault("lexicon.language", d.Lexicon.Language)
	v.SetDefault("lexicon.signs_allowed", d.Lexicon.SignsAllowed)
	v.SetDefault("lexicon.parse_complex", d.Lexicon.ParseComplex)
	v.SetDefault("lexicon.bounded_numbers", d.Lexicon.BoundedNumbers)
	v.SetDefault("lexicon.mixed_nums", d.Lexicon.MixedNums)
	v.SetDefault("lexicon.merge", d.Lexicon.Merge)
	v.SetDefault("lexicon.merge_multiples", d.Lexicon.MergeMultiples)
	v.SetDefault("lexicon.merge_implied", d.Lexicon.MergeImplied)
	v.SetDefault("lexicon.merge_points", d.Lexicon.MergePoints)
	v.SetDefault("lexicon.merge_informals", d.Lexicon.MergeInformals)
	v.SetDefault("lexicon.exclude_separators", d.Lexicon.ExcludeSeparators)
	v.SetDefault("lexicon.exclude_suffixes", d.Lexicon.ExcludeSuffixes)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output_paths", d.Log.OutputPaths)
	v.SetDefault("workers", d.Workers)
	return v
}

// RegisterFlags adds one flag per setting to fs. Flag defaults mirror
// Default so help output is accurate; viper only honours flags that were
// set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("language", d.Lexicon.Language, "lexicon language")
	fs.Bool("signs", d.Lexicon.SignsAllowed, "accept signed numbers and negative words")
	fs.Bool("complex", d.Lexicon.ParseComplex, "recognize imaginary literals such as 4j")
	fs.Bool("bounded", d.Lexicon.BoundedNumbers, "require numbers to stand apart from letters")
	fs.Bool("mixed", d.Lexicon.MixedNums, "join digits and number words in one phrase")
	fs.Bool("merge", d.Lexicon.Merge, "merge adjacent annotations")
	fs.Bool("merge-multiples", d.Lexicon.MergeMultiples, "merge a number with a following scale word")
	fs.Bool("merge-implied", d.Lexicon.MergeImplied, "reserved")
	fs.Bool("merge-points", d.Lexicon.MergePoints, "reserved")
	fs.Bool("merge-informals", d.Lexicon.MergeInformals, "merge a number with a following informal quantity")
	fs.StringSlice("exclude-separator", d.Lexicon.ExcludeSeparators, "digit-group separators to reject (, . _ ' space)")
	fs.StringSlice("exclude-suffix", d.Lexicon.ExcludeSuffixes, `metric suffixes to ignore, or "all"`)
	fs.String("log-level", d.Log.Level, "log level: debug, info, warn, error")
	fs.String("log-format", d.Log.Format, "log format: json or console")
}

// BindFlags binds every known flag present in fs to its key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the YAML file at path into v when path is not empty, then
// unmarshals and validates the merged settings.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
