// File: pkg/config/config.go

// Package config layers command-line flags, environment variables, a config
// file and built-in defaults into the settings of a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/drengskapur/projcompile/pkg/compile"
	"github.com/drengskapur/projcompile/pkg/filter"
	"github.com/drengskapur/projcompile/pkg/render"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// EnvPrefix prefixes every environment variable read through viper.
	EnvPrefix = "PROJCOMPILE"
	// ConfigName is the config file name without extension.
	ConfigName = "projcompile"
	// TokenLimitEnvPrefix prefixes per-consumer token limit variables.
	TokenLimitEnvPrefix = "LLM_TOKEN_LIMIT_"
	// DefaultTokenLimit applies when a consumer has no configured limit.
	DefaultTokenLimit = 4000
)

// Settings mirrors the configurable surface of the compile command.
type Settings struct {
	Output         string          `mapstructure:"output"`
	Format         string          `mapstructure:"format"`
	IncludeExt     []string        `mapstructure:"include_ext"`
	ExcludeExt     []string        `mapstructure:"exclude_ext"`
	ExcludeDirs    []string        `mapstructure:"exclude_dirs"`
	ExcludeFiles   []string        `mapstructure:"exclude_files"`
	PatternInclude []string        `mapstructure:"pattern_include"`
	PatternExclude []string        `mapstructure:"pattern_exclude"`
	Ignore         []string        `mapstructure:"ignore"`
	StartMarker    string          `mapstructure:"start_marker"`
	EndMarker      string          `mapstructure:"end_marker"`
	NoMetadata     bool            `mapstructure:"no_metadata"`
	Metadata       map[string]bool `mapstructure:"metadata"`
	Limit          int64           `mapstructure:"limit"`
	Workers        int             `mapstructure:"workers"`
	Gitignore      bool            `mapstructure:"gitignore"`
	Tokenizer      string          `mapstructure:"tokenizer"`
	Model          string          `mapstructure:"model"`
}

// New returns a viper instance with defaults, environment lookup and the
// config search path set up.
func New() *viper.Viper {
	v := viper.New()
	markers := render.DefaultMarkers()

	v.SetDefault("output", compile.DefaultOutput)
	v.SetDefault("format", "markdown")
	v.SetDefault("include_ext", []string{})
	v.SetDefault("exclude_ext", []string{})
	v.SetDefault("exclude_dirs", filter.DefaultExcludeDirs)
	v.SetDefault("exclude_files", []string{})
	v.SetDefault("pattern_include", []string{})
	v.SetDefault("pattern_exclude", []string{})
	v.SetDefault("ignore", []string{})
	v.SetDefault("start_marker", markers.Start)
	v.SetDefault("end_marker", markers.End)
	v.SetDefault("no_metadata", false)
	v.SetDefault("metadata", map[string]bool{
		"file_size":     true,
		"last_modified": true,
		"creation_time": true,
		"permissions":   true,
		"owner":         true,
	})
	v.SetDefault("limit", 0)
	v.SetDefault("workers", 0)
	v.SetDefault("gitignore", false)
	v.SetDefault("tokenizer", "words")
	v.SetDefault("model", compile.DefaultTiktokenModel)
	v.SetDefault("token_limits", map[string]int{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads cfgFile, or searches $HOME/.config/projcompile and the working
// directory for projcompile.{yaml,toml,json}. A missing config file is not
// an error. It returns the file used, if any.
func Load(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Decode unmarshals the merged configuration.
func Decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return s, nil
}

// MetadataFields resolves the metadata toggles. NoMetadata turns every key
// off; otherwise keys missing from the map stay enabled.
func (s Settings) MetadataFields() render.MetadataFields {
	if s.NoMetadata {
		return render.NoMetadata()
	}
	on := func(key string) bool {
		enabled, ok := s.Metadata[key]
		return !ok || enabled
	}
	return render.MetadataFields{
		Size:        on("file_size"),
		Modified:    on("last_modified"),
		Created:     on("creation_time"),
		Permissions: on("permissions"),
		Owner:       on("owner"),
	}
}

// CompileOptions converts the settings into compile.Options for root.
func (s Settings) CompileOptions(root string) compile.Options {
	opts := compile.DefaultOptions(root)
	opts.Output = s.Output
	opts.Format = s.Format
	opts.Filter = filter.Config{
		IncludeExtensions: clean(s.IncludeExt),
		ExcludeExtensions: clean(s.ExcludeExt),
		IncludePatterns:   clean(s.PatternInclude),
		ExcludePatterns:   clean(s.PatternExclude),
		ExcludeDirs:       clean(s.ExcludeDirs),
		ExcludeFiles:      clean(s.ExcludeFiles),
		IgnorePatterns:    clean(s.Ignore),
		UseGitignore:      s.Gitignore,
	}
	opts.Markers = render.Markers{Start: s.StartMarker, End: s.EndMarker}
	opts.Metadata = s.MetadataFields()
	opts.Limit = s.Limit
	opts.Workers = s.Workers
	return opts
}

// TokenLimit resolves the token budget of a downstream consumer. The
// environment variable LLM_TOKEN_LIMIT_<NAME> wins over the config key
// token_limits.<name>; DefaultTokenLimit applies when neither is usable.
func TokenLimit(v *viper.Viper, name string, logger *zap.Logger) int {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := TokenLimitEnvPrefix + strings.ToUpper(strings.TrimSpace(name))
	if raw, ok := os.LookupEnv(key); ok {
		limit, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil && limit > 0 {
			logger.Info("Using token limit", zap.String("llm", name), zap.Int("limit", limit), zap.String("source", key))
			return limit
		}
		logger.Warn("Ignoring invalid token limit", zap.String("variable", key), zap.String("value", raw))
	}

	if v != nil {
		if limit := v.GetInt("token_limits." + strings.ToLower(strings.TrimSpace(name))); limit > 0 {
			logger.Info("Using token limit", zap.String("llm", name), zap.Int("limit", limit), zap.String("source", "config"))
			return limit
		}
	}

	logger.Info("Using token limit", zap.String("llm", name), zap.Int("limit", DefaultTokenLimit), zap.String("source", "default"))
	return DefaultTokenLimit
}

// clean trims entries and drops empty ones.
func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
