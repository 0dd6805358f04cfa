package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/arloliu/cyclenc/cyclical"
)

// Default configuration values.
const (
	DefaultConfigFile  = "cyclenc.yaml"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultCompression = "zstd"

	envPrefix = "CYCLENC_"
)

// Config is the merged CLI configuration.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Encode EncodeConfig `koanf:"encode"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// EncodeConfig holds defaults for the encode command.
type EncodeConfig struct {
	SinSuffix   string   `koanf:"sin_suffix"`
	CosSuffix   string   `koanf:"cos_suffix"`
	Compression string   `koanf:"compression"`
	Features    []string `koanf:"features"`
}

// flagKeys maps flag names to config keys. Flags not listed here are
// command arguments rather than configuration.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"log-format":  "log.format",
	"sin-suffix":  "encode.sin_suffix",
	"cos-suffix":  "encode.cos_suffix",
	"compression": "encode.compression",
	"feature":     "encode.features",
}

// LoadConfig loads configuration from defaults, a YAML file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// cfgFile may be empty, in which case ./cyclenc.yaml is used when it exists.
// Only flags that were explicitly set override lower layers.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"log.level":          DefaultLogLevel,
		"log.format":         DefaultLogFormat,
		"encode.sin_suffix":  cyclical.DefaultSinSuffix,
		"encode.cos_suffix":  cyclical.DefaultCosSuffix,
		"encode.compression": DefaultCompression,
	}, "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// CYCLENC_ENCODE_SIN_SUFFIX -> encode.sin_suffix
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, used, nil
}

// findConfigFile returns the explicit path, or the default file when it exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}

	return ""
}

// FeatureSpecs flattens the configured features. Entries may hold several
// comma-separated specs, as environment variables do.
func (c EncodeConfig) FeatureSpecs() []string {
	specs := make([]string, 0, len(c.Features))
	for _, entry := range c.Features {
		for _, spec := range strings.Split(entry, ",") {
			if spec = strings.TrimSpace(spec); spec != "" {
				specs = append(specs, spec)
			}
		}
	}

	return specs
}
