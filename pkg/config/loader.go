package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	gsterrors "github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/logging"
	"github.com/infraguys/genesis-templates/pkg/settings"
)

// LoadOptions selects the layers Load applies on top of the defaults.
type LoadOptions struct {
	// ConfigFile is an explicit config file. It must exist when set.
	// When empty the user config file is loaded if present.
	ConfigFile string
	// Overrides are dotted keys set from command-line flags.
	Overrides map[string]interface{}

	SkipUserConfig bool
	SkipEnv        bool
}

// DefaultConfigPath is the per-user config file location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, logging.AppName, "config.toml")
}

// Load builds a Config from defaults, config file, environment and
// overrides, in that order. It does not validate the result.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, gsterrors.Wrap(err, gsterrors.ErrConfigLoad, "failed to load default configuration")
	}

	// 2. Config file
	path, required := opts.ConfigFile, true
	if path == "" && !opts.SkipUserConfig {
		path, required = DefaultConfigPath(), false
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if required || !errors.Is(err, os.ErrNotExist) {
				return nil, gsterrors.Wrapf(err, gsterrors.ErrConfigLoad, "cannot read config file %s", path).
					WithDetail("path", path)
			}
		} else {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, gsterrors.Wrapf(err, gsterrors.ErrConfigLoad, "failed to load config file %s", path).
					WithDetail("path", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded config file")
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, gsterrors.Wrap(err, gsterrors.ErrConfigLoad, "failed to load environment configuration")
		}
	}

	// 4. Flag overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, gsterrors.Wrap(err, gsterrors.ErrConfigLoad, "failed to apply flag overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, gsterrors.Wrap(err, gsterrors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if cfg.ProjectSettingsFile == "" {
		cfg.ProjectSettingsFile = settings.ProjectSettingsFileName
	}
	return &cfg, nil
}

// envKey maps GST_GIT__AUTHOR_NAME to git.author_name.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
