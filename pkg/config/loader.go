package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/logging"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: CLUBAR_LIMITS__MAX_INPUT sets limits.max_input.
const EnvPrefix = "CLUBAR_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultContent returns the embedded defaults file.
func DefaultContent() string {
	return string(defaultConfig)
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// Path names an explicit config file. It must exist.
	Path string
	// Fs is the filesystem files are read from. Defaults to the OS.
	Fs afero.Fs
	// Overrides are applied last, keyed by dotted config key.
	Overrides map[string]interface{}
	// SkipEnv ignores CLUBAR_* environment variables.
	SkipEnv bool
	// SkipSearch disables the XDG config file lookup when Path is empty.
	SkipSearch bool
}

// Load resolves the configuration from every layer and validates it.
func Load(opts LoadOptions) (*Config, error) {
	log := logging.GetLogger("config")
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, ktoml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. Config file
	path := opts.Path
	if path == "" && !opts.SkipSearch {
		path = SearchPath()
	}
	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config file %s", path).
				WithDetail("path", path)
		}
		if err := k.Load(&rawBytesProvider{bytes: data}, parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path).
				WithDetail("path", path)
		}
		log.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Environment
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
		}
	}

	// 4. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flag overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	postProcess(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug().
		Str("source", cfg.Source).
		Str("frontend", cfg.Frontend).
		Int("fonts", len(cfg.Fonts)).
		Msg("Configuration resolved")
	return cfg, nil
}

// SearchPath returns the first clubar config file found in the XDG config
// directories, or an empty string.
func SearchPath() string {
	for _, name := range []string{"clubar/clubar.toml", "clubar/clubar.yaml", "clubar/clubar.yml"} {
		if p, err := xdg.SearchConfigFile(name); err == nil {
			return p
		}
	}
	return ""
}

// UserPath is where genconfig writes by default.
func UserPath() string {
	return filepath.Join(xdg.ConfigHome, "clubar", "clubar.toml")
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return kyaml.Parser()
	default:
		return ktoml.Parser()
	}
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				edgeStringHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

// edgeStringHookFunc lets geometry, padding and margin be written as
// comma separated strings as well as tables.
func edgeStringHookFunc() mapstructure.DecodeHookFuncType {
	geometryType := reflect.TypeOf(Geometry{})
	directionType := reflect.TypeOf(Direction{})
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		switch t {
		case geometryType:
			return ParseGeometry(data.(string))
		case directionType:
			return ParseDirection(data.(string))
		}
		return data, nil
	}
}

func postProcess(cfg *Config) {
	fonts := cfg.Fonts[:0]
	for _, f := range cfg.Fonts {
		if f = strings.TrimSpace(f); f != "" {
			fonts = append(fonts, f)
		}
	}
	cfg.Fonts = fonts
	cfg.Frontend = strings.ToLower(strings.TrimSpace(cfg.Frontend))
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	if cfg.CustomFile != "" {
		cfg.CustomFile = expandHome(cfg.CustomFile)
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
