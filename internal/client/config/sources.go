package config

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/unirent/unirent/internal/flagx"
)

const envPrefix = "UNIRENT_"

// nestedEnvSections lists config sections whose env keys map onto a
// dotted path, e.g. UNIRENT_LOG_LEVEL -> log.level.
var nestedEnvSections = []string{"log"}

// loadSources overlays cfg with the optional config file and the
// environment. Keys absent from both keep their current values.
func loadSources(cfg *Config, args []string) error {
	k := koanf.New(".")

	// YAML is a superset of JSON, so one parser serves both file formats.
	if path := flagx.ConfigPath(args); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return errors.Wrap(err, "load env variables")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}
	return nil
}

// envKey maps UNIRENT_SERVER_URL to server_url and UNIRENT_LOG_LEVEL to
// log.level.
func envKey(k, v string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(k, envPrefix))
	for _, section := range nestedEnvSections {
		if strings.HasPrefix(key, section+"_") {
			key = section + "." + strings.TrimPrefix(key, section+"_")
			break
		}
	}
	return key, v
}
