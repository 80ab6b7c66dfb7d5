package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir sets the directory holding base.yaml and the profile files.
// Defaults to "configs" relative to the working directory.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// Load builds a Config from four layers, later layers overriding earlier ones:
// built-in defaults, {configDir}/base.yaml, {configDir}/{profile}.yaml, and
// APP_-prefixed environment variables. Both yaml files must exist.
//
// Environment keys resolve against the keys the earlier layers produced, so
// underscores that belong to a key name are kept:
//
//	APP_SERVER_REQUEST_TIMEOUT          -> server.request_timeout
//	APP_MUTATIONS_RAISE_ON_ERROR        -> mutations.raise_on_error
//	APP_NOTIFIER_RETRY_MAX_ATTEMPTS     -> notifier.retry.max_attempts
//
// The result has passed Validate.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	if err := setDefaults(k); err != nil {
		return nil, err
	}
	for _, layer := range []struct{ name, file string }{
		{name: "base", file: "base.yaml"},
		{name: "profile", file: profile + ".yaml"},
	} {
		if err := loadYAML(k, layer.name, filepath.Join(o.configDir, layer.file)); err != nil {
			return nil, err
		}
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	cfg := new(Config)
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(k *koanf.Koanf) error {
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("setting default %s: %w", key, err)
		}
	}
	return nil
}

func loadYAML(k *koanf.Koanf, layer, path string) error {
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading %s config %s: %w", layer, path, err)
	}
	return nil
}

func loadEnv(k *koanf.Koanf) error {
	known := envKeys(k.Keys())
	provider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if dotted, ok := known[key]; ok {
				return dotted, value
			}
			return strings.ReplaceAll(key, "_", "."), value
		},
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading env vars: %w", err)
	}
	return nil
}

// validateProfile rejects empty profiles and anything that could escape the
// config directory.
func validateProfile(profile string) error {
	if strings.TrimSpace(profile) == "" {
		return errors.New("profile must not be empty")
	}
	if strings.ContainsAny(profile, `/\`) {
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	}
	if strings.Contains(profile, "..") {
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

// envKeys indexes dotted keys by their env spelling:
// "server_read_timeout" -> "server.read_timeout".
func envKeys(keys []string) map[string]string {
	byEnv := make(map[string]string, len(keys))
	for _, key := range keys {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}
	return byEnv
}
