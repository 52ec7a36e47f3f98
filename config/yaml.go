package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/philipp01105/logsink/core"
)

// Wire types decouple the YAML document from the resolved Options:
// levels and durations arrive as strings ("info", "5s") and policies
// by name.

type yamlDoc struct {
	MinLevel  string     `yaml:"min_level"`
	Policy    string     `yaml:"policy"`
	TableMode bool       `yaml:"table_mode"`
	Sinks     []yamlSink `yaml:"sinks"`
}

type yamlSink struct {
	Kind     string      `yaml:"kind"`
	MinLevel string      `yaml:"min_level"`
	Style    string      `yaml:"style"`
	Path     string      `yaml:"path"`
	Remote   *yamlRemote `yaml:"remote"`
}

type yamlRemote struct {
	Endpoint       string `yaml:"endpoint"`
	Bucket         string `yaml:"bucket"`
	KeyPrefix      string `yaml:"key_prefix"`
	CredentialsEnv string `yaml:"credentials_env"`
	BatchSize      int    `yaml:"batch_size"`
	FlushInterval  string `yaml:"flush_interval"`
	QueueSize      int    `yaml:"queue_size"`
	MaxAttempts    int    `yaml:"max_attempts"`
	AttemptTimeout string `yaml:"attempt_timeout"`
	Compress       bool   `yaml:"compress"`
	FallbackPath   string `yaml:"fallback_path"`
}

// Load reads and parses a YAML configuration file
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, &ConfigError{Field: "file", Err: err}
	}
	return Parse(data)
}

// Parse parses a YAML configuration document and validates the result
func Parse(data []byte) (Options, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Options{}, &ConfigError{Field: "yaml", Err: err}
	}

	opts := Options{
		MinLevel:  parseLevel(doc.MinLevel, core.InfoLevel),
		TableMode: doc.TableMode,
	}

	switch doc.Policy {
	case "", "lenient":
		opts.Policy = Lenient
	case "strict":
		opts.Policy = Strict
	default:
		return Options{}, errf("policy", "unknown policy %q", doc.Policy)
	}

	for i, ys := range doc.Sinks {
		sc := SinkConfig{
			Kind:     Kind(ys.Kind),
			MinLevel: parseLevel(ys.MinLevel, NoOverride),
			Style:    Style(ys.Style),
			Path:     ys.Path,
		}

		if ys.Remote != nil {
			ro := &RemoteOptions{
				Endpoint:       ys.Remote.Endpoint,
				Bucket:         ys.Remote.Bucket,
				KeyPrefix:      ys.Remote.KeyPrefix,
				CredentialsEnv: ys.Remote.CredentialsEnv,
				BatchSize:      ys.Remote.BatchSize,
				QueueSize:      ys.Remote.QueueSize,
				MaxAttempts:    ys.Remote.MaxAttempts,
				Compress:       ys.Remote.Compress,
				FallbackPath:   ys.Remote.FallbackPath,
			}

			var err error
			field := fmt.Sprintf("sinks[%d].remote", i)
			if ro.FlushInterval, err = parseDuration(ys.Remote.FlushInterval); err != nil {
				return Options{}, errf(field+".flush_interval", "%v", err)
			}
			if ro.AttemptTimeout, err = parseDuration(ys.Remote.AttemptTimeout); err != nil {
				return Options{}, errf(field+".attempt_timeout", "%v", err)
			}
			sc.Remote = ro
		}

		opts.Sinks = append(opts.Sinks, sc)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// parseLevel resolves a level name case-insensitively, falling back
// to def when the field is absent.
func parseLevel(s string, def core.Level) core.Level {
	if s == "" {
		return def
	}
	return core.ParseLevel(s)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
