package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/logsink/core"
)

func terminalOnly() Options {
	return Options{
		MinLevel: core.InfoLevel,
		Sinks:    []SinkConfig{{Kind: KindTerminal, MinLevel: NoOverride}},
	}
}

func TestValidate_Accepts(t *testing.T) {
	opts := terminalOnly()
	assert.NoError(t, opts.Validate())
}

func TestValidate_RequiresSinks(t *testing.T) {
	opts := Options{MinLevel: core.InfoLevel}
	err := opts.Validate()
	require.Error(t, err)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "sinks", ce.Field)
}

func TestValidate_FileNeedsPath(t *testing.T) {
	opts := Options{
		MinLevel: core.InfoLevel,
		Sinks:    []SinkConfig{{Kind: KindFile, MinLevel: NoOverride}},
	}
	assert.Error(t, opts.Validate())
}

func TestValidate_RejectsDuplicateFilePaths(t *testing.T) {
	opts := Options{
		MinLevel: core.InfoLevel,
		Sinks: []SinkConfig{
			{Kind: KindFile, Path: "/tmp/a.log", MinLevel: NoOverride},
			{Kind: KindFile, Path: "/tmp/a.log", MinLevel: NoOverride},
		},
	}
	assert.Error(t, opts.Validate())
}

func TestValidate_RemoteNeedsEndpointAndBucket(t *testing.T) {
	opts := Options{
		MinLevel: core.InfoLevel,
		Sinks:    []SinkConfig{{Kind: KindRemote, MinLevel: NoOverride, Remote: &RemoteOptions{Bucket: "b"}}},
	}
	assert.Error(t, opts.Validate())

	opts.Sinks[0].Remote = &RemoteOptions{Endpoint: "http://store"}
	assert.Error(t, opts.Validate())

	opts.Sinks[0].Remote = &RemoteOptions{Endpoint: "http://store", Bucket: "b"}
	assert.NoError(t, opts.Validate())
}

func TestValidate_RejectsUnknownKindAndStyle(t *testing.T) {
	opts := Options{
		MinLevel: core.InfoLevel,
		Sinks:    []SinkConfig{{Kind: "syslog", MinLevel: NoOverride}},
	}
	assert.Error(t, opts.Validate())

	opts = terminalOnly()
	opts.Sinks[0].Style = "xml"
	assert.Error(t, opts.Validate())
}

func TestEffectiveStyle(t *testing.T) {
	opts := terminalOnly()
	assert.Equal(t, StyleLine, opts.EffectiveStyle(opts.Sinks[0]))

	opts.TableMode = true
	assert.Equal(t, StyleTable, opts.EffectiveStyle(opts.Sinks[0]))

	opts.Sinks[0].Style = StyleJSON
	assert.Equal(t, StyleJSON, opts.EffectiveStyle(opts.Sinks[0]))
}

func TestParse_FullDocument(t *testing.T) {
	doc := []byte(`
min_level: debug
policy: strict
table_mode: false
sinks:
  - kind: terminal
    min_level: warn
  - kind: file
    path: /var/log/app.log
    style: json
  - kind: remote
    style: line
    remote:
      endpoint: https://objects.example.com
      bucket: app-logs
      key_prefix: prod/
      credentials_env: LOGSINK_TOKEN
      batch_size: 200
      flush_interval: 2s
      queue_size: 5000
      max_attempts: 3
      attempt_timeout: 10s
      compress: true
      fallback_path: /var/log/app.spill
`)

	opts, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, core.DebugLevel, opts.MinLevel)
	assert.Equal(t, Strict, opts.Policy)
	require.Len(t, opts.Sinks, 3)

	assert.Equal(t, KindTerminal, opts.Sinks[0].Kind)
	assert.Equal(t, core.WarnLevel, opts.Sinks[0].MinLevel)

	assert.Equal(t, KindFile, opts.Sinks[1].Kind)
	assert.Equal(t, NoOverride, opts.Sinks[1].MinLevel)
	assert.Equal(t, StyleJSON, opts.Sinks[1].Style)

	remote := opts.Sinks[2].Remote
	require.NotNil(t, remote)
	assert.Equal(t, "app-logs", remote.Bucket)
	assert.Equal(t, "prod/", remote.KeyPrefix)
	assert.Equal(t, "LOGSINK_TOKEN", remote.CredentialsEnv)
	assert.Equal(t, 200, remote.BatchSize)
	assert.Equal(t, 2*time.Second, remote.FlushInterval)
	assert.Equal(t, 10*time.Second, remote.AttemptTimeout)
	assert.True(t, remote.Compress)
}

func TestParse_Defaults(t *testing.T) {
	opts, err := Parse([]byte("sinks:\n  - kind: terminal\n"))
	require.NoError(t, err)

	assert.Equal(t, core.InfoLevel, opts.MinLevel)
	assert.Equal(t, Lenient, opts.Policy)
	assert.Equal(t, NoOverride, opts.Sinks[0].MinLevel)
}

func TestParse_RejectsBadDocument(t *testing.T) {
	_, err := Parse([]byte("sinks: [not a sink"))
	assert.Error(t, err)

	_, err = Parse([]byte("policy: chaotic\nsinks:\n  - kind: terminal\n"))
	assert.Error(t, err)

	_, err = Parse([]byte(`
sinks:
  - kind: remote
    remote:
      endpoint: http://x
      bucket: b
      flush_interval: soon
`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/logsink.yaml")
	require.Error(t, err)

	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}
