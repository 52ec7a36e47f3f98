// Package config defines the engine's resolved configuration: the
// global minimum level, the ordered set of sink descriptions, and the
// duplicate-initialization policy.
//
// Options are built in code or loaded from a YAML document via Load
// or Parse. Configuration is resolved exactly once at Init and is
// immutable for the process lifetime; there is no hot reload.
// Validation fails fast: a misconfigured sink should stop the
// program at startup, not degrade silently at the first log call.
//
// Remote credentials never appear in configuration. A remote sink
// names the environment variable holding its bearer token via
// CredentialsEnv, and the value is read once when the sink is built.
package config
