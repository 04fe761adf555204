package otel

import (
	"os"
	"strings"

	"go.opentelemetry.io/otel/propagation"
)

// Trace context carried in environment variables, so a wrapper script can
// link `hydrosmart` runs into its own trace:
//
//	TRACEPARENT=00-<trace id>-<span id>-01 hydrosmart submit ...
//
// Get falls back to the process environment for keys not Set explicitly.
type EnvCarrier struct {
	vars map[string]string
}

// Ensure `EnvCarrier` implements [propagation.TextMapCarrier]
var _ propagation.TextMapCarrier = (*EnvCarrier)(nil)

func CreateEnvCarrier() EnvCarrier {
	return EnvCarrier{vars: make(map[string]string)}
}

// traceparent -> TRACEPARENT, baggage-key -> BAGGAGE_KEY
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func (c EnvCarrier) Get(key string) string {
	name := envName(key)
	if v, ok := c.vars[name]; ok {
		return v
	}

	return os.Getenv(name)
}

func (c EnvCarrier) Set(key string, value string) {
	c.vars[envName(key)] = value
}

// Only the keys set on the carrier; the environment is too noisy to list
func (c EnvCarrier) Keys() []string {
	keys := make([]string, 0, len(c.vars))
	for name := range c.vars {
		keys = append(keys, strings.ToLower(strings.ReplaceAll(name, "_", "-")))
	}

	return keys
}
