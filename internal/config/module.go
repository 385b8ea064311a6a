package config

import "go.uber.org/fx"

// Path is the fx-injected filesystem path LoadConfig searches for
// config.yaml. cmd/simcore supplies it from its -config flag.
type Path string

// Provide loads *Config from the fx-supplied Path, the way the teacher's
// cmd/gateway wires its own config module's output into the rest of the
// fx graph.
func Provide(path Path) (*Config, error) {
	return LoadConfig(string(path))
}

// Module provides *Config and, from it, the application's *zap.Logger
// (via InitLogger) for the rest of the fx graph.
var Module = fx.Options(
	fx.Provide(Provide),
	fx.Provide(InitLogger),
)
