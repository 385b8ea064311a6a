package metrics

import "go.uber.org/fx"

// Module provides a single *Collector shared by every router and engine
// constructed from the fx graph.
var Module = fx.Options(
	fx.Provide(New),
)
