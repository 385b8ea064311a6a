package admin

import "go.uber.org/fx"

// Module provides the admin ops server for fx.
var Module = fx.Options(
	fx.Provide(NewServer),
)
