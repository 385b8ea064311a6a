package engine

import "github.com/abdoElHodaky/tradSys/internal/core/types"

// PhaseRules is the venue's per-phase policy referenced by spec section
// 4.2.5 ("e.g., allow_cancels=false").
type PhaseRules struct {
	AllowPlacement bool
	AllowModify    bool
	AllowCancel    bool
}

// PhasePolicy maps each TradingPhase to its PhaseRules.
type PhasePolicy map[types.TradingPhase]PhaseRules

// DefaultPhasePolicy is the policy an Engine uses when none is supplied:
// continuous trading during Open; orders are collected but not matched
// during the three auction phases (matching defers to uncrossing, spec
// section 4.2.5); placement and modification are blocked once trading
// has stopped for the day, but resting orders may still be pulled.
func DefaultPhasePolicy() PhasePolicy {
	return PhasePolicy{
		types.TradingPhaseOpen:            {AllowPlacement: true, AllowModify: true, AllowCancel: true},
		types.TradingPhaseOpeningAuction:  {AllowPlacement: true, AllowModify: true, AllowCancel: true},
		types.TradingPhaseIntradayAuction: {AllowPlacement: true, AllowModify: true, AllowCancel: true},
		types.TradingPhaseClosingAuction:  {AllowPlacement: true, AllowModify: true, AllowCancel: true},
		types.TradingPhaseClosed:          {AllowPlacement: false, AllowModify: false, AllowCancel: true},
		types.TradingPhasePostTrading:     {AllowPlacement: false, AllowModify: false, AllowCancel: true},
	}
}

func (e *Engine) rulesFor(phase types.TradingPhase) PhaseRules {
	return e.phasePolicy[phase]
}

// acceptingPlacement reports whether the engine currently accepts new
// orders: the phase policy must allow it and the venue must not be
// halted (spec section 4.2.5: "While Halt or Closed ... requests that do
// not respect the venue's per-phase policy are rejected").
func (e *Engine) acceptingPlacement() bool {
	return e.status == types.TradingStatusResume && e.rulesFor(e.phase).AllowPlacement
}

func (e *Engine) acceptingModify() bool {
	return e.status == types.TradingStatusResume && e.rulesFor(e.phase).AllowModify
}

func (e *Engine) acceptingCancel() bool {
	return e.rulesFor(e.phase).AllowCancel
}
