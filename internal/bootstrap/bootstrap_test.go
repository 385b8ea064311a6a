package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/tradSys/internal/config"
	"github.com/abdoElHodaky/tradSys/internal/core/datalayer"
	"github.com/abdoElHodaky/tradSys/internal/core/protocol"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
)

const baseConfig = `
venues:
  - venue_id: "XNAS"
    name: "Nasdaq"
    timezone: "America/New_York"
    support_tif_day: true
    support_tif_ioc: true
    support_tif_fok: true
    support_tif_gtd: true
    support_tif_gtc: true

instruments:
  - instrument_id: 1
    symbol: "ACME"
    venue_id: "XNAS"
    price_tick: 0.01
    quantity_tick: 1
    supported_tifs: ["Day", "IOC", "FOK"]
    supported_sides: ["Buy", "Sell"]
`

const reloadedConfig = baseConfig + `
  - instrument_id: 2
    symbol: "WIDGET"
    venue_id: "XNAS"
    price_tick: 0.05
    quantity_tick: 10
    supported_tifs: ["Day"]
    supported_sides: ["Buy", "Sell"]
`

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o644))
}

func TestNew_RegistersConfiguredInstrumentsAndVenues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, baseConfig)

	sys, err := New(dir, zap.NewNop(), nil)
	require.NoError(t, err)

	reply := sys.Router().SecurityStatus(&protocol.SecurityStatusRequest{Instrument: 1})
	assert.IsType(t, protocol.SecurityStatus{}, reply)

	venues, err := sys.Venues().Select(context.Background(), datalayer.Expression[datalayer.Venue]{})
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "XNAS", venues[0].VenueID)
}

func TestReload_PicksUpNewlyAddedInstrument(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, baseConfig)

	sys, err := New(dir, zap.NewNop(), nil)
	require.NoError(t, err)

	writeConfig(t, dir, reloadedConfig)
	require.NoError(t, sys.Reload(context.Background()))

	reply := sys.Router().SecurityStatus(&protocol.SecurityStatusRequest{Instrument: 2})
	assert.IsType(t, protocol.SecurityStatus{}, reply)
}

func TestReload_LeavesRouterUntouchedOnBadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, baseConfig)

	sys, err := New(dir, zap.NewNop(), nil)
	require.NoError(t, err)
	before := sys.Router()

	writeConfig(t, dir, baseConfig+"\n  - instrument_id: 3\n    symbol: \"BAD\"\n    supported_sides: [\"NotASide\"]\n")
	err = sys.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, before, sys.Router())
}

func TestSidesFromConfig_RejectsUnknownName(t *testing.T) {
	_, err := sidesFromConfig([]string{"Buy", "Sideways"})
	assert.Error(t, err)
}

func TestTifsFromConfig_RejectsUnknownName(t *testing.T) {
	_, err := tifsFromConfig([]string{"Day", "Whenever"})
	assert.Error(t, err)
}

func TestInstrumentFromConfig_LeavesBoundsNilWhenUnset(t *testing.T) {
	ic := config.InstrumentConfig{
		InstrumentID:   1,
		Symbol:         "ACME",
		PriceTick:      0.01,
		QuantityTick:   1,
		SupportedTIFs:  []string{"Day"},
		SupportedSides: []string{"Buy", "Sell"},
	}
	inst, err := instrumentFromConfig(ic)
	require.NoError(t, err)
	assert.Nil(t, inst.MinPrice)
	assert.Nil(t, inst.MaxPrice)
	assert.True(t, inst.SupportsSide(types.SideBuy))
}
