// Package bootstrap assembles the simulator core's runtime components
// from a loaded configuration: the reference-data repositories, the
// instrument router, and the admin server's reload hook.
//
// Grounded on cmd/tradsys/main.go's initializeTradingSystem - one
// function building every component from *config.Config and returning a
// single struct a caller wires the rest of the application against -
// generalized here from that file's fixed matching/risk/settlement/
// compliance/strategies set to this module's router+datalayer set.
package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abdoElHodaky/tradSys/internal/config"
	"github.com/abdoElHodaky/tradSys/internal/core/datalayer"
	"github.com/abdoElHodaky/tradSys/internal/core/engine"
	"github.com/abdoElHodaky/tradSys/internal/core/router"
	"github.com/abdoElHodaky/tradSys/internal/core/types"
	"github.com/abdoElHodaky/tradSys/internal/metrics"
)

// System bundles the router and reference-data clients a running
// simulator core needs, plus enough of its own construction inputs to
// rebuild itself on a reload trigger (admin.Reloader).
type System struct {
	mu sync.RWMutex

	logger  *zap.Logger
	metrics *metrics.Collector

	configPath string

	router *router.Router

	venues *datalayer.Client[datalayer.Venue]
}

// New loads configPath, builds the reference-data repositories and the
// instrument router, and registers every configured instrument. configPath
// is retained so Reload can re-read it later.
func New(configPath string, logger *zap.Logger, m *metrics.Collector) (*System, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load config: %w", err)
	}

	s := &System{
		logger:     logger,
		metrics:    m,
		configPath: configPath,
	}
	if err := s.build(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Router exposes the instrument router, e.g. for wiring an inbound FIX
// session transport.
func (s *System) Router() *router.Router {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.router
}

// build constructs the venue repository and instrument router from cfg
// and registers every configured instrument. Called once at startup and
// again, under s.mu's writer lock, by Reload.
func (s *System) build(cfg *config.Config) error {
	venues := make([]datalayer.Venue, 0, len(cfg.Venues))
	for _, v := range cfg.Venues {
		venues = append(venues, datalayer.Venue{
			VenueID:            v.VenueID,
			Name:               v.Name,
			Timezone:           v.Timezone,
			CancelOnDisconnect: v.CancelOnDisconnect,
			SupportTIFDay:      v.SupportTIFDay,
			SupportTIFIOC:      v.SupportTIFIOC,
			SupportTIFFOK:      v.SupportTIFFOK,
			SupportTIFGTD:      v.SupportTIFGTD,
			SupportTIFGTC:      v.SupportTIFGTC,
		})
	}
	venueRepo := datalayer.NewRepository(venues...)
	venueClient := datalayer.NewClient[datalayer.Venue](venueRepo, datalayer.ClientConfig{
		Name:   "venues",
		Logger: s.logger,
	})

	r := router.New(router.Config{
		Clock:   nil,
		Logger:  s.logger,
		Metrics: s.metrics,
	})

	for _, ic := range cfg.Instruments {
		instrument, err := instrumentFromConfig(ic)
		if err != nil {
			return fmt.Errorf("bootstrap: instrument %s: %w", ic.Symbol, err)
		}
		if err := r.Register(instrument, engine.DefaultPhasePolicy()); err != nil {
			return fmt.Errorf("bootstrap: register instrument %s: %w", ic.Symbol, err)
		}
	}

	s.router = r
	s.venues = venueClient
	return nil
}

// Venues exposes the venue reference-data client, e.g. for an admin
// endpoint listing configured venues.
func (s *System) Venues() *datalayer.Client[datalayer.Venue] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.venues
}

// Reload re-reads the configuration file and rebuilds the router and
// reference-data repositories under System's writer lock (spec section
// 5: "reference-data reload taking a sync.RWMutex writer lock across the
// instrument catalogue while signaling each engine to quiesce before
// swapping instrument config"). It implements admin.Reloader.
func (s *System) Reload(ctx context.Context) error {
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return fmt.Errorf("bootstrap: reload config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.router
	if err := s.build(cfg); err != nil {
		s.router = old
		return err
	}
	return nil
}

func instrumentFromConfig(ic config.InstrumentConfig) (*types.Instrument, error) {
	sides, err := sidesFromConfig(ic.SupportedSides)
	if err != nil {
		return nil, err
	}
	tifs, err := tifsFromConfig(ic.SupportedTIFs)
	if err != nil {
		return nil, err
	}

	instrument := &types.Instrument{
		ID:     types.InstrumentID(ic.InstrumentID),
		Symbol: ic.Symbol,
		SecurityIdentity: types.SecurityIdentifier{
			SecurityID:       ic.Symbol,
			SecurityIDSource: types.SecurityIDSourceExchangeSymbol,
		},
		Currency:      "USD",
		PriceTick:     ic.PriceTick,
		QuantityTick:  ic.QuantityTick,
		SupportedTIFs: tifs,
		SupportedSides: sides,
	}
	if ic.MinPrice != 0 {
		instrument.MinPrice = &ic.MinPrice
	}
	if ic.MaxPrice != 0 {
		instrument.MaxPrice = &ic.MaxPrice
	}
	if ic.MinQuantity != 0 {
		instrument.MinQuantity = &ic.MinQuantity
	}
	if ic.MaxQuantity != 0 {
		instrument.MaxQuantity = &ic.MaxQuantity
	}
	return instrument, nil
}

func sidesFromConfig(names []string) ([]types.Side, error) {
	sides := make([]types.Side, 0, len(names))
	for _, n := range names {
		switch n {
		case "Buy":
			sides = append(sides, types.SideBuy)
		case "Sell":
			sides = append(sides, types.SideSell)
		case "SellShort":
			sides = append(sides, types.SideSellShort)
		case "SellShortExempt":
			sides = append(sides, types.SideSellShortExempt)
		default:
			return nil, fmt.Errorf("unknown side %q", n)
		}
	}
	return sides, nil
}

func tifsFromConfig(names []string) ([]types.TimeInForce, error) {
	tifs := make([]types.TimeInForce, 0, len(names))
	for _, n := range names {
		switch n {
		case "Day":
			tifs = append(tifs, types.TimeInForceDay)
		case "IOC":
			tifs = append(tifs, types.TimeInForceIOC)
		case "FOK":
			tifs = append(tifs, types.TimeInForceFOK)
		case "GTD":
			tifs = append(tifs, types.TimeInForceGTD)
		case "GTC":
			tifs = append(tifs, types.TimeInForceGTC)
		default:
			return nil, fmt.Errorf("unknown time in force %q", n)
		}
	}
	return tifs, nil
}
