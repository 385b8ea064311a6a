package datalayer

import "time"

// Venue describes one trading venue's static configuration: which TIFs
// it honors, its disconnect/persistence behavior, and the trading
// schedule carried in its MarketPhases. Grounded on venue_queries.hpp,
// where Venue and MarketPhase share one query file because a venue owns
// its phase schedule.
type Venue struct {
	VenueID                string `gorm:"column:venue_id;primaryKey"`
	Name                   string `gorm:"column:name"`
	Timezone               string `gorm:"column:timezone"`
	CancelOnDisconnect     bool   `gorm:"column:cancel_on_disconnect"`
	PersistenceEnabled     bool   `gorm:"column:persistence_enabled"`
	PersistenceFilePath    string `gorm:"column:persistence_file_path"`
	SupportTIFDay          bool   `gorm:"column:support_tif_day"`
	SupportTIFIOC          bool   `gorm:"column:support_tif_ioc"`
	SupportTIFFOK          bool   `gorm:"column:support_tif_fok"`
	SupportTIFGTD          bool   `gorm:"column:support_tif_gtd"`
	SupportTIFGTC          bool   `gorm:"column:support_tif_gtc"`

	MarketPhases []MarketPhase `gorm:"foreignKey:VenueID;references:VenueID"`
}

func (Venue) TableName() string { return "venues" }

// VenueAttribute names the columns a predicate or Patch can target for Venue.
type VenueAttribute string

const (
	VenueAttributeVenueID            VenueAttribute = "venue_id"
	VenueAttributeName               VenueAttribute = "name"
	VenueAttributeTimezone           VenueAttribute = "timezone"
	VenueAttributeCancelOnDisconnect VenueAttribute = "cancel_on_disconnect"
)

func (v Venue) Attribute(name string) (any, bool) {
	switch VenueAttribute(name) {
	case VenueAttributeVenueID:
		return v.VenueID, true
	case VenueAttributeName:
		return v.Name, true
	case VenueAttributeTimezone:
		return v.Timezone, true
	case VenueAttributeCancelOnDisconnect:
		return v.CancelOnDisconnect, true
	default:
		return nil, false
	}
}

// Patch carries the optional fields of a partial Venue update, the Go
// rendering of Venue::Patch.
type (
	VenuePatch struct {
		Name                *string
		Timezone            *string
		CancelOnDisconnect  *bool
		PersistenceEnabled  *bool
		PersistenceFilePath *string
		SupportTIFDay       *bool
		SupportTIFIOC       *bool
		SupportTIFFOK       *bool
		SupportTIFGTD       *bool
		SupportTIFGTC       *bool
	}
)

// Apply returns a copy of v with every non-nil field of p overlaid.
func (v Venue) Apply(p VenuePatch) Venue {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Timezone != nil {
		v.Timezone = *p.Timezone
	}
	if p.CancelOnDisconnect != nil {
		v.CancelOnDisconnect = *p.CancelOnDisconnect
	}
	if p.PersistenceEnabled != nil {
		v.PersistenceEnabled = *p.PersistenceEnabled
	}
	if p.PersistenceFilePath != nil {
		v.PersistenceFilePath = *p.PersistenceFilePath
	}
	if p.SupportTIFDay != nil {
		v.SupportTIFDay = *p.SupportTIFDay
	}
	if p.SupportTIFIOC != nil {
		v.SupportTIFIOC = *p.SupportTIFIOC
	}
	if p.SupportTIFFOK != nil {
		v.SupportTIFFOK = *p.SupportTIFFOK
	}
	if p.SupportTIFGTD != nil {
		v.SupportTIFGTD = *p.SupportTIFGTD
	}
	if p.SupportTIFGTC != nil {
		v.SupportTIFGTC = *p.SupportTIFGTC
	}
	return v
}

// MarketPhase is one scheduled segment of a Venue's trading day, e.g.
// PreTrading 08:00-09:00 or OpeningAuction 09:00-09:05.
type MarketPhase struct {
	VenueID      string `gorm:"column:venue_id;index"`
	Phase        string `gorm:"column:phase"`
	StartTime    string `gorm:"column:start_time"`
	EndTime      string `gorm:"column:end_time"`
	AllowCancels bool   `gorm:"column:allow_cancels"`
}

func (MarketPhase) TableName() string { return "market_phases" }

type MarketPhaseAttribute string

const (
	MarketPhaseAttributeVenueID MarketPhaseAttribute = "venue_id"
	MarketPhaseAttributePhase   MarketPhaseAttribute = "phase"
)

func (m MarketPhase) Attribute(name string) (any, bool) {
	switch MarketPhaseAttribute(name) {
	case MarketPhaseAttributeVenueID:
		return m.VenueID, true
	case MarketPhaseAttributePhase:
		return m.Phase, true
	default:
		return nil, false
	}
}

// Listing is one instrument's reference-data row: the venue it trades
// on, its security type and quote currency.
type Listing struct {
	ListingID        uint64 `gorm:"column:listing_id;primaryKey"`
	Symbol           string `gorm:"column:symbol;index"`
	VenueID          string `gorm:"column:venue_id;index"`
	SecurityType     string `gorm:"column:security_type"`
	PriceCurrency    string `gorm:"column:price_currency"`
	SecurityExchange string `gorm:"column:security_exchange"`
	Enabled          bool   `gorm:"column:enabled"`
}

func (Listing) TableName() string { return "listings" }

type ListingAttribute string

const (
	ListingAttributeListingID    ListingAttribute = "listing_id"
	ListingAttributeSymbol       ListingAttribute = "symbol"
	ListingAttributeVenueID      ListingAttribute = "venue_id"
	ListingAttributeSecurityType ListingAttribute = "security_type"
	ListingAttributeEnabled      ListingAttribute = "enabled"
)

func (l Listing) Attribute(name string) (any, bool) {
	switch ListingAttribute(name) {
	case ListingAttributeListingID:
		return int64(l.ListingID), true
	case ListingAttributeSymbol:
		return l.Symbol, true
	case ListingAttributeVenueID:
		return l.VenueID, true
	case ListingAttributeSecurityType:
		return l.SecurityType, true
	case ListingAttributeEnabled:
		return l.Enabled, true
	default:
		return nil, false
	}
}

// ListingPatch carries the optional fields of a partial Listing update.
type ListingPatch struct {
	Symbol           *string
	VenueID          *string
	SecurityType     *string
	PriceCurrency    *string
	SecurityExchange *string
	Enabled          *bool
}

func (l Listing) Apply(p ListingPatch) Listing {
	if p.Symbol != nil {
		l.Symbol = *p.Symbol
	}
	if p.VenueID != nil {
		l.VenueID = *p.VenueID
	}
	if p.SecurityType != nil {
		l.SecurityType = *p.SecurityType
	}
	if p.PriceCurrency != nil {
		l.PriceCurrency = *p.PriceCurrency
	}
	if p.SecurityExchange != nil {
		l.SecurityExchange = *p.SecurityExchange
	}
	if p.Enabled != nil {
		l.Enabled = *p.Enabled
	}
	return l
}

// Datasource names an upstream feed a venue's reference data or price
// seeds are sourced from, grounded on datasource_queries.hpp.
type Datasource struct {
	DatasourceID uint64 `gorm:"column:datasource_id;primaryKey"`
	Name         string `gorm:"column:name"`
	VenueID      string `gorm:"column:venue_id;index"`
	Connection   string `gorm:"column:connection"`
	Format       string `gorm:"column:format"`
	Enabled      bool   `gorm:"column:enabled"`
}

func (Datasource) TableName() string { return "datasources" }

type DatasourceAttribute string

const (
	DatasourceAttributeDatasourceID DatasourceAttribute = "datasource_id"
	DatasourceAttributeName         DatasourceAttribute = "name"
	DatasourceAttributeVenueID      DatasourceAttribute = "venue_id"
	DatasourceAttributeEnabled      DatasourceAttribute = "enabled"
)

func (d Datasource) Attribute(name string) (any, bool) {
	switch DatasourceAttribute(name) {
	case DatasourceAttributeDatasourceID:
		return int64(d.DatasourceID), true
	case DatasourceAttributeName:
		return d.Name, true
	case DatasourceAttributeVenueID:
		return d.VenueID, true
	case DatasourceAttributeEnabled:
		return d.Enabled, true
	default:
		return nil, false
	}
}

// DatasourcePatch carries the optional fields of a partial Datasource update.
type DatasourcePatch struct {
	Name       *string
	VenueID    *string
	Connection *string
	Format     *string
	Enabled    *bool
}

func (d Datasource) Apply(p DatasourcePatch) Datasource {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.VenueID != nil {
		d.VenueID = *p.VenueID
	}
	if p.Connection != nil {
		d.Connection = *p.Connection
	}
	if p.Format != nil {
		d.Format = *p.Format
	}
	if p.Enabled != nil {
		d.Enabled = *p.Enabled
	}
	return d
}

// PriceSeed is the starting mid/bid/offer a Venue's PriceSeed-sourced
// instruments replay from absent live trading activity, grounded on
// price_seed_queries.hpp.
type PriceSeed struct {
	PriceSeedID  uint64    `gorm:"column:price_seed_id;primaryKey"`
	Symbol       string    `gorm:"column:symbol;index"`
	SecurityID   string    `gorm:"column:security_id"`
	MidPrice     float64   `gorm:"column:mid_price"`
	BidPrice     float64   `gorm:"column:bid_price"`
	OfferPrice   float64   `gorm:"column:offer_price"`
	LastUpdated  time.Time `gorm:"column:last_updated"`
}

func (PriceSeed) TableName() string { return "price_seeds" }

type PriceSeedAttribute string

const (
	PriceSeedAttributePriceSeedID PriceSeedAttribute = "price_seed_id"
	PriceSeedAttributeSymbol      PriceSeedAttribute = "symbol"
	PriceSeedAttributeSecurityID  PriceSeedAttribute = "security_id"
	PriceSeedAttributeMidPrice    PriceSeedAttribute = "mid_price"
)

func (p PriceSeed) Attribute(name string) (any, bool) {
	switch PriceSeedAttribute(name) {
	case PriceSeedAttributePriceSeedID:
		return int64(p.PriceSeedID), true
	case PriceSeedAttributeSymbol:
		return p.Symbol, true
	case PriceSeedAttributeSecurityID:
		return p.SecurityID, true
	case PriceSeedAttributeMidPrice:
		return p.MidPrice, true
	default:
		return nil, false
	}
}

// PriceSeedPatch carries the optional fields of a partial PriceSeed update.
type PriceSeedPatch struct {
	MidPrice    *float64
	BidPrice    *float64
	OfferPrice  *float64
	LastUpdated *time.Time
}

func (p PriceSeed) Apply(patch PriceSeedPatch) PriceSeed {
	if patch.MidPrice != nil {
		p.MidPrice = *patch.MidPrice
	}
	if patch.BidPrice != nil {
		p.BidPrice = *patch.BidPrice
	}
	if patch.OfferPrice != nil {
		p.OfferPrice = *patch.OfferPrice
	}
	if patch.LastUpdated != nil {
		p.LastUpdated = *patch.LastUpdated
	}
	return p
}

// Setting is a single venue-wide key/value configuration row, grounded
// on setting_queries.hpp, whose Insert/Update return the Key rather
// than a synthetic numeric id.
type Setting struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (Setting) TableName() string { return "settings" }

type SettingAttribute string

const (
	SettingAttributeKey   SettingAttribute = "key"
	SettingAttributeValue SettingAttribute = "value"
)

func (s Setting) Attribute(name string) (any, bool) {
	switch SettingAttribute(name) {
	case SettingAttributeKey:
		return s.Key, true
	case SettingAttributeValue:
		return s.Value, true
	default:
		return nil, false
	}
}

// SettingPatch carries the optional fields of a partial Setting update.
type SettingPatch struct {
	Value *string
}

func (s Setting) Apply(p SettingPatch) Setting {
	if p.Value != nil {
		s.Value = *p.Value
	}
	return s
}
