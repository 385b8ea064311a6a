// Package marketdata implements the per-instrument subscription
// registry, snapshot/incremental builder and aggregated statistics of
// spec section 4.3.
package marketdata

import "github.com/abdoElHodaky/tradSys/internal/core/types"

// idIssuer is the minimal surface PriceCell needs from an
// idgen.MarketEntryIDContext, kept narrow so tests can fake it.
type idIssuer interface {
	Next() string
}

// PriceCell tracks one persistent instrument-price entry (a top-of-book
// level or a low/mid/high statistic) across its New -> Change -> Delete
// lifecycle (spec section 4.3: "Instrument-price cells").
type PriceCell struct {
	entryType types.MdEntryType
	ids       idIssuer

	id       string
	price    float64
	quantity float64
	hasPrice bool
	action   types.MdUpdateAction // None is the zero value MdUpdateActionUnspecified
	deleted  bool
}

// NewPriceCell constructs an empty cell of the given entry type, backed
// by ids for assigning a fresh MarketEntryId on first publication.
func NewPriceCell(entryType types.MdEntryType, ids idIssuer) *PriceCell {
	return &PriceCell{entryType: entryType, ids: ids}
}

// Update sets the cell's observable price and quantity and returns true
// iff either observable changed, transitioning action None->New->Change
// (spec section 4.3). A Deleted cell ignores further updates until
// Reset, per spec: "A cell once Deleted ignores further updates".
func (c *PriceCell) Update(newPrice, newQuantity float64) bool {
	if c.deleted {
		return false
	}
	if !c.hasPrice {
		c.hasPrice = true
		c.price = newPrice
		c.quantity = newQuantity
		c.action = types.MdUpdateActionNew
		c.id = c.ids.Next()
		return true
	}
	if c.price == newPrice && c.quantity == newQuantity {
		return false
	}
	c.price = newPrice
	c.quantity = newQuantity
	c.action = types.MdUpdateActionChange
	return true
}

// MarkDeleted flips the cell's action to Delete if a price was present,
// and retires its identifier (spec section 4.3). Returns true iff a
// delete was actually produced.
func (c *PriceCell) MarkDeleted() bool {
	if c.deleted || !c.hasPrice {
		return false
	}
	c.deleted = true
	c.action = types.MdUpdateActionDelete
	return true
}

// Reset clears the cell back to its initial (no price published) state,
// allowing it to publish a fresh New entry (with a fresh id) afterwards.
func (c *PriceCell) Reset() {
	c.hasPrice = false
	c.deleted = false
	c.action = types.MdUpdateActionUnspecified
	c.id = ""
}

// Entry renders the cell's current state as a MarketDataEntry for
// inclusion in an update or snapshot. ok is false if the cell has never
// published a price.
func (c *PriceCell) Entry() (types.MarketDataEntry, bool) {
	if !c.hasPrice && !c.deleted {
		return types.MarketDataEntry{}, false
	}
	return types.MarketDataEntry{
		EntryID:     c.id,
		Type:        c.entryType,
		Price:       c.price,
		HasPrice:    !c.deleted,
		Quantity:    c.quantity,
		HasQuantity: !c.deleted && c.quantity != 0,
		Action:      c.action,
	}, true
}

// SnapshotEntry renders the cell for a one-shot MarketDataSnapshot,
// where spec section 4.3 requires the action be omitted.
func (c *PriceCell) SnapshotEntry() (types.MarketDataEntry, bool) {
	e, ok := c.Entry()
	if !ok {
		return e, false
	}
	e.Action = types.MdUpdateActionUnspecified
	return e, true
}
