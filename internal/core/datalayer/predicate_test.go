package datalayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleVenues() []Venue {
	return []Venue{
		{VenueID: "XNYS", Name: "New York Stock Exchange", Timezone: "America/New_York", SupportTIFDay: true, SupportTIFIOC: true},
		{VenueID: "XLON", Name: "London Stock Exchange", Timezone: "Europe/London", SupportTIFDay: true},
		{VenueID: "XTKS", Name: "Tokyo Stock Exchange", Timezone: "Asia/Tokyo", CancelOnDisconnect: true},
	}
}

func TestExpression_ZeroMatchesEverything(t *testing.T) {
	var pred Expression[Venue]
	for _, v := range sampleVenues() {
		assert.True(t, pred.Evaluate(v))
	}
}

func TestExpression_EqAttrMatchesSingleRecord(t *testing.T) {
	pred := EqAttr[Venue](VenueAttributeVenueID, "XLON")

	var matched []string
	for _, v := range sampleVenues() {
		if pred.Evaluate(v) {
			matched = append(matched, v.VenueID)
		}
	}
	assert.Equal(t, []string{"XLON"}, matched)
}

func TestExpression_NeqAttrExcludesMatch(t *testing.T) {
	pred := NeqAttr[Venue](VenueAttributeVenueID, "XLON")

	var matched []string
	for _, v := range sampleVenues() {
		if pred.Evaluate(v) {
			matched = append(matched, v.VenueID)
		}
	}
	assert.Equal(t, []string{"XNYS", "XTKS"}, matched)
}

func TestExpression_AndRequiresBothSides(t *testing.T) {
	pred := EqAttr[Venue](VenueAttributeTimezone, "Asia/Tokyo").
		And(EqAttr[Venue](VenueAttributeCancelOnDisconnect, true))

	var matched []string
	for _, v := range sampleVenues() {
		if pred.Evaluate(v) {
			matched = append(matched, v.VenueID)
		}
	}
	assert.Equal(t, []string{"XTKS"}, matched)
}

func TestExpression_OrRequiresEitherSide(t *testing.T) {
	pred := EqAttr[Venue](VenueAttributeVenueID, "XNYS").
		Or(EqAttr[Venue](VenueAttributeVenueID, "XTKS"))

	var matched []string
	for _, v := range sampleVenues() {
		if pred.Evaluate(v) {
			matched = append(matched, v.VenueID)
		}
	}
	assert.Equal(t, []string{"XNYS", "XTKS"}, matched)
}

func TestExpression_UnknownAttributeNeverMatches(t *testing.T) {
	pred := EqAttr[Venue](VenueAttribute("not_a_real_column"), "anything")
	for _, v := range sampleVenues() {
		assert.False(t, pred.Evaluate(v))
	}
}

func TestExpression_OrderedComparisonsOnFloat(t *testing.T) {
	seeds := []PriceSeed{
		{PriceSeedID: 1, Symbol: "AAPL", MidPrice: 100},
		{PriceSeedID: 2, Symbol: "MSFT", MidPrice: 200},
		{PriceSeedID: 3, Symbol: "GOOG", MidPrice: 300},
	}

	above150 := GreaterAttr[PriceSeed](PriceSeedAttributeMidPrice, 150.0)
	var above []string
	for _, s := range seeds {
		if above150.Evaluate(s) {
			above = append(above, s.Symbol)
		}
	}
	assert.Equal(t, []string{"MSFT", "GOOG"}, above)

	atMost200 := LessEqAttr[PriceSeed](PriceSeedAttributeMidPrice, 200.0)
	var atOrBelow []string
	for _, s := range seeds {
		if atMost200.Evaluate(s) {
			atOrBelow = append(atOrBelow, s.Symbol)
		}
	}
	assert.Equal(t, []string{"AAPL", "MSFT"}, atOrBelow)
}
