package datalayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_SelectWithZeroPredicateReturnsAll(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	assert.Len(t, repo.Select(Expression[Venue]{}), 3)
}

func TestRepository_SelectOneFindsFirstMatch(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	v, ok := repo.SelectOne(EqAttr[Venue](VenueAttributeVenueID, "XLON"))
	require.True(t, ok)
	assert.Equal(t, "London Stock Exchange", v.Name)
}

func TestRepository_SelectOneMissReturnsFalse(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	_, ok := repo.SelectOne(EqAttr[Venue](VenueAttributeVenueID, "XHKG"))
	assert.False(t, ok)
}

func TestRepository_InsertGrowsRepository(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	repo.Insert(Venue{VenueID: "XHKG", Name: "Hong Kong Stock Exchange"})
	assert.Equal(t, 4, repo.Len())

	v, ok := repo.SelectOne(EqAttr[Venue](VenueAttributeVenueID, "XHKG"))
	require.True(t, ok)
	assert.Equal(t, "Hong Kong Stock Exchange", v.Name)
}

func TestRepository_UpdateAppliesPatchToMatches(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	touched, err := repo.Update(EqAttr[Venue](VenueAttributeVenueID, "XLON"), func(v Venue) Venue {
		patch := VenuePatch{CancelOnDisconnect: boolPtr(true)}
		return v.Apply(patch)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	v, ok := repo.SelectOne(EqAttr[Venue](VenueAttributeVenueID, "XLON"))
	require.True(t, ok)
	assert.True(t, v.CancelOnDisconnect)
}

func TestRepository_UpdateNoMatchReturnsNotFound(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	_, err := repo.Update(EqAttr[Venue](VenueAttributeVenueID, "XHKG"), func(v Venue) Venue { return v })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteRemovesMatches(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	removed := repo.Delete(EqAttr[Venue](VenueAttributeVenueID, "XTKS"))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, repo.Len())

	_, ok := repo.SelectOne(EqAttr[Venue](VenueAttributeVenueID, "XTKS"))
	assert.False(t, ok)
}

func boolPtr(b bool) *bool { return &b }
