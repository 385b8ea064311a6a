package datalayer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore lets tests force Store errors without a real collaborator,
// to drive the Client's circuit breaker open.
type failingStore struct {
	err error
}

func (s *failingStore) Select(Expression[Venue]) []Venue { return nil }
func (s *failingStore) SelectOne(Expression[Venue]) (Venue, bool) {
	return Venue{}, false
}
func (s *failingStore) Insert(Venue) {}
func (s *failingStore) Update(Expression[Venue], func(Venue) Venue) (int, error) {
	return 0, s.err
}
func (s *failingStore) Delete(Expression[Venue]) int { return 0 }

func TestClient_SelectDelegatesToStore(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	client := NewClient[Venue](repo, ClientConfig{Name: "venues"})

	venues, err := client.Select(context.Background(), Expression[Venue]{})
	require.NoError(t, err)
	assert.Len(t, venues, 3)
}

func TestClient_SelectOneReportsMiss(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	client := NewClient[Venue](repo, ClientConfig{Name: "venues"})

	_, found, err := client.SelectOne(context.Background(), EqAttr[Venue](VenueAttributeVenueID, "XHKG"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_UpdateWrapsStoreError(t *testing.T) {
	store := &failingStore{err: errors.New("connection reset")}
	client := NewClient[Venue](store, ClientConfig{Name: "venues"})

	_, err := client.Update(context.Background(), Expression[Venue]{}, func(v Venue) Venue { return v })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "venues")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestClient_InsertDelegatesToStore(t *testing.T) {
	repo := NewRepository[Venue]()
	client := NewClient[Venue](repo, ClientConfig{Name: "venues"})

	err := client.Insert(context.Background(), Venue{VenueID: "XHKG", Name: "Hong Kong"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())
}

func TestClient_DeleteDelegatesToStore(t *testing.T) {
	repo := NewRepository(sampleVenues()...)
	client := NewClient[Venue](repo, ClientConfig{Name: "venues"})

	removed, err := client.Delete(context.Background(), EqAttr[Venue](VenueAttributeVenueID, "XTKS"))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, repo.Len())
}
