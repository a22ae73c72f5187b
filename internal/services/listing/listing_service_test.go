package listing

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/logger"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

type memListings struct {
	mu         sync.Mutex
	listings   map[uuid.UUID]*models.Listing
	lastFilter models.ListingFilter
}

func newMemListings() *memListings {
	return &memListings{listings: map[uuid.UUID]*models.Listing{}}
}

func (m *memListings) CreateListing(_ context.Context, ownerID uuid.UUID, in models.ListingInput) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := &models.Listing{
		ID: uuid.New(), UserID: ownerID, Title: in.Title, Description: in.Description, Price: in.Price,
		Location: in.Location, Bedrooms: in.Bedrooms, Bathrooms: in.Bathrooms, AvailableFrom: in.AvailableFrom.Time,
		Amenities: in.Amenities, Images: in.Images, Status: models.ListingStatusActive,
		CreatedAt: time.Now().Add(time.Duration(len(m.listings)) * time.Second),
	}
	m.listings[l.ID] = l
	cp := *l
	return &cp, nil
}

func (m *memListings) ListListings(_ context.Context, f models.ListingFilter) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	out := []models.Listing{}
	for _, l := range m.listings {
		if l.Status == models.ListingStatusActive {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memListings) GetListing(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memListings) ListingExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.listings[id]
	return ok, nil
}

func (m *memListings) ListingsByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Listing{}
	for _, l := range m.listings {
		if l.UserID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memListings) UpdateListing(_ context.Context, id, ownerID uuid.UUID, p models.ListingPatch) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok || l.UserID != ownerID {
		return nil, db.ErrNotFound
	}
	if p.Title.Set {
		l.Title = p.Title.Value
	}
	if p.Price.Set {
		l.Price = p.Price.Value
	}
	if p.Status.Set {
		l.Status = p.Status.Value
	}
	if p.Amenities.Set {
		l.Amenities = p.Amenities.Value
	}
	now := time.Now()
	l.UpdatedAt = &now
	cp := *l
	return &cp, nil
}

func (m *memListings) DeleteListing(_ context.Context, id, ownerID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok || l.UserID != ownerID {
		return false, nil
	}
	delete(m.listings, id)
	return true, nil
}

func (m *memListings) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.listings[id]; ok {
		l.Views++
	}
	return nil
}

func (m *memListings) IncrementInterested(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.listings[id]; ok {
		l.Interested++
	}
	return nil
}

func validInput() models.ListingInput {
	return models.ListingInput{
		Title:         "Two bedroom near campus",
		Description:   "Furnished, utilities included",
		Price:         1400,
		Location:      "Boston",
		Bedrooms:      2,
		Bathrooms:     1.5,
		AvailableFrom: models.DateTime{Time: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		Amenities:     []string{"wifi", "laundry"},
	}
}

func newTestService() (*ListingService, *memListings) {
	repo := newMemListings()
	return NewListingService(repo, logger.Nop()), repo
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()

	l, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusActive, l.Status)
	assert.Equal(t, owner, l.UserID)
	assert.Zero(t, l.Views)
	assert.Zero(t, l.Interested)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()

	cases := map[string]func(*models.ListingInput){
		"missing title":     func(in *models.ListingInput) { in.Title = "  " },
		"negative price":    func(in *models.ListingInput) { in.Price = -1 },
		"negative bedrooms": func(in *models.ListingInput) { in.Bedrooms = -2 },
		"missing date":      func(in *models.ListingInput) { in.AvailableFrom = models.DateTime{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), uuid.New(), in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestGetIncrementsViewsEveryTime(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	l, err := svc.Create(ctx, uuid.New(), validInput())
	require.NoError(t, err)

	first, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Views)

	second, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Views)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()
	l, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, l.ID, uuid.New(), models.ListingPatch{Price: models.Some(1.0)})
	assert.ErrorIs(t, err, apperr.ErrNotFoundOrForbidden)

	_, err = svc.Update(ctx, l.ID, owner, models.ListingPatch{Title: models.Optional[string]{Set: true, Null: true}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Update(ctx, l.ID, owner, models.ListingPatch{Status: models.Some("sold")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	updated, err := svc.Update(ctx, l.ID, owner, models.ListingPatch{
		Status:    models.Some(models.ListingStatusPending),
		Amenities: models.Optional[[]string]{Set: true, Null: true},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusPending, updated.Status)
	assert.Equal(t, l.Title, updated.Title)
	assert.Equal(t, l.Price, updated.Price)
	assert.Empty(t, updated.Amenities)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestUpdateCountsCharactersNotBytes(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	in := validInput()
	in.Title = strings.Repeat("ж", 150)
	in.Location = strings.Repeat("ü", 200)
	l, err := svc.Create(ctx, owner, in)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, l.ID, owner, models.ListingPatch{
		Title:    models.Some(l.Title),
		Location: models.Some(l.Location),
	})
	require.NoError(t, err)
	assert.Equal(t, in.Title, updated.Title)

	_, err = svc.Update(ctx, l.ID, owner, models.ListingPatch{Title: models.Some(strings.Repeat("ж", 201))})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	owner := uuid.New()
	l, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, l.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, repo.listings, 1)

	deleted, err = svc.Delete(ctx, l.ID, owner)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, l.ID, owner)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMarkInterested(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	l, err := svc.Create(ctx, uuid.New(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.MarkInterested(ctx, l.ID))
	require.NoError(t, svc.MarkInterested(ctx, l.ID))
	assert.Equal(t, 2, repo.listings[l.ID].Interested)

	assert.ErrorIs(t, svc.MarkInterested(ctx, uuid.New()), apperr.ErrNotFound)
}

func TestNormalizeFilter(t *testing.T) {
	f := NormalizeFilter(models.ListingFilter{Skip: -5, Limit: 0, Search: "  loft "})
	assert.Equal(t, 0, f.Skip)
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, "loft", f.Search)

	assert.Equal(t, MaxLimit, NormalizeFilter(models.ListingFilter{Limit: 1000}).Limit)
	assert.Equal(t, 7, NormalizeFilter(models.ListingFilter{Limit: 7}).Limit)
}

func TestParseFilter(t *testing.T) {
	q := map[string]string{"search": "loft", "min_price": "500", "max_price": "1500.5", "bedrooms": "2", "skip": "10", "limit": "20"}
	f, err := ParseFilter(func(k string) string { return q[k] })
	require.NoError(t, err)
	assert.Equal(t, "loft", f.Search)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 500.0, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 1500.5, *f.MaxPrice)
	require.NotNil(t, f.Bedrooms)
	assert.Equal(t, 2, *f.Bedrooms)
	assert.Equal(t, 10, f.Skip)
	assert.Equal(t, 20, f.Limit)

	_, err = ParseFilter(func(k string) string {
		if k == "min_price" {
			return "cheap"
		}
		return ""
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	f, err = ParseFilter(func(string) string { return "" })
	require.NoError(t, err)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.Bedrooms)
}
