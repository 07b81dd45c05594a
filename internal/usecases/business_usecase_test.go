package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessCreateFetchRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner, err := f.auth.Register(ctx, "owner@x.com", "pw1234")
	require.NoError(t, err)

	in := BusinessInput{
		Name:         "Flower Shop",
		Type:         "retail",
		PromoLink:    "https://flowers.example",
		Phone:        "+1 555 0100",
		WorkingDays:  []string{"Mon", "Tue", "Wed"},
		StartTime:    "09:00",
		EndTime:      "18:00",
		WorkSaturday: true,
		StartTimeSat: "10:00",
		EndTimeSat:   "16:00",
		CatalogType:  "google",
	}
	created, err := f.businessUsecase.Create(ctx, owner.ID, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := f.businessUsecase.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Name, fetched.Name)
	assert.Equal(t, in.Type, fetched.Type)
	assert.Equal(t, in.PromoLink, fetched.PromoLink)
	assert.Equal(t, in.Phone, fetched.Phone)
	assert.Equal(t, in.WorkingDays, fetched.WorkingDays)
	assert.Equal(t, in.StartTime, fetched.StartTime)
	assert.Equal(t, in.EndTime, fetched.EndTime)
	assert.True(t, fetched.WorkSaturday)
	assert.Equal(t, in.StartTimeSat, fetched.StartTimeSat)
	assert.Equal(t, in.CatalogType, fetched.CatalogType)
	assert.Equal(t, owner.ID, fetched.OwnerID)
}

func TestBusinessCreateDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner, _ := f.auth.Register(ctx, "owner@x.com", "pw1234")
	created, err := f.businessUsecase.Create(ctx, owner.ID, BusinessInput{Name: "Bare"})
	require.NoError(t, err)

	assert.Equal(t, []string{}, created.WorkingDays)
	assert.False(t, created.WorkSaturday)
	assert.False(t, created.WorkSunday)
}

func TestBusinessUpdatePartialMerge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner, biz, _ := f.seedOwnerChain(ctx, "owner@x.com")

	phone := "+1 555 0100"
	days := []string{"Sat", "Sun"}
	updated, err := f.businessUsecase.Update(ctx, owner.ID, BusinessPatch{
		ID:          biz.ID,
		Phone:       &phone,
		WorkingDays: &days,
	})
	require.NoError(t, err)

	// Patched fields applied, everything else untouched
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, days, updated.WorkingDays)
	assert.Equal(t, biz.Name, updated.Name)
	assert.Equal(t, biz.OwnerID, updated.OwnerID)
}

func TestBusinessNonOwnerForbidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, biz, _ := f.seedOwnerChain(ctx, "owner@x.com")
	intruder, _, _ := f.seedOwnerChain(ctx, "intruder@x.com")

	_, err := f.businessUsecase.Get(ctx, intruder.ID, biz.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	name := "hijacked"
	_, err = f.businessUsecase.Update(ctx, intruder.ID, BusinessPatch{ID: biz.ID, Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.businessUsecase.Delete(ctx, intruder.ID, biz.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Record untouched throughout
	stored, err := f.businesses.GetByID(ctx, biz.ID)
	require.NoError(t, err)
	assert.Equal(t, biz.Name, stored.Name)
}

func TestBusinessListScopedToOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner, biz, _ := f.seedOwnerChain(ctx, "owner@x.com")
	f.seedOwnerChain(ctx, "other@x.com")

	businesses, err := f.businessUsecase.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, biz.ID, businesses[0].ID)
}
