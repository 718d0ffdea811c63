package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
)

func TestPreferences_OnboardingRoundTrip(t *testing.T) {
	store := newMemLocalStore()
	pc := NewPreferencesProvider(store, testLogger()).For("d1")
	ctx := context.Background()

	got, err := pc.Onboarding(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "not onboarded yet")

	saved, err := pc.SaveOnboarding(ctx, &models.UserPreferences{
		CoffeeTypes: []string{"latte", " latte", "espresso"},
		Vibe:        []string{"quiet"},
		Budget:      models.BudgetModerate,
		MilkType:    "oat",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"latte", "espresso"}, saved.CoffeeTypes)

	got, err = pc.Onboarding(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestPreferences_RejectsUnknownOptions(t *testing.T) {
	tests := []struct {
		name  string
		prefs models.UserPreferences
		field string
	}{
		{name: "coffee type", prefs: models.UserPreferences{CoffeeTypes: []string{"frappuccino"}}, field: "coffeeTypes"},
		{name: "vibe", prefs: models.UserPreferences{Vibe: []string{"rowdy"}}, field: "vibe"},
		{name: "budget", prefs: models.UserPreferences{Budget: "lavish"}, field: "budget"},
		{name: "flavor", prefs: models.UserPreferences{FavoriteFlavor: "salty"}, field: "favoriteFlavor"},
		{name: "milk", prefs: models.UserPreferences{MilkType: "goat"}, field: "milkType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := NewPreferencesProvider(newMemLocalStore(), testLogger()).For("d1")
			_, err := pc.SaveOnboarding(context.Background(), &tt.prefs)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.field)
		})
	}
}

func TestPreferences_MalformedReadsAsAbsent(t *testing.T) {
	store := newMemLocalStore()
	require.NoError(t, store.Set(context.Background(), "d1", KeyOnboarding, "{not json"))

	got, err := NewPreferencesProvider(store, testLogger()).For("d1").Onboarding(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPreferences_DisplayName(t *testing.T) {
	pc := NewPreferencesProvider(newMemLocalStore(), testLogger()).For("")
	ctx := context.Background()
	assert.Equal(t, DefaultDeviceID, pc.DeviceID())

	_, err := pc.SetDisplayName(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	name, err := pc.SetDisplayName(ctx, "  Ana  ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", name)

	got, err := pc.DisplayName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got)
}

func TestPreferences_DevicesAreIsolated(t *testing.T) {
	provider := NewPreferencesProvider(newMemLocalStore(), testLogger())
	ctx := context.Background()

	require.NoError(t, provider.For("d1").MirrorIdentity(ctx, "u1", "a@b.co"))
	uid, _, err := provider.For("d2").CachedIdentity(ctx)
	require.NoError(t, err)
	assert.Empty(t, uid)

	uid, email, err := provider.For("d1").CachedIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
	assert.Equal(t, "a@b.co", email)

	require.NoError(t, provider.For("d1").ClearIdentity(ctx))
	uid, _, err = provider.For("d1").CachedIdentity(ctx)
	require.NoError(t, err)
	assert.Empty(t, uid)
}
