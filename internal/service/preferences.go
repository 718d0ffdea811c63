package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"beanthere/internal/config"
	"beanthere/internal/domain"
	"beanthere/internal/domain/models"
	"beanthere/internal/domain/repositories"
	"beanthere/internal/domain/services"
)

// Local storage keys. They match what the web client has always written.
const (
	KeyOnboarding = "beanThereOnboarding"
	KeyUserName   = "userName"
	KeyUserUID    = "userUID"
	KeyUserEmail  = "userEmail"
)

// DefaultDeviceID is used when a request does not identify its device.
const DefaultDeviceID = "default"

type preferencesProvider struct {
	store  repositories.LocalStore
	logger *slog.Logger
}

// NewPreferencesProvider creates a provider over store
func NewPreferencesProvider(store repositories.LocalStore, logger *slog.Logger) services.PreferencesProvider {
	return &preferencesProvider{store: store, logger: logger}
}

func (p *preferencesProvider) For(deviceID string) services.PreferencesContext {
	if strings.TrimSpace(deviceID) == "" {
		deviceID = DefaultDeviceID
	}
	return &preferencesContext{
		deviceID: deviceID,
		store:    p.store,
		logger:   p.logger.With("device_id", deviceID),
	}
}

type preferencesContext struct {
	deviceID string
	store    repositories.LocalStore
	logger   *slog.Logger
}

func (c *preferencesContext) DeviceID() string {
	return c.deviceID
}

func (c *preferencesContext) Onboarding(ctx context.Context) (*models.UserPreferences, error) {
	raw, ok, err := c.store.Get(ctx, c.deviceID, KeyOnboarding)
	if err != nil {
		return nil, fmt.Errorf("read onboarding: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var prefs models.UserPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		// Treated as not onboarded; the next save overwrites it
		c.logger.Warn("ignoring malformed onboarding data", "error", err)
		return nil, nil
	}
	return &prefs, nil
}

func (c *preferencesContext) SaveOnboarding(ctx context.Context, prefs *models.UserPreferences) (*models.UserPreferences, error) {
	if prefs == nil {
		return nil, &domain.ValidationError{Message: "preferences are required"}
	}
	normalized := normalizePreferences(prefs)
	if err := validatePreferences(normalized); err != nil {
		return nil, err
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("marshal onboarding: %w", err)
	}
	if err := c.store.Set(ctx, c.deviceID, KeyOnboarding, string(data)); err != nil {
		return nil, fmt.Errorf("save onboarding: %w", err)
	}

	c.logger.Info("onboarding saved",
		"coffee_types", len(normalized.CoffeeTypes),
		"vibes", len(normalized.Vibe),
		"budget", normalized.Budget,
	)
	return normalized, nil
}

func (c *preferencesContext) DisplayName(ctx context.Context) (string, error) {
	name, _, err := c.store.Get(ctx, c.deviceID, KeyUserName)
	if err != nil {
		return "", fmt.Errorf("read display name: %w", err)
	}
	return name, nil
}

func (c *preferencesContext) SetDisplayName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	err := validation.Validate(name,
		validation.Required.Error("Please enter your name"),
		validation.RuneLength(1, config.MaxDisplayNameLength),
	)
	if err != nil {
		return "", &domain.ValidationError{Message: err.Error(), Fields: map[string]string{"name": err.Error()}}
	}

	if err := c.store.Set(ctx, c.deviceID, KeyUserName, name); err != nil {
		return "", fmt.Errorf("save display name: %w", err)
	}
	return name, nil
}

func (c *preferencesContext) CachedIdentity(ctx context.Context) (string, string, error) {
	uid, _, err := c.store.Get(ctx, c.deviceID, KeyUserUID)
	if err != nil {
		return "", "", fmt.Errorf("read cached uid: %w", err)
	}
	email, _, err := c.store.Get(ctx, c.deviceID, KeyUserEmail)
	if err != nil {
		return "", "", fmt.Errorf("read cached email: %w", err)
	}
	return uid, email, nil
}

func (c *preferencesContext) MirrorIdentity(ctx context.Context, uid, email string) error {
	if err := c.store.Set(ctx, c.deviceID, KeyUserUID, uid); err != nil {
		return fmt.Errorf("mirror uid: %w", err)
	}
	if err := c.store.Set(ctx, c.deviceID, KeyUserEmail, email); err != nil {
		return fmt.Errorf("mirror email: %w", err)
	}
	return nil
}

func (c *preferencesContext) ClearIdentity(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.deviceID, KeyUserUID); err != nil {
		return fmt.Errorf("clear uid: %w", err)
	}
	if err := c.store.Delete(ctx, c.deviceID, KeyUserEmail); err != nil {
		return fmt.Errorf("clear email: %w", err)
	}
	return nil
}

// normalizePreferences trims values and drops duplicate selections while
// keeping their order.
func normalizePreferences(p *models.UserPreferences) *models.UserPreferences {
	return &models.UserPreferences{
		CoffeeTypes:    dedupe(p.CoffeeTypes),
		Vibe:           dedupe(p.Vibe),
		Budget:         models.Budget(strings.TrimSpace(string(p.Budget))),
		FavoriteFlavor: strings.TrimSpace(p.FavoriteFlavor),
		MilkType:       strings.TrimSpace(p.MilkType),
	}
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func validatePreferences(p *models.UserPreferences) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.CoffeeTypes, validation.Each(validation.In(toAny(models.CoffeeTypeOptions)...).Error("unknown coffee type"))),
		validation.Field(&p.Vibe, validation.Each(validation.In(toAny(models.VibeOptions)...).Error("unknown vibe"))),
		validation.Field(&p.Budget, validation.In(models.BudgetLow, models.BudgetModerate, models.BudgetPremium).Error("budget must be budget, moderate or premium")),
		validation.Field(&p.FavoriteFlavor, validation.In(toAny(models.FlavorOptions)...).Error("unknown flavor")),
		validation.Field(&p.MilkType, validation.In(toAny(models.MilkOptions)...).Error("unknown milk type")),
	)
	return validationError(err, "coffeeTypes", "vibe", "budget", "favoriteFlavor", "milkType")
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
