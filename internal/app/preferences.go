package app

import (
	"context"

	"lectio/pkg/domain"
)

// GetPreferences returns the user's saved UI preferences, or the defaults
// when nothing has been saved yet.
func (a *App) GetPreferences(ctx context.Context, user domain.User) (domain.UIPreferences, error) {
	prefs, ok, err := a.store.GetUIPreferences(user.ID)
	if err != nil {
		return domain.UIPreferences{}, err
	}
	if !ok {
		return domain.DefaultUIPreferences(user.ID), nil
	}
	return prefs, nil
}

// SavePreferences upserts the user's UI preferences. Out-of-range values
// fall back to the defaults rather than erroring.
func (a *App) SavePreferences(ctx context.Context, user domain.User, prefs domain.UIPreferences) (domain.UIPreferences, error) {
	defaults := domain.DefaultUIPreferences(user.ID)
	prefs.UserID = user.ID
	if prefs.TextSizePx <= 0 {
		prefs.TextSizePx = defaults.TextSizePx
	}
	if prefs.FontFamily == "" {
		prefs.FontFamily = defaults.FontFamily
	}
	if prefs.LineHeight <= 0 {
		prefs.LineHeight = defaults.LineHeight
	}
	if prefs.PaddingX < 0 {
		prefs.PaddingX = defaults.PaddingX
	}
	return a.store.SaveUIPreferences(prefs)
}
