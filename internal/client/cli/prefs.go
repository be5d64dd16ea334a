package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fishlog/internal/client/models"
)

// Prefs prints the current user's preferences.
func (a *App) Prefs(ctx context.Context) error {
	u := a.authService.State().User
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}

	b, err := json.MarshalIndent(u.Preferences, "", "  ")
	if err != nil {
		return err
	}
	printlnFn(string(b))
	return nil
}

func (a *App) SetTheme(ctx context.Context, name string) error {
	theme, err := models.ParseTheme(name)
	if err != nil {
		printlnFn("Usage: theme light|dark|system")
		return err
	}
	return a.authService.UpdatePreferences(ctx, models.PreferencesPatch{Theme: &theme})
}

// SetUnits switches the measurement system. The display group is sent as a
// whole, so the other display settings are carried over from the current
// user.
func (a *App) SetUnits(ctx context.Context, system string) error {
	if system != "metric" && system != "imperial" {
		printlnFn("Usage: units metric|imperial")
		return fmt.Errorf("unknown measurement system %q", system)
	}

	display := models.DefaultPreferences().DisplaySettings
	if u := a.authService.State().User; u != nil {
		display = u.Preferences.DisplaySettings
	}
	display.MeasurementSystem = system

	return a.authService.UpdatePreferences(ctx, models.PreferencesPatch{DisplaySettings: &display})
}
