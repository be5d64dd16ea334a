package models

import (
	"encoding/json"
	"fmt"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme validates a textual theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

type NotificationPrefs struct {
	Email            bool `json:"email"`
	Push             bool `json:"push"`
	GroupInvites     bool `json:"groupInvites"`
	ChallengeUpdates bool `json:"challengeUpdates"`
	NewComments      bool `json:"newComments"`
}

type PrivacyPrefs struct {
	ShowEmail     bool `json:"showEmail"`
	ShowLocation  bool `json:"showLocation"`
	PublicProfile bool `json:"publicProfile"`
}

type DisplaySettings struct {
	DefaultCatchView  string `json:"defaultCatchView"`
	MeasurementSystem string `json:"measurementSystem"`
	DateFormat        string `json:"dateFormat"`
}

// Preferences is the full preference document stored on the account.
type Preferences struct {
	Theme           Theme             `json:"theme"`
	Notifications   NotificationPrefs `json:"notifications"`
	Privacy         PrivacyPrefs      `json:"privacy"`
	DisplaySettings DisplaySettings   `json:"displaySettings"`
}

// DefaultPreferences is what a new account starts with and what every
// remote blob is merged onto.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme: ThemeSystem,
		Notifications: NotificationPrefs{
			Email:            true,
			Push:             true,
			GroupInvites:     true,
			ChallengeUpdates: true,
			NewComments:      true,
		},
		Privacy: PrivacyPrefs{
			ShowEmail:     false,
			ShowLocation:  true,
			PublicProfile: true,
		},
		DisplaySettings: DisplaySettings{
			DefaultCatchView:  "grid",
			MeasurementSystem: "imperial",
			DateFormat:        "MM/dd/yyyy",
		},
	}
}

// PreferencesPatch is a partial preference update. Each group is replaced
// as a whole when present and left alone when nil.
type PreferencesPatch struct {
	Theme           *Theme             `json:"theme,omitempty"`
	Notifications   *NotificationPrefs `json:"notifications,omitempty"`
	Privacy         *PrivacyPrefs      `json:"privacy,omitempty"`
	DisplaySettings *DisplaySettings   `json:"displaySettings,omitempty"`
}

// IsEmpty reports whether the patch carries no group at all.
func (p PreferencesPatch) IsEmpty() bool {
	return p.Theme == nil && p.Notifications == nil && p.Privacy == nil && p.DisplaySettings == nil
}

// Apply returns p with the groups present in patch swapped in.
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.Notifications != nil {
		p.Notifications = *patch.Notifications
	}
	if patch.Privacy != nil {
		p.Privacy = *patch.Privacy
	}
	if patch.DisplaySettings != nil {
		p.DisplaySettings = *patch.DisplaySettings
	}
	return p
}

// PreferencesFromJSON decodes a remote preference blob and merges it onto
// the defaults. An empty blob yields the defaults.
func PreferencesFromJSON(raw []byte) (Preferences, error) {
	prefs := DefaultPreferences()
	if len(raw) == 0 {
		return prefs, nil
	}

	var patch PreferencesPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return prefs, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs.Apply(patch), nil
}
