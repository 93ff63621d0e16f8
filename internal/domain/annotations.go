package domain

import "strings"

// PurchasedSet is the sparse set of product IDs the user owns.
// Absence means "not purchased".
type PurchasedSet map[string]struct{}

// Has reports whether the product is marked purchased
func (s PurchasedSet) Has(productID string) bool {
	_, ok := s[productID]
	return ok
}

// Add marks a product purchased
func (s PurchasedSet) Add(productID string) { s[productID] = struct{}{} }

// TagMap maps product IDs to user labels. Products without labels are absent.
type TagMap map[string][]string

// NormalizeTags trims labels and drops empty and duplicate ones, keeping order
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Setting keys understood by the application
const (
	SettingTheme       = "theme"
	SettingLanguage    = "language"
	SettingOshiLiverID = "oshi_liver_id"
)

// Settings is the typed view over the raw settings map
type Settings struct {
	Theme       string // "light" or "dark"
	Language    string // "jp" or "en"
	OshiLiverID string // favourite liver, empty when unset
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		Theme:    "light",
		Language: "jp",
	}
}

// SettingsFromMap applies stored values over the defaults
func SettingsFromMap(raw map[string]string) Settings {
	s := DefaultSettings()
	if v, ok := raw[SettingTheme]; ok && v != "" {
		s.Theme = v
	}
	if v, ok := raw[SettingLanguage]; ok && v != "" {
		s.Language = v
	}
	if v, ok := raw[SettingOshiLiverID]; ok {
		s.OshiLiverID = v
	}
	return s
}

// ValidateSetting checks a value against the allowed values of known keys.
// Unknown keys are accepted as-is.
func ValidateSetting(key, value string) error {
	switch key {
	case SettingTheme:
		if value != "light" && value != "dark" {
			return &InvalidSettingError{Key: key, Value: value, Allowed: []string{"light", "dark"}}
		}
	case SettingLanguage:
		if value != "jp" && value != "en" {
			return &InvalidSettingError{Key: key, Value: value, Allowed: []string{"jp", "en"}}
		}
	}
	return nil
}

// InvalidSettingError reports a value outside the allowed set for a key
type InvalidSettingError struct {
	Key     string
	Value   string
	Allowed []string
}

func (e *InvalidSettingError) Error() string {
	return "invalid value " + quote(e.Value) + " for setting " + e.Key +
		" (allowed: " + strings.Join(e.Allowed, ", ") + ")"
}

func quote(s string) string { return "\"" + s + "\"" }
