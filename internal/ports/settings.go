package ports

import "repotabs/internal/config"

// SettingsSource yields the current configuration. The tab engine polls it
// at the start of each operation instead of caching values.
type SettingsSource interface {
	Current() config.Options
}
