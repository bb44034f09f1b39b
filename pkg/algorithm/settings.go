package algorithm

import "github.com/aretw0/delta/pkg/domain"

// Settings line formats.
const (
	FormatSettingsName  = "settings_name"
	FormatSettingsIcon  = "settings_icon"
	FormatSettingsCloud = "settings_cloud"
)

// Settings returns the SettingsCount() metadata lines: name, icon and, for
// owned algorithms already persisted, the cloud line.
func (a *Algorithm) Settings() []domain.EditorLine {
	lines := []domain.EditorLine{
		{Format: FormatSettingsName, Category: domain.CategorySettings, Values: []string{a.Name}},
		{Format: FormatSettingsIcon, Category: domain.CategorySettings, Values: []string{a.Icon}},
		{Format: FormatSettingsCloud, Category: domain.CategorySettings, Values: []string{string(a.Status)}},
	}
	return lines[:a.SettingsCount()]
}

// SettingsCount is 3 for owned algorithms that have a local ID, 2 otherwise.
func (a *Algorithm) SettingsCount() int {
	if a.Owner && a.LocalID != 0 {
		return 3
	}
	return 2
}

// UpdateSettings applies a settings line edit. Index 0 renames the algorithm,
// index 1 changes its icon. Anything else is ignored.
func (a *Algorithm) UpdateSettings(index int, values []string) {
	if len(values) != 1 {
		return
	}
	switch index {
	case 0:
		a.Name = values[0]
	case 1:
		a.Icon = values[0]
	}
}
