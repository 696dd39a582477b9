package task

import (
	"context"
	"log"
	"sort"

	"noteboard/internal/model"
	"noteboard/internal/settings"
)

// SectionsSettingKey is where section definitions live in the settings store.
const SectionsSettingKey = "sections"

// LoadSections reads the section list from the settings store. The default
// section is always present at ordinal 0 and the result is sorted by display
// order. A failing read degrades to the default-only list.
func LoadSections(ctx context.Context, st settings.Store, logger *log.Logger) []model.Section {
	if logger == nil {
		logger = log.Default()
	}

	var secs []model.Section
	ok, err := st.Get(ctx, SectionsSettingKey, &secs)
	if err != nil {
		logger.Printf("sections load failed: %v", err)
		return []model.Section{model.DefaultSection()}
	}
	if !ok || len(secs) == 0 {
		return []model.Section{model.DefaultSection()}
	}

	hasDefault := false
	for _, s := range secs {
		if s.ID == model.DefaultSectionID {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		secs = append([]model.Section{model.DefaultSection()}, secs...)
	}

	sort.SliceStable(secs, func(i, j int) bool { return secs[i].Order < secs[j].Order })
	return secs
}

func SaveSections(ctx context.Context, st settings.Store, secs []model.Section) error {
	return st.Set(ctx, SectionsSettingKey, secs)
}
