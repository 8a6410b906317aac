package app

import (
	"encoding/json"

	"github.com/jaakkos/lifevault/internal/domain"
)

// migration rewrites a raw document from an older on-disk shape to the next
// one. Migrations are pure (no I/O), ordered, and tolerant: a document that
// already has the new shape passes through unchanged.
type migration func(doc map[string]json.RawMessage)

var migrations = []migration{
	migrateThemeObject,
	migrateFocusSeconds,
}

// migrateThemeObject flattens the legacy settings.theme color object
// ({"name":"dusk","accent":"#123"}) to the flat theme-name string.
func migrateThemeObject(doc map[string]json.RawMessage) {
	raw, ok := doc["settings"]
	if !ok {
		return
	}
	var settings map[string]any
	if err := json.Unmarshal(raw, &settings); err != nil {
		return
	}
	themeObj, ok := settings["theme"].(map[string]any)
	if !ok {
		return
	}
	name, _ := themeObj["name"].(string)
	settings["theme"] = name
	if out, err := json.Marshal(settings); err == nil {
		doc["settings"] = out
	}
}

// migrateFocusSeconds converts the legacy focusDuration field (seconds) to
// focusMinutes. An explicit focusMinutes always wins.
func migrateFocusSeconds(doc map[string]json.RawMessage) {
	raw, ok := doc["settings"]
	if !ok {
		return
	}
	var settings map[string]any
	if err := json.Unmarshal(raw, &settings); err != nil {
		return
	}
	secs, ok := settings["focusDuration"].(float64)
	if !ok {
		return
	}
	delete(settings, "focusDuration")
	if _, has := settings["focusMinutes"]; !has && secs > 0 {
		settings["focusMinutes"] = int(secs+59) / 60
	}
	if out, err := json.Marshal(settings); err == nil {
		doc["settings"] = out
	}
}

// Normalize builds a well-formed Store from a raw partial document. It is
// total: any input, including nil, yields a valid Store. Every load path and
// the merge path run through it before the result is used.
func Normalize(doc map[string]json.RawMessage) *domain.Store {
	store := domain.DefaultStore()
	if doc == nil {
		return store
	}
	for _, m := range migrations {
		m(doc)
	}

	decode := func(key string, v any) {
		raw, ok := doc[key]
		if !ok {
			return
		}
		// Wrong-typed values are treated as absent.
		_ = json.Unmarshal(raw, v)
	}

	decode("cards", &store.Cards)
	decode("goals", &store.Goals)
	decode("events", &store.Events)
	decode("notes", &store.Notes)
	decode("colorPalettes", &store.ColorPalettes)
	decode("habits", &store.Habits)
	decode("bills", &store.Bills)
	decode("budgetCategories", &store.BudgetCategories)
	decode("contacts", &store.Contacts)
	decode("settings", &store.Settings)
	decode("finance", &store.Finance)
	decode("study", &store.Study)

	return NormalizeStore(store)
}

// NormalizeStore enforces the Store invariants on an already-typed store:
// non-nil collections, clamped settings, and minimally valid records.
// Idempotent; never returns nil.
func NormalizeStore(s *domain.Store) *domain.Store {
	if s == nil {
		return domain.DefaultStore()
	}
	out := *s

	out.Cards = filterSlice(out.Cards, func(c domain.Card) bool { return c.ID != "" })
	out.Goals = filterSlice(out.Goals, func(g domain.Goal) bool { return g.ID != "" && g.Title != "" })
	out.Events = filterSlice(out.Events, func(e domain.Event) bool { return e.ID != "" })
	out.Notes = filterSlice(out.Notes, func(n domain.Note) bool { return n.ID != "" })
	out.ColorPalettes = filterSlice(out.ColorPalettes, func(p domain.ColorPalette) bool { return p.Name != "" })
	out.Habits = filterSlice(out.Habits, func(h domain.Habit) bool { return h.ID != "" })
	out.Bills = filterSlice(out.Bills, func(b domain.Bill) bool { return b.ID != "" })
	out.BudgetCategories = filterSlice(out.BudgetCategories, func(b domain.BudgetCategory) bool { return b.Category != "" })
	out.Contacts = filterSlice(out.Contacts, func(c domain.Contact) bool { return c.ID != "" })

	for i := range out.Goals {
		if out.Goals[i].Progress < 0 {
			out.Goals[i].Progress = 0
		}
		if out.Goals[i].Progress > 100 {
			out.Goals[i].Progress = 100
		}
	}

	out.Settings = normalizeSettings(out.Settings)
	return &out
}

func normalizeSettings(s domain.Settings) domain.Settings {
	def := domain.DefaultSettings()
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	// 0 means unset (older files had no focusMinutes), not "one minute".
	if s.FocusMinutes == 0 {
		s.FocusMinutes = def.FocusMinutes
	}
	if s.FocusMinutes < 1 {
		s.FocusMinutes = 1
	}
	if s.FocusMinutes > 180 {
		s.FocusMinutes = 180
	}
	if s.Volume < 0 {
		s.Volume = 0
	}
	if s.Volume > 1 {
		s.Volume = 1
	}
	return s
}

func filterSlice[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
