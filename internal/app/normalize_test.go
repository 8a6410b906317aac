package app

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/jaakkos/lifevault/internal/domain"
)

func rawDoc(t *testing.T, src string) map[string]json.RawMessage {
	t.Helper()
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return doc
}

func TestNormalize_nilAndEmpty(t *testing.T) {
	if got := Normalize(nil); !reflect.DeepEqual(got, domain.DefaultStore()) {
		t.Errorf("Normalize(nil) != DefaultStore")
	}
	if got := Normalize(map[string]json.RawMessage{}); !reflect.DeepEqual(got, domain.DefaultStore()) {
		t.Errorf("Normalize(empty) != DefaultStore")
	}
}

func TestNormalize_wrongTypedCollectionBecomesEmpty(t *testing.T) {
	got := Normalize(rawDoc(t, `{"cards": "not-an-array", "bills": 42}`))
	if len(got.Cards) != 0 {
		t.Errorf("Cards = %v, want empty", got.Cards)
	}
	if got.Cards == nil || got.Bills == nil {
		t.Error("collections must be non-nil even when input is garbage")
	}
}

func TestNormalize_dropsInvalidRecords(t *testing.T) {
	got := Normalize(rawDoc(t, `{
		"cards": [{"id":"c1","title":"ok"},{"title":"no id"}],
		"goals": [{"id":"g1","title":""},{"id":"g2","title":"real goal"}],
		"colorPalettes": [{"id":"p1","name":""},{"id":"p2","name":"mint"}],
		"budgetCategories": [{"category":"food","limit":100},{"limit":50}]
	}`))
	if len(got.Cards) != 1 || got.Cards[0].ID != "c1" {
		t.Errorf("Cards = %v, want just c1", got.Cards)
	}
	if len(got.Goals) != 1 || got.Goals[0].ID != "g2" {
		t.Errorf("Goals = %v, want just g2 (blank title dropped)", got.Goals)
	}
	if len(got.ColorPalettes) != 1 || got.ColorPalettes[0].Name != "mint" {
		t.Errorf("ColorPalettes = %v, want just mint", got.ColorPalettes)
	}
	if len(got.BudgetCategories) != 1 || got.BudgetCategories[0].Category != "food" {
		t.Errorf("BudgetCategories = %v, want just food", got.BudgetCategories)
	}
}

func TestNormalize_clampsSettings(t *testing.T) {
	got := Normalize(rawDoc(t, `{"settings": {"theme":"dusk","focusMinutes":999,"volume":1.7}}`))
	if got.Settings.FocusMinutes != 180 {
		t.Errorf("FocusMinutes = %d, want 180", got.Settings.FocusMinutes)
	}
	if got.Settings.Volume != 1 {
		t.Errorf("Volume = %v, want 1", got.Settings.Volume)
	}

	got = Normalize(rawDoc(t, `{"settings": {"theme":"dusk","focusMinutes":-5,"volume":-0.2}}`))
	if got.Settings.FocusMinutes != 1 {
		t.Errorf("FocusMinutes = %d, want 1", got.Settings.FocusMinutes)
	}
	if got.Settings.Volume != 0 {
		t.Errorf("Volume = %v, want 0", got.Settings.Volume)
	}
}

func TestNormalize_missingSettingsGetDefaults(t *testing.T) {
	got := Normalize(rawDoc(t, `{"cards": []}`))
	def := domain.DefaultSettings()
	if got.Settings != def {
		t.Errorf("Settings = %+v, want defaults %+v", got.Settings, def)
	}
}

func TestMigrateThemeObject(t *testing.T) {
	got := Normalize(rawDoc(t, `{"settings": {"theme": {"name":"ember","accent":"#f80"}, "focusMinutes": 30}}`))
	if got.Settings.Theme != "ember" {
		t.Errorf("Theme = %q, want ember (flattened from legacy object)", got.Settings.Theme)
	}
	if got.Settings.FocusMinutes != 30 {
		t.Errorf("FocusMinutes = %d, want 30", got.Settings.FocusMinutes)
	}
}

func TestMigrateFocusSeconds(t *testing.T) {
	got := Normalize(rawDoc(t, `{"settings": {"theme":"dawn","focusDuration": 1500}}`))
	if got.Settings.FocusMinutes != 25 {
		t.Errorf("FocusMinutes = %d, want 25 (from 1500s)", got.Settings.FocusMinutes)
	}

	// An explicit focusMinutes wins over the legacy field.
	got = Normalize(rawDoc(t, `{"settings": {"theme":"dawn","focusDuration": 1500, "focusMinutes": 40}}`))
	if got.Settings.FocusMinutes != 40 {
		t.Errorf("FocusMinutes = %d, want explicit 40", got.Settings.FocusMinutes)
	}
}

func TestNormalize_idempotent(t *testing.T) {
	doc := rawDoc(t, `{
		"cards": [{"id":"c1","title":"Buy milk","order":0}],
		"goals": [{"id":"g1","title":"ship it","progress":250}],
		"settings": {"theme": {"name":"ember"}, "volume": 3},
		"study": {"deckId":"d1","cardsDue":4}
	}`)
	once := Normalize(doc)
	twice := NormalizeStore(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("NormalizeStore(Normalize(x)) != Normalize(x)\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if once.Goals[0].Progress != 100 {
		t.Errorf("Progress = %d, want clamped 100", once.Goals[0].Progress)
	}
}

func TestNormalizeStore_nil(t *testing.T) {
	if got := NormalizeStore(nil); !reflect.DeepEqual(got, domain.DefaultStore()) {
		t.Error("NormalizeStore(nil) should be the default store")
	}
}
