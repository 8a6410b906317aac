package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jaakkos/lifevault/internal/app"
	"github.com/jaakkos/lifevault/internal/domain"
)

func sampleStore() *domain.Store {
	s := domain.DefaultStore()
	s.Cards = []domain.Card{{ID: "c1", Title: "plan the week"}}
	s.Goals = []domain.Goal{{ID: "g1", Title: "run a 10k", Progress: 40}}
	s.Events = []domain.Event{{ID: "e1", Title: "dentist", Start: "2026-09-03T10:00"}}
	s.Notes = []domain.Note{{ID: "n1", Title: "groceries"}}
	s.ColorPalettes = []domain.ColorPalette{{ID: "p1", Name: "forest", Colors: []string{"#0a0"}}}
	s.Bills = []domain.Bill{{ID: "b1", Name: "rent", Amount: 900}}
	s.Contacts = []domain.Contact{{ID: "k1", Name: "Sam"}}
	s.Study = domain.StudyState{DeckID: "spanish", CardsDue: 3}
	return s
}

func TestSectionsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := sampleStore()

	require.NoError(t, writeSections(dir, want))

	for _, name := range SectionFiles() {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "section %s not written", name)
	}

	raw := readSections(dir, true)
	require.NotNil(t, raw)
	got := app.Normalize(raw)

	require.Equal(t, want.Cards, got.Cards)
	require.Equal(t, want.Goals, got.Goals)
	require.Equal(t, want.Events, got.Events)
	require.Equal(t, want.ColorPalettes, got.ColorPalettes)
	require.Equal(t, want.Bills, got.Bills)
	require.Equal(t, want.Contacts, got.Contacts)
	require.Equal(t, want.Study, got.Study)
}

func TestReadSections_palettesLegacyLocation(t *testing.T) {
	dir := t.TempDir()

	// Older installs carried colorPalettes inside notes.json and had no
	// palettes.json at all.
	notes := map[string]any{
		"notes":         []map[string]any{{"id": "n1", "title": "x"}},
		"colorPalettes": []map[string]any{{"id": "p1", "name": "legacy", "colors": []string{"#fff"}}},
	}
	data, err := json.Marshal(notes)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), data, 0o644))

	raw := readSections(dir, true)
	require.NotNil(t, raw)
	store := app.Normalize(raw)
	require.Len(t, store.ColorPalettes, 1)
	require.Equal(t, "legacy", store.ColorPalettes[0].Name)
}

func TestReadSections_palettesOwnFileWins(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"),
		[]byte(`{"notes":[],"colorPalettes":[{"id":"p1","name":"old"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "palettes.json"),
		[]byte(`{"colorPalettes":[{"id":"p2","name":"new"}]}`), 0o644))

	store := app.Normalize(readSections(dir, true))
	require.Len(t, store.ColorPalettes, 1)
	require.Equal(t, "new", store.ColorPalettes[0].Name)
}

func TestReadSections_strictRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeSections(dir, sampleStore()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "planning.json"), []byte("{garbage"), 0o644))

	require.Nil(t, readSections(dir, true), "strict read must reject a corrupted section")

	raw := readSections(dir, false)
	require.NotNil(t, raw, "lenient read must salvage the intact sections")
	store := app.Normalize(raw)
	require.Empty(t, store.Cards)
	require.Len(t, store.Events, 1)
}

func TestReadSections_emptyDir(t *testing.T) {
	require.Nil(t, readSections(t.TempDir(), true))
	require.Nil(t, readSections(t.TempDir(), false))
}

func TestMonolithRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, monolithFile)
	want := sampleStore()

	require.NoError(t, writeMonolith(path, want))
	raw := readMonolith(path)
	require.NotNil(t, raw)

	got := app.Normalize(raw)
	require.Equal(t, want.Cards, got.Cards)
	require.Equal(t, want.Bills, got.Bills)

	require.Nil(t, readMonolith(filepath.Join(dir, "missing.json")))
}

func TestIsStoreFile(t *testing.T) {
	require.True(t, IsStoreFile("planning.json"))
	require.True(t, IsStoreFile("store.json"))
	require.False(t, IsStoreFile("backup.json"))
	require.False(t, IsStoreFile("journal.sqlite"))
}
