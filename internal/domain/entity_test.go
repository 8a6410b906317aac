package domain

import (
	"testing"
)

func TestDefaultStore(t *testing.T) {
	s := DefaultStore()
	if s == nil {
		t.Fatal("DefaultStore() returned nil")
	}
	if s.Cards == nil {
		t.Error("Cards should not be nil")
	}
	if s.Goals == nil {
		t.Error("Goals should not be nil")
	}
	if s.Events == nil {
		t.Error("Events should not be nil")
	}
	if s.Notes == nil {
		t.Error("Notes should not be nil")
	}
	if s.ColorPalettes == nil {
		t.Error("ColorPalettes should not be nil")
	}
	if s.Habits == nil {
		t.Error("Habits should not be nil")
	}
	if s.Bills == nil {
		t.Error("Bills should not be nil")
	}
	if s.BudgetCategories == nil {
		t.Error("BudgetCategories should not be nil")
	}
	if s.Contacts == nil {
		t.Error("Contacts should not be nil")
	}
	if s.Settings.FocusMinutes != 25 {
		t.Errorf("Settings.FocusMinutes = %d, want 25", s.Settings.FocusMinutes)
	}
	if s.Settings.Theme == "" {
		t.Error("Settings.Theme should have a default")
	}
}

func TestStudyStateIsZero(t *testing.T) {
	var s StudyState
	if !s.IsZero() {
		t.Error("empty StudyState should be zero")
	}
	s.CardsDue = 3
	if s.IsZero() {
		t.Error("StudyState with due cards should not be zero")
	}
	s = StudyState{Ratings: map[string]int{"c1": 4}}
	if s.IsZero() {
		t.Error("StudyState with ratings should not be zero")
	}
}
