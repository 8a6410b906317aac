package app

import (
	"testing"

	"github.com/jaakkos/lifevault/internal/domain"
)

func TestMergeStores_additiveAndCurrentWins(t *testing.T) {
	current := domain.DefaultStore()
	current.Cards = []domain.Card{{ID: "A", Title: "current title"}}

	old := domain.DefaultStore()
	old.Cards = []domain.Card{
		{ID: "A", Title: "old title"},
		{ID: "B", Title: "only in old"},
	}

	merged, added := MergeStores(current, old)
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if len(merged.Cards) != 2 {
		t.Fatalf("len(Cards) = %d, want 2", len(merged.Cards))
	}
	if merged.Cards[0].Title != "current title" {
		t.Errorf("conflicting record overwritten: Title = %q", merged.Cards[0].Title)
	}
	if merged.Cards[1].ID != "B" {
		t.Errorf("Cards[1].ID = %q, want B", merged.Cards[1].ID)
	}
}

func TestMergeStores_billsIntoEmpty(t *testing.T) {
	current := domain.DefaultStore()
	old := domain.DefaultStore()
	old.Bills = []domain.Bill{{ID: "b1", Name: "Rent", Amount: 1200}}

	merged, added := MergeStores(current, old)
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if len(merged.Bills) != 1 || merged.Bills[0].ID != "b1" || merged.Bills[0].Amount != 1200 {
		t.Errorf("Bills = %+v, want [{b1 Rent 1200}]", merged.Bills)
	}
}

func TestMergeStores_budgetCategoriesByName(t *testing.T) {
	current := domain.DefaultStore()
	current.BudgetCategories = []domain.BudgetCategory{{ID: "x1", Category: "food", Limit: 300}}

	old := domain.DefaultStore()
	old.BudgetCategories = []domain.BudgetCategory{
		{ID: "y9", Category: "food", Limit: 999}, // same name, different id: duplicate
		{ID: "y2", Category: "travel", Limit: 150},
	}

	merged, added := MergeStores(current, old)
	if added != 1 {
		t.Errorf("added = %d, want 1 (food deduplicated by name)", added)
	}
	if len(merged.BudgetCategories) != 2 {
		t.Fatalf("len(BudgetCategories) = %d, want 2", len(merged.BudgetCategories))
	}
	if merged.BudgetCategories[0].Limit != 300 {
		t.Errorf("food limit = %v, want current 300", merged.BudgetCategories[0].Limit)
	}
}

func TestMergeStores_financeBackfill(t *testing.T) {
	current := domain.DefaultStore()
	current.Finance = domain.FinanceConfig{Currency: "EUR", MonthlyIncome: 0}

	old := domain.DefaultStore()
	old.Finance = domain.FinanceConfig{Currency: "USD", MonthlyIncome: 4200, SavingsTarget: 500}

	merged, _ := MergeStores(current, old)
	if merged.Finance.Currency != "EUR" {
		t.Errorf("Currency = %q, want current EUR", merged.Finance.Currency)
	}
	if merged.Finance.MonthlyIncome != 4200 {
		t.Errorf("MonthlyIncome = %v, want backfilled 4200 (0 is unset)", merged.Finance.MonthlyIncome)
	}
	if merged.Finance.SavingsTarget != 500 {
		t.Errorf("SavingsTarget = %v, want backfilled 500", merged.Finance.SavingsTarget)
	}
}

func TestMergeStores_studyCurrentWinsWholesale(t *testing.T) {
	current := domain.DefaultStore()
	current.Study = domain.StudyState{DeckID: "mine", CardsDue: 2}

	old := domain.DefaultStore()
	old.Study = domain.StudyState{DeckID: "theirs", CardsDue: 50, LastReviewed: "2025-01-01"}

	merged, _ := MergeStores(current, old)
	if merged.Study.DeckID != "mine" || merged.Study.CardsDue != 2 {
		t.Errorf("Study = %+v, want current state untouched", merged.Study)
	}

	// Empty current study is backfilled from old.
	current2 := domain.DefaultStore()
	merged2, _ := MergeStores(current2, old)
	if merged2.Study.DeckID != "theirs" {
		t.Errorf("Study = %+v, want old state adopted", merged2.Study)
	}
}

func TestMergeStores_nilInputs(t *testing.T) {
	merged, added := MergeStores(nil, nil)
	if merged == nil {
		t.Fatal("MergeStores(nil, nil) returned nil")
	}
	if added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
}
