package app

import (
	"github.com/jaakkos/lifevault/internal/domain"
)

// MergeStores merges old into current collection-by-collection. The merge is
// additive: a record whose identity already exists in current is never
// touched, records only present in old are appended. Returns the merged
// store and the number of records added from old.
func MergeStores(current, old *domain.Store) (*domain.Store, int) {
	merged := *NormalizeStore(current)
	oldN := NormalizeStore(old)
	added := 0

	merged.Cards, added = mergeByID(merged.Cards, oldN.Cards, func(c domain.Card) string { return c.ID }, added)
	merged.Goals, added = mergeByID(merged.Goals, oldN.Goals, func(g domain.Goal) string { return g.ID }, added)
	merged.Events, added = mergeByID(merged.Events, oldN.Events, func(e domain.Event) string { return e.ID }, added)
	merged.Notes, added = mergeByID(merged.Notes, oldN.Notes, func(n domain.Note) string { return n.ID }, added)
	merged.ColorPalettes, added = mergeByID(merged.ColorPalettes, oldN.ColorPalettes, func(p domain.ColorPalette) string { return p.Name }, added)
	merged.Habits, added = mergeByID(merged.Habits, oldN.Habits, func(h domain.Habit) string { return h.ID }, added)
	merged.Bills, added = mergeByID(merged.Bills, oldN.Bills, func(b domain.Bill) string { return b.ID }, added)
	// Budget categories predate stable ids; identity is the category name.
	merged.BudgetCategories, added = mergeByID(merged.BudgetCategories, oldN.BudgetCategories, func(b domain.BudgetCategory) string { return b.Category }, added)
	merged.Contacts, added = mergeByID(merged.Contacts, oldN.Contacts, func(c domain.Contact) string { return c.ID }, added)

	merged.Finance = mergeFinance(merged.Finance, oldN.Finance)
	if merged.Study.IsZero() && !oldN.Study.IsZero() {
		merged.Study = oldN.Study
	}
	if merged.Settings == domain.DefaultSettings() && oldN.Settings != domain.DefaultSettings() {
		merged.Settings = oldN.Settings
	}

	return &merged, added
}

func mergeByID[T any](current, old []T, key func(T) string, added int) ([]T, int) {
	seen := make(map[string]bool, len(current))
	for _, v := range current {
		seen[key(v)] = true
	}
	for _, v := range old {
		k := key(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		current = append(current, v)
		added++
	}
	return current, added
}

// mergeFinance backfills field-by-field: a zero value on the current side is
// treated as unset, not as a deliberate zero.
func mergeFinance(current, old domain.FinanceConfig) domain.FinanceConfig {
	if current.Currency == "" {
		current.Currency = old.Currency
	}
	if current.MonthlyIncome == 0 {
		current.MonthlyIncome = old.MonthlyIncome
	}
	if current.SavingsTarget == 0 {
		current.SavingsTarget = old.SavingsTarget
	}
	if current.BudgetStartDay == 0 {
		current.BudgetStartDay = old.BudgetStartDay
	}
	return current
}
