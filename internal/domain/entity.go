// Package domain holds the user-data entities and the Store aggregate.
// It has no dependencies on other packages.
//
// JSON keys are camelCase because the on-disk files are shared with the
// desktop UI runtime, which reads and writes the same section files.
package domain

import "time"

// Card is a planning card on a board column.
type Card struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Column      string    `json:"column,omitempty"`
	Order       int       `json:"order"`
	Labels      []string  `json:"labels,omitempty"`
	DueDate     string    `json:"dueDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Goal is a long-horizon objective tracked on the planning screen.
type Goal struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	Progress  int       `json:"progress"` // 0-100
	Archived  bool      `json:"archived,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Event is a calendar event.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     string    `json:"start"`
	End       string    `json:"end,omitempty"`
	AllDay    bool      `json:"allDay,omitempty"`
	Color     string    `json:"color,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Note is a markdown note. The body lives under the notes/ asset folder;
// MdPath is relative to the data directory.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	MdPath    string    `json:"mdPath,omitempty"`
	Folder    string    `json:"folder,omitempty"`
	Pinned    bool      `json:"pinned,omitempty"`
	Palette   string    `json:"palette,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ColorPalette is a named set of note colors.
type ColorPalette struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// Habit is a recurring habit with a completion history.
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Frequency string    `json:"frequency,omitempty"` // daily, weekly
	History   []string  `json:"history,omitempty"`   // ISO dates completed
	Streak    int       `json:"streak,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Bill is a recurring payment obligation.
type Bill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	DueDay    int       `json:"dueDay,omitempty"` // day of month
	Paid      bool      `json:"paid,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BudgetCategory is a monthly spending bucket. It predates stable record
// ids; identity is the category name.
type BudgetCategory struct {
	ID       string  `json:"id,omitempty"`
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Spent    float64 `json:"spent"`
}

// Contact is a CRM contact.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Settings holds UI and focus-timer preferences.
type Settings struct {
	Theme        string  `json:"theme"`
	FocusMinutes int     `json:"focusMinutes"` // clamped to [1,180]
	Volume       float64 `json:"volume"`       // clamped to [0,1]
	WeekStartsOn int     `json:"weekStartsOn,omitempty"`
	ShowArchived bool    `json:"showArchived,omitempty"`
}

// FinanceConfig holds the financial planner configuration.
type FinanceConfig struct {
	Currency       string  `json:"currency,omitempty"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	SavingsTarget  float64 `json:"savingsTarget"`
	BudgetStartDay int     `json:"budgetStartDay,omitempty"`
}

// StudyState holds spaced-repetition study progress.
type StudyState struct {
	DeckID       string         `json:"deckId,omitempty"`
	CardsDue     int            `json:"cardsDue,omitempty"`
	LastReviewed string         `json:"lastReviewed,omitempty"`
	Ratings      map[string]int `json:"ratings,omitempty"`
}

// IsZero reports whether the study state carries no progress worth keeping.
func (s StudyState) IsZero() bool {
	return s.DeckID == "" && s.CardsDue == 0 && s.LastReviewed == "" && len(s.Ratings) == 0
}

// Store is the full aggregate of user data. It is owned by the store
// service and replaced wholesale on every save; collections are always
// non-nil after normalization.
type Store struct {
	Cards            []Card           `json:"cards"`
	Goals            []Goal           `json:"goals"`
	Events           []Event          `json:"events"`
	Notes            []Note           `json:"notes"`
	ColorPalettes    []ColorPalette   `json:"colorPalettes"`
	Habits           []Habit          `json:"habits"`
	Bills            []Bill           `json:"bills"`
	BudgetCategories []BudgetCategory `json:"budgetCategories"`
	Contacts         []Contact        `json:"contacts"`
	Settings         Settings         `json:"settings"`
	Finance          FinanceConfig    `json:"finance"`
	Study            StudyState       `json:"study"`
}

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:        "dawn",
		FocusMinutes: 25,
		Volume:       0.5,
		WeekStartsOn: 1,
	}
}

// DefaultStore returns an empty Store with all collections initialized and
// singletons at their typed defaults.
func DefaultStore() *Store {
	return &Store{
		Cards:            []Card{},
		Goals:            []Goal{},
		Events:           []Event{},
		Notes:            []Note{},
		ColorPalettes:    []ColorPalette{},
		Habits:           []Habit{},
		Bills:            []Bill{},
		BudgetCategories: []BudgetCategory{},
		Contacts:         []Contact{},
		Settings:         DefaultSettings(),
	}
}
