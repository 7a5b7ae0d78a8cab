// Package models содержит структуры данных предметной области шлюза:
// университеты, профиль абитуриента и дорожная карта поступления.
// Все структуры являются DTO бэкенда и не содержат бизнес-логики.
package models

// University описывает университет в каталоге для страниц просмотра и сравнения.
type University struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Country        string   `json:"country"`
	City           string   `json:"city"`
	Ranking        int      `json:"ranking"`
	AcceptanceRate float64  `json:"acceptanceRate"`
	TuitionUSD     int      `json:"tuitionUsd"`
	Programs       []string `json:"programs,omitempty"`
}

// CatalogFilter параметры выборки каталога университетов.
type CatalogFilter struct {
	Country string `json:"country,omitempty"`
	Program string `json:"program,omitempty"`
	Limit   int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset  int    `json:"offset,omitempty" validate:"omitempty,min=0"`
}

// StudentProfile описывает профиль абитуриента: оценки, тесты и предпочтения,
// заполняемые на онбординге.
type StudentProfile struct {
	UID              string   `json:"uid"`
	GPA              float64  `json:"gpa"`
	SATScore         int      `json:"satScore,omitempty"`
	TOEFLScore       int      `json:"toeflScore,omitempty"`
	IntendedMajor    string   `json:"intendedMajor,omitempty"`
	TargetCountries  []string `json:"targetCountries,omitempty"`
	BudgetUSD        int      `json:"budgetUsd,omitempty"`
	ProfileCompleted bool     `json:"profileCompleted"`
}

// RoadmapStep один шаг дорожной карты поступления.
type RoadmapStep struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Deadline  string `json:"deadline,omitempty"`
	Completed bool   `json:"completed"`
}

// Roadmap дорожная карта поступления пользователя для страницы дашборда.
type Roadmap struct {
	UID      string        `json:"uid"`
	Progress float64       `json:"progress"`
	Steps    []RoadmapStep `json:"steps"`
}
