package render

import (
	"fmt"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// categoryLabels переводит код категории проекта в подпись для страницы.
var categoryLabels = map[string]string{
	models.CategoryWeb2:     "Web2",
	models.CategoryWeb3:     "Web3",
	models.CategoryIoT:      "IoT & Embedded System",
	models.CategoryGraphics: "Graphics Design",
}

// CategoryLabel возвращает подпись категории; незнакомый код отдаётся как есть.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

// DateRange форматирует пару ISO-дат как "Jan 2024 — Jun 2025".
// Литерал "present" в конце периода превращается в "Present".
func DateRange(startDate, endDate string) string {
	start := formatMonthYear(startDate)
	if endDate == "present" {
		return fmt.Sprintf("%s — Present", start)
	}
	return fmt.Sprintf("%s — %s", start, formatMonthYear(endDate))
}

// formatMonthYear превращает ISO-дату в "Jan 2006".
// Неразборчивая дата отдаётся как есть, чтобы не терять данные на странице.
func formatMonthYear(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		if t, err = time.Parse("2006-01", isoDate); err != nil {
			return isoDate
		}
	}
	return t.Format("Jan 2006")
}
