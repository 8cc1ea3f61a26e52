package severity

import (
	"regexp"
	"strings"
)

// Level - уровень срочности, вычисленный по тексту обращения
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Score преобразует уровень в числовую оценку срочности (1-10)
func (l Level) Score() int {
	switch l {
	case LevelHigh:
		return 9
	case LevelMedium:
		return 5
	default:
		return 1
	}
}

// LevelForScore возвращает уровень для числовой оценки: High >= 8, Medium 4-7, Low < 4
func LevelForScore(score int) Level {
	switch {
	case score >= 8:
		return LevelHigh
	case score >= 4:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Keywords - таблицы ключевых слов классификатора. Загружаются один раз
// при старте и передаются в конструктор, классификатор их не изменяет.
type Keywords struct {
	High   []string
	Medium []string
	Low    []string
}

// DefaultKeywords возвращает таблицы по умолчанию
func DefaultKeywords() Keywords {
	return Keywords{
		High: []string{
			"bleeding", "unconscious", "not breathing", "no pulse", "severe",
			"heart attack", "stroke", "cardiac arrest", "amputation", "major trauma",
		},
		Medium: []string{
			"injury", "fracture", "burn", "broken bone", "dizziness",
			"concussion", "moderate", "breathing difficulty",
		},
		Low: []string{
			"minor", "sprain", "scratch", "small cut", "nausea", "headache", "pain",
		},
	}
}

// bloodVolumeRe ловит указания на сильное кровотечение: объем крови в единицах
// измерения либо устойчивые фразы
var bloodVolumeRe = regexp.MustCompile(`\b(\d+\s?(ml|l|litres?|liters?)|heavy(ly)? bleeding|profuse bleeding|blood everywhere)\b`)

// Classifier - эвристический классификатор срочности по свободному тексту.
// Детерминированный и регистронезависимый, без побочных эффектов.
type Classifier struct {
	keywords Keywords
}

// NewClassifier создает классификатор с заданными таблицами ключевых слов
func NewClassifier(keywords Keywords) *Classifier {
	return &Classifier{keywords: keywords}
}

// Classify вычисляет уровень срочности. Правила применяются по порядку,
// срабатывает первое совпадение.
func (c *Classifier) Classify(description string) Level {
	if strings.TrimSpace(description) == "" {
		return LevelLow
	}

	text := strings.ToLower(description)

	for _, phrase := range c.keywords.High {
		if strings.Contains(text, phrase) {
			return LevelHigh
		}
	}

	if bloodVolumeRe.MatchString(text) {
		return LevelHigh
	}

	for _, phrase := range c.keywords.Medium {
		if strings.Contains(text, phrase) {
			return LevelMedium
		}
	}

	for _, phrase := range c.keywords.Low {
		if strings.Contains(text, phrase) {
			return LevelLow
		}
	}

	// Последняя эвристика: маркеры срочности в тексте
	if strings.Contains(text, "help") || strings.Contains(text, "urgent") ||
		strings.Contains(text, "please help") || strings.Contains(text, "!") {
		return LevelHigh
	}

	return LevelLow
}
