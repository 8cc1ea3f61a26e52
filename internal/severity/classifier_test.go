package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultKeywords())
}

func TestClassify_EmptyDescription(t *testing.T) {
	c := newTestClassifier()

	assert.Equal(t, LevelLow, c.Classify(""))
	assert.Equal(t, LevelLow, c.Classify("   "))
	assert.Equal(t, LevelLow, c.Classify("\t\n"))
}

func TestClassify_HighKeywords(t *testing.T) {
	c := newTestClassifier()

	// Ключевые слова высокой срочности срабатывают независимо от регистра и пунктуации
	cases := []string{
		"patient is UNCONSCIOUS on the floor",
		"He is not breathing.",
		"No pulse, started CPR",
		"possible Heart Attack",
		"suspected stroke, face drooping",
		"cardiac arrest at the market",
		"finger amputation at the sawmill",
		"major trauma after fall",
		"Severe chest pain!!!",
	}
	for _, desc := range cases {
		assert.Equal(t, LevelHigh, c.Classify(desc), "description: %q", desc)
	}
}

func TestClassify_BloodVolumeHeuristic(t *testing.T) {
	c := newTestClassifier()

	cases := []string{
		"lost about 500 ml of blood",
		"maybe 2 litres lost already",
		"heavy bleeding from the leg",
		"heavily bleeding after crash",
		"profuse bleeding from head wound",
		"there is blood everywhere",
	}
	for _, desc := range cases {
		assert.Equal(t, LevelHigh, c.Classify(desc), "description: %q", desc)
	}
}

func TestClassify_MediumKeywords(t *testing.T) {
	c := newTestClassifier()

	cases := []string{
		"leg injury after football",
		"suspected Fracture of the arm",
		"burn from hot water",
		"broken bone visible",
		"complains of dizziness",
		"concussion after fall from bike",
		"breathing difficulty but conscious",
	}
	for _, desc := range cases {
		assert.Equal(t, LevelMedium, c.Classify(desc), "description: %q", desc)
	}
}

func TestClassify_LowKeywords(t *testing.T) {
	c := newTestClassifier()

	cases := []string{
		"minor incident at school",
		"ankle sprain while jogging",
		"a scratch on the arm",
		"small cut from kitchen knife",
		"feeling nausea since morning",
		"mild headache",
	}
	for _, desc := range cases {
		assert.Equal(t, LevelLow, c.Classify(desc), "description: %q", desc)
	}
}

func TestClassify_UrgencyFallback(t *testing.T) {
	c := newTestClassifier()

	// Описания без ключевых слов, но с маркерами срочности
	assert.Equal(t, LevelHigh, c.Classify("please help us"))
	assert.Equal(t, LevelHigh, c.Classify("urgent situation at the bridge"))
	assert.Equal(t, LevelHigh, c.Classify("come quickly!"))

	// И вовсе без маркеров
	assert.Equal(t, LevelLow, c.Classify("a dog is stuck in the fence"))
}

func TestClassify_OrderedRules(t *testing.T) {
	c := newTestClassifier()

	// High-слово побеждает Medium-слово в том же тексте
	assert.Equal(t, LevelHigh, c.Classify("unconscious with a leg injury"))
	// Medium побеждает Low
	assert.Equal(t, LevelMedium, c.Classify("fracture with mild headache"))
	// Low-слово побеждает fallback по восклицательному знаку
	assert.Equal(t, LevelLow, c.Classify("just a scratch!"))
}

func TestLevelScore(t *testing.T) {
	assert.Equal(t, 9, LevelHigh.Score())
	assert.Equal(t, 5, LevelMedium.Score())
	assert.Equal(t, 1, LevelLow.Score())
}

func TestLevelForScore(t *testing.T) {
	assert.Equal(t, LevelHigh, LevelForScore(9))
	assert.Equal(t, LevelHigh, LevelForScore(8))
	assert.Equal(t, LevelMedium, LevelForScore(7))
	assert.Equal(t, LevelMedium, LevelForScore(4))
	assert.Equal(t, LevelLow, LevelForScore(3))
	assert.Equal(t, LevelLow, LevelForScore(1))
}
