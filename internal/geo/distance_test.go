package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePoint(t *testing.T) {
	assert.Zero(t, Distance(0, 0, 0, 0))
	assert.Zero(t, Distance(-1.0333, 37.0693, -1.0333, 37.0693))
}

func TestDistance_Symmetric(t *testing.T) {
	// Тика и Найроби
	d1 := Distance(-1.0333, 37.0693, -1.2921, 36.8219)
	d2 := Distance(-1.2921, 36.8219, -1.0333, 37.0693)

	assert.InDelta(t, d1, d2, 1e-6)
}

func TestDistance_KnownValues(t *testing.T) {
	// Один градус широты на экваторе - примерно 111.2 км
	d := Distance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 100)

	// Тика - Найроби, около 40 км по прямой
	d = Distance(-1.0333, 37.0693, -1.2921, 36.8219)
	assert.InDelta(t, 40000, d, 2000)
}

func TestDistance_ShortRange(t *testing.T) {
	// Сдвиг примерно на 100 метров к северу
	d := Distance(-1.0333, 37.0693, -1.0324, 37.0693)
	assert.InDelta(t, 100, d, 5)
}

func TestDistance_Antipodes(t *testing.T) {
	// Противоположные точки: половина длины большого круга
	d := Distance(0, 0, 0, 180)
	assert.InDelta(t, 20015086, d, 1000)
}
