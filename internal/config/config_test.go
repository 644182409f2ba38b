package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRadiusTiers_Default(t *testing.T) {
	assert.Equal(t, []int{25, 50, 100}, radiusTiers(""))
	assert.Equal(t, []int{25, 50, 100}, radiusTiers("garbage"))
}

func TestRadiusTiers_Custom(t *testing.T) {
	assert.Equal(t, []int{10, 30}, radiusTiers("10, 30"))
}

func TestRadiusFor(t *testing.T) {
	cfg := &Config{SubscriberRadiusTiers: []int{25, 50, 100}, DefaultSearchRadiusMiles: 50}
	assert.Equal(t, 25, cfg.RadiusFor(25))
	assert.Equal(t, 100, cfg.RadiusFor(100))
	assert.Equal(t, 50, cfg.RadiusFor(0), "unknown preference falls back to default")
	assert.Equal(t, 50, cfg.RadiusFor(75))
}
