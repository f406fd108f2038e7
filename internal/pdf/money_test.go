package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyLabel(t *testing.T) {
	r := NewRenderer("Scrap Trading Co.", "", "USD")

	assert.Equal(t, "1,150 USD", r.money(1150))
	assert.Equal(t, "0 USD", r.money(0))
}

func TestNewRenderer_DefaultCurrency(t *testing.T) {
	r := NewRenderer("Scrap Trading Co.", "", "")

	assert.Equal(t, DefaultCurrency, r.currency)
}
