package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel/internal/domains/settings/model"
)

func TestSettings_AddOnPrice(t *testing.T) {
	settings := model.Default()

	tests := []struct {
		name      string
		addOn     string
		wantPrice float64
		wantOK    bool
	}{
		{name: "exact name", addOn: "Spa Package", wantPrice: 75, wantOK: true},
		{name: "case and spaces ignored", addOn: "  late checkout ", wantPrice: 30, wantOK: true},
		{name: "unknown add-on", addOn: "Helicopter Tour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := settings.AddOnPrice(tt.addOn)

			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.wantPrice, price, 0.0001)
		})
	}
}
