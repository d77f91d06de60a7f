package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriceHistory_SameDayUTC(t *testing.T) {
	cairo := time.FixedZone("EET", 2*60*60)
	recorded := PriceHistory{RecordedAt: time.Date(2026, 5, 10, 23, 30, 0, 0, time.UTC)}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"same instant", recorded.RecordedAt, true},
		{"earlier same day", time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), true},
		{"next UTC day", time.Date(2026, 5, 11, 0, 0, 1, 0, time.UTC), false},
		{"local next day still same UTC day", time.Date(2026, 5, 11, 1, 45, 0, 0, cairo), true},
		{"local same day but previous UTC day", time.Date(2026, 5, 10, 1, 0, 0, 0, cairo), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recorded.SameDayUTC(tt.at))
		})
	}
}
