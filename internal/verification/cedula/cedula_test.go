package cedula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sello/internal/verification/cedula"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid pichincha cedula", "1710034065", true},
		{"valid guayas cedula", "0926687856", true},
		{"wrong check digit", "1710034066", false},
		{"province 00", "0012345678", false},
		{"province 25", "2512345678", false},
		{"third digit 6", "1762345678", false},
		{"too short", "171003406", false},
		{"too long", "17100340655", false},
		{"non-numeric", "17100340a5", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cedula.Valid(tt.id))
		})
	}
}
