package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name   string `json:"name" validate:"required,notblank"`
	Email  string `json:"email" validate:"required,email"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      sample
		wantFields []string
	}{
		{"valid", sample{Name: "Asha", Email: "asha@example.com", Rating: 5}, nil},
		{"blank name", sample{Name: "   ", Email: "asha@example.com", Rating: 3}, []string{"name"}},
		{"bad email and rating", sample{Name: "Asha", Email: "nope", Rating: 6}, []string{"email", "rating"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(tt.input)
			if tt.wantFields == nil {
				assert.Nil(t, errs)
				return
			}
			assert.Len(t, errs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, errs, field)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw    string
		want   uint
		wantOK bool
	}{
		{"12", 12, true},
		{" 7 ", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseID(tt.raw)
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
