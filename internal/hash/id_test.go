package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
		{"long string", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ColumnID(tt.data))
		})
	}
}

func TestColumnIDDistinct(t *testing.T) {
	assert.NotEqual(t, ColumnID("month_sin"), ColumnID("month_cos"))
	assert.Equal(t, ColumnID("month"), ColumnID("month"))
}

func BenchmarkColumnID(b *testing.B) {
	for b.Loop() {
		ColumnID("day_of_week_sin")
	}
}
