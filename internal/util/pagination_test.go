package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		offset     int
		limit      int
	}{
		{name: "first page", page: 1, size: 10, offset: 0, limit: 10},
		{name: "third page", page: 3, size: 10, offset: 20, limit: 10},
		{name: "zero page clamps to first", page: 0, size: 10, offset: 0, limit: 10},
		{name: "negative page clamps to first", page: -5, size: 10, offset: 0, limit: 10},
		{name: "zero size falls back to default", page: 2, size: 0, offset: 10, limit: DefaultPageSize},
		{name: "oversized limit falls back to default", page: 1, size: 500, offset: 0, limit: DefaultPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			offset, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(3), TotalPages(25, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(0), TotalPages(10, 0))
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, ParseIntDefault("5", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("abc", 1))
}
