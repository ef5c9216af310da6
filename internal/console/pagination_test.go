package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		totalPages int
		want       []int
	}{
		{name: "centered mid-range", page: 7, totalPages: 12, want: []int{5, 6, 7, 8, 9}},
		{name: "clamped at start", page: 1, totalPages: 12, want: []int{1, 2, 3, 4, 5}},
		{name: "second page still full window", page: 2, totalPages: 12, want: []int{1, 2, 3, 4, 5}},
		{name: "clamped at end", page: 12, totalPages: 12, want: []int{8, 9, 10, 11, 12}},
		{name: "near end keeps full window", page: 11, totalPages: 12, want: []int{8, 9, 10, 11, 12}},
		{name: "fewer pages than window", page: 2, totalPages: 3, want: []int{1, 2, 3}},
		{name: "single page", page: 1, totalPages: 1, want: []int{1}},
		{name: "zero total normalizes", page: 1, totalPages: 0, want: []int{1}},
		{name: "page beyond total clamps", page: 40, totalPages: 12, want: []int{8, 9, 10, 11, 12}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, PageWindow(tc.page, tc.totalPages))
		})
	}
}

func TestPageWindowNeverExceedsFive(t *testing.T) {
	t.Parallel()

	for totalPages := 1; totalPages <= 20; totalPages++ {
		for page := 1; page <= totalPages; page++ {
			window := PageWindow(page, totalPages)
			assert.LessOrEqual(t, len(window), 5)
			assert.Contains(t, window, page)
			assert.GreaterOrEqual(t, window[0], 1)
			assert.LessOrEqual(t, window[len(window)-1], totalPages)
		}
	}
}

func TestBuildMeta(t *testing.T) {
	t.Parallel()

	t.Run("rounds total pages up", func(t *testing.T) {
		t.Parallel()
		meta := BuildMeta(1, 20, 41)
		assert.Equal(t, 3, meta.TotalPages)
	})

	t.Run("zero total still one page", func(t *testing.T) {
		t.Parallel()
		meta := BuildMeta(1, 20, 0)
		assert.Equal(t, 1, meta.TotalPages)
		assert.Equal(t, 0, meta.Total)
	})

	t.Run("exact multiple", func(t *testing.T) {
		t.Parallel()
		meta := BuildMeta(2, 20, 40)
		assert.Equal(t, 2, meta.TotalPages)
		assert.Equal(t, 2, meta.Page)
	})
}
