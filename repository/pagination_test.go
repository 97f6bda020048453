package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, Size: 10}.Offset())
	assert.Equal(t, 10, PageRequest{Page: 2, Size: 10}.Offset())
	assert.Equal(t, 50, PageRequest{Page: 3, Size: 25}.Offset())
}

func TestTotalPages(t *testing.T) {
	t.Run("EmptyCollection", func(t *testing.T) {
		assert.Equal(t, 0, TotalPages(0, 10))
	})

	t.Run("ExactMultiple", func(t *testing.T) {
		assert.Equal(t, 2, TotalPages(20, 10))
	})

	t.Run("PartialLastPage", func(t *testing.T) {
		assert.Equal(t, 3, TotalPages(21, 10))
		assert.Equal(t, 1, TotalPages(1, 10))
	})

	t.Run("SizeOne", func(t *testing.T) {
		assert.Equal(t, 7, TotalPages(7, 1))
	})
}

func TestClampSlice(t *testing.T) {
	one, two, three := 1, 2, 3
	items := []*int{&one, &two, &three}

	t.Run("NoBounds", func(t *testing.T) {
		assert.Len(t, clampSlice(items, 0, 0), 3)
	})

	t.Run("LimitOnly", func(t *testing.T) {
		out := clampSlice(items, 2, 0)
		assert.Len(t, out, 2)
		assert.Equal(t, 1, *out[0])
	})

	t.Run("OffsetAndLimit", func(t *testing.T) {
		out := clampSlice(items, 2, 1)
		assert.Len(t, out, 2)
		assert.Equal(t, 2, *out[0])
	})

	t.Run("OffsetBeyondEnd", func(t *testing.T) {
		out := clampSlice(items, 10, 5)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}
