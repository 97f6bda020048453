package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordServiceHashAndCompare(t *testing.T) {
	service := NewPasswordService(10)

	hash, err := service.Hash("CorrectHorse9")
	require.NoError(t, err)
	assert.NotEqual(t, "CorrectHorse9", hash)

	assert.NoError(t, service.Compare(hash, "CorrectHorse9"))
	assert.Error(t, service.Compare(hash, "WrongHorse99"))
}

func TestPasswordServiceHashesAreSalted(t *testing.T) {
	service := NewPasswordService(10)

	first, err := service.Hash("CorrectHorse9")
	require.NoError(t, err)
	second, err := service.Hash("CorrectHorse9")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, service.Compare(first, "CorrectHorse9"))
	assert.NoError(t, service.Compare(second, "CorrectHorse9"))
}

func TestPasswordServiceCostFallback(t *testing.T) {
	// An out-of-range cost must still produce a usable service.
	service := NewPasswordService(99)

	hash, err := service.Hash("CorrectHorse9")
	require.NoError(t, err)
	assert.NoError(t, service.Compare(hash, "CorrectHorse9"))
}
