package storage_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gt7setup/tuner/internal/storage"
)

func TestErrNotFoundWraps(t *testing.T) {
	err := fmt.Errorf("vehicle %q: %w", "GT-R", storage.ErrNotFound)

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, `vehicle "GT-R": not found`, err.Error())
}
