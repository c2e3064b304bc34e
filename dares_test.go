/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomDare(t *testing.T) {
	for _, c := range dareCategories {
		require.NotEmpty(t, c.dares, c.ID)

		for range 20 {
			dare, err := RandomDare(c.ID)
			require.NoError(t, err)
			assert.Contains(t, c.dares, dare)
		}
	}
}

func TestRandomDareUnknownCategory(t *testing.T) {
	_, err := RandomDare("Funny")
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = RandomDare("")
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}
