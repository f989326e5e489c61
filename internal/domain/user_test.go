package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Minor(t *testing.T) {
	age17 := 17
	age18 := 18

	minor, known := User{Age: &age17}.Minor()
	assert.True(t, minor)
	assert.True(t, known)

	minor, known = User{Age: &age18}.Minor()
	assert.False(t, minor)
	assert.True(t, known)

	_, known = User{}.Minor()
	assert.False(t, known)
}

func TestUser_MinorFlag(t *testing.T) {
	age17 := 17

	flag := User{Age: &age17}.MinorFlag()
	require.NotNil(t, flag)
	assert.True(t, *flag)

	assert.Nil(t, User{}.MinorFlag())
}
