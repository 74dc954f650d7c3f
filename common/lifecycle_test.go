package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleStatus(t *testing.T) {
	var s LifecycleStatus
	assert.False(t, s.PreStart())
	assert.True(t, s.PreInit())
	assert.False(t, s.PreInit())
	assert.True(t, s.PostInit())
	assert.True(t, s.PreStart())
	assert.True(t, s.PostStart())
	assert.Equal(t, StatusStarted, s.GetStatus())
	assert.False(t, s.Stopped())
	assert.True(t, s.PreStop())
	assert.True(t, s.Stopped())
	assert.True(t, s.PostStop())
	assert.False(t, s.PreStop())
	assert.Equal(t, StatusStopped, s.GetStatus())
}
