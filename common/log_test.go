package common

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogHandler(t *testing.T) {
	dir := t.TempDir()
	logger := log.New("module", "test")
	logger.SetHandler(LogHandler(dir, "log", "walletd.log", "warn"))

	logger.Info("hidden", "k", 1)
	logger.Warn("shown", "k", 2)

	data, err := ioutil.ReadFile(filepath.Join(dir, "log", "walletd.log"))
	require.NoError(t, err)
	text := string(data)
	assert.False(t, strings.Contains(text, "hidden"))
	assert.True(t, strings.Contains(text, "msg=shown"))
	assert.True(t, strings.Contains(text, "module=test"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LvlDebug, parseLevel("debug"))
	assert.Equal(t, log.LvlInfo, parseLevel("nonsense"))
}
