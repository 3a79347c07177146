package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/rigado/bleiso/lctr"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, uint32(lctr.DefaultSetupDelayUsec), c.SetupDelayUsec)
	assert.Equal(t, lctr.DefaultMaxGroups, c.MaxGroups)
	assert.Equal(t, lctr.DefaultMaxStreams, c.MaxStreams)
	assert.True(t, c.HostSupport)
	assert.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "bleiso-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "config.json")
	require.NoError(t, ioutil.WriteFile(fn, []byte(`{"log_level":"debug","max_streams":8}`), 0644))

	c, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 8, c.MaxStreams)
	// untouched keys keep their defaults
	assert.Equal(t, 2, c.MaxGroups)
	assert.True(t, c.HostSupport)
}

func TestLoadErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "bleiso-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"bad level", `{"log_level":"loud"}`},
		{"no groups", `{"max_groups":0}`},
		{"no streams", `{"max_streams":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := filepath.Join(dir, "c.json")
			require.NoError(t, ioutil.WriteFile(fn, []byte(tt.body), 0644))
			_, err := Load(fn)
			assert.Error(t, err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "bleiso-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	c := Default()
	c.SetupDelayUsec = 350
	c.HostSupport = false

	fn := filepath.Join(dir, "config.json")
	require.NoError(t, c.Save(fn))

	got, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestNewLogger(t *testing.T) {
	c := Default()
	c.LogLevel = "warn"

	l, err := c.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	c.LogLevel = "nope"
	_, err = c.NewLogger()
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	c := Default()
	c.MaxGroups = 1

	co, err := lctr.NewCoordinator(lctr.ConnParams{Handle: 1, IntervalUsec: 7500}, c.Options()...)
	require.NoError(t, err)
	assert.NotNil(t, co)

	c.MaxStreams = 0x10000
	_, err = lctr.NewCoordinator(lctr.ConnParams{Handle: 1, IntervalUsec: 7500}, c.Options()...)
	assert.Error(t, err)
}
