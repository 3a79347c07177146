package config

import (
	"fmt"
	"io/ioutil"

	jsoniter "github.com/json-iterator/go"
	"github.com/mcuadros/go-defaults"
	"github.com/pkg/errors"
	"github.com/rigado/bleiso"
	"github.com/sirupsen/logrus"
)

// Config holds coordinator configuration
type Config struct {
	LogLevel       string `json:"log_level" default:"info"`
	SetupDelayUsec uint32 `json:"setup_delay_usec" default:"200"`
	MaxGroups      int    `json:"max_groups" default:"2"`
	MaxStreams     int    `json:"max_streams" default:"4"`
	HostSupport    bool   `json:"host_support" default:"true"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	c := &Config{}
	defaults.SetDefaults(c)
	return c
}

// Load reads a JSON file over the defaults. Missing keys keep their defaults.
func Load(filename string) (*Config, error) {
	c := Default()

	in, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := jsoniter.Unmarshal(in, c); err != nil {
		return nil, errors.Wrapf(err, "parse %v", filename)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %v", filename)
	}
	return c, nil
}

func (c *Config) Save(filename string) error {
	out, err := jsoniter.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return ioutil.WriteFile(filename, out, 0644)
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch {
	case c.MaxGroups < 1 || c.MaxGroups > 0xFF:
		return fmt.Errorf("invalid max_groups %v", c.MaxGroups)
	case c.MaxStreams < 1:
		return fmt.Errorf("invalid max_streams %v", c.MaxStreams)
	}
	return nil
}

// NewLogger creates a logger at the configured level
func (c *Config) NewLogger() (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l, nil
}

// Options converts the configuration into coordinator options.
func (c *Config) Options() []bleiso.Option {
	return []bleiso.Option{
		bleiso.OptSetupDelay(c.SetupDelayUsec),
		bleiso.OptMaxGroups(c.MaxGroups),
		bleiso.OptMaxStreams(c.MaxStreams),
		bleiso.OptHostSupport(c.HostSupport),
	}
}
