// Package conf contains the configuration of pngme.
package conf

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/ysh86/pngme/internal/logger"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "pngme.yml"

// Conf is the configuration.
type Conf struct {
	LogLevel        LogLevel        `yaml:"logLevel"`
	LogDestinations LogDestinations `yaml:"logDestinations"`
	LogFile         string          `yaml:"logFile"`
	VerifyChecksums bool            `yaml:"verifyChecksums"`
	MaxFileSize     StringSize      `yaml:"maxFileSize"`
}

func (c *Conf) setDefaults() {
	c.LogLevel = LogLevel(logger.Info)
	c.LogDestinations = LogDestinations{logger.DestinationStderr}
	c.LogFile = "pngme.log"
	c.VerifyChecksums = true
	c.MaxFileSize = 64 * 1024 * 1024
}

// Default returns the configuration used when no file is present.
func Default() *Conf {
	c := &Conf{}
	c.setDefaults()
	return c
}

// Load loads a configuration from a file.
// When fpath is empty, DefaultPath is tried and its absence is not an error.
// The returned bool tells whether a file was read.
func Load(fpath string) (*Conf, bool, error) {
	c := Default()

	explicit := fpath != ""
	if !explicit {
		fpath = DefaultPath
	}

	byts, err := os.ReadFile(fpath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return c, false, nil
		}
		return nil, false, err
	}

	if err := yaml.UnmarshalStrict(byts, c); err != nil {
		return nil, true, fmt.Errorf("%s: %w", fpath, err)
	}

	if err := c.Validate(); err != nil {
		return nil, true, fmt.Errorf("%s: %w", fpath, err)
	}

	return c, true, nil
}

// Validate checks the configuration.
func (c *Conf) Validate() error {
	if len(c.LogDestinations) == 0 {
		return fmt.Errorf("'logDestinations' must contain at least one destination")
	}

	for _, d := range c.LogDestinations {
		if d == logger.DestinationFile && c.LogFile == "" {
			return fmt.Errorf("'logFile' is required when logging to a file")
		}
	}

	if c.MaxFileSize == 0 {
		return fmt.Errorf("'maxFileSize' must be greater than zero")
	}

	return nil
}
