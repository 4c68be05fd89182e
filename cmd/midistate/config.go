package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JeanRibes/midistate/machine"
	. "github.com/JeanRibes/midistate/shared"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel    string `yaml:"log_level"`
	Diagnostics string `yaml:"diagnostics"`
	Group       uint8  `yaml:"group"`
	Nrpn        struct {
		AllMsbs bool     `yaml:"all_msbs"`
		Enable  []string `yaml:"enable"`
	} `yaml:"nrpn"`
}

func DefaultConfig() Config {
	return Config{LogLevel: "info", Diagnostics: "fatal"}
}

// LoadConfig reads a yaml config file over the defaults. An empty filename
// gives the defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()
	if filename == "" {
		return config, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return config, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if config.Group >= NUM_GROUPS {
		return config, fmt.Errorf("group %d is out of range", config.Group)
	}
	return config, nil
}

func (c Config) Level() (charmlog.Level, error) {
	return charmlog.ParseLevel(c.LogLevel)
}

// Handler maps the diagnostics key to a violation policy.
func (c Config) Handler(logger *charmlog.Logger) (machine.DiagnosticsHandler, error) {
	switch c.Diagnostics {
	case "", "fatal":
		return machine.PanicOnViolation, nil
	case "log":
		return machine.LogAndSkip(logger), nil
	}
	return nil, fmt.Errorf("unknown diagnostics policy %q", c.Diagnostics)
}

// ApplyCatalog enables the configured NRPNs. Every malformed entry is
// reported, the valid ones are still enabled.
func (c Config) ApplyCatalog(catalog *machine.ControllerCatalog) error {
	if c.Nrpn.AllMsbs {
		catalog.EnableAllNrpnMsbs()
	}
	var errs []error
	for _, entry := range c.Nrpn.Enable {
		msb, lsb, err := parseParameter(entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		catalog.EnableNrpn(msb, lsb)
	}
	return errors.Join(errs...)
}

func parseParameter(entry string) (uint8, uint8, error) {
	msbText, lsbText, found := strings.Cut(entry, ":")
	if !found {
		return 0, 0, fmt.Errorf("nrpn %q: expected msb:lsb", entry)
	}
	msb, err := strconv.ParseUint(strings.TrimSpace(msbText), 0, 7)
	if err != nil {
		return 0, 0, fmt.Errorf("nrpn %q: msb: %w", entry, err)
	}
	lsb, err := strconv.ParseUint(strings.TrimSpace(lsbText), 0, 7)
	if err != nil {
		return 0, 0, fmt.Errorf("nrpn %q: lsb: %w", entry, err)
	}
	return uint8(msb), uint8(lsb), nil
}
