// Package config loads the scavenger's ambient `[network]`/`[cpu]`
// settings. It is a deliberately small ini-style scanner, not a
// general parser: the file format is just section headers and
// `key = value` lines, which is all the two recognized sections need.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
)

// DefaultNetSpeed is used when no [network] speed is configured.
const DefaultNetSpeed = models.DefaultNetSpeed

// DefaultCPUStrength is used when no [cpu] strength is configured, a
// stand-in for an out-of-scope one-shot CPU-strength measurement.
const DefaultCPUStrength = 1.0

// Config holds the local host's network and CPU parameters.
type Config struct {
	NetSpeed    int
	CPUStrength float64
	CPUCores    int
}

// Default returns a Config populated entirely from defaults, as if no
// file were present.
func Default() Config {
	return Config{
		NetSpeed:    DefaultNetSpeed,
		CPUStrength: DefaultCPUStrength,
		CPUCores:    1,
	}
}

// Load reads an ini-style config file. A missing file is not an error;
// it returns Default() unchanged, the same "missing means defaults"
// behavior used for StoreCorrupt recovery in the profile store.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	section := ""
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}
		key, value, ok := splitKV(line)
		if !ok {
			return Config{}, fmt.Errorf("config: %s:%d: malformed line %q", path, lineNo, line)
		}
		if err := cfg.apply(section, key, value); err != nil {
			return Config{}, fmt.Errorf("config: %s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func splitKV(line string) (key, value string, ok bool) {
	i := strings.Index(line, "=")
	if i < 0 {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(line[:i])), strings.TrimSpace(line[i+1:]), true
}

func (cfg *Config) apply(section, key, value string) error {
	switch section {
	case "network":
		if key != "speed" {
			return fmt.Errorf("unrecognized [network] option %q", key)
		}
		speed, err := resolveNetSpeed(value)
		if err != nil {
			return err
		}
		cfg.NetSpeed = speed
	case "cpu":
		switch key {
		case "strength":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("cpu strength %q: %w", value, err)
			}
			cfg.CPUStrength = v
		case "cores":
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("cpu cores %q: %w", value, err)
			}
			cfg.CPUCores = v
		default:
			return fmt.Errorf("unrecognized [cpu] option %q", key)
		}
	default:
		return fmt.Errorf("unrecognized section %q", section)
	}
	return nil
}

// resolveNetSpeed accepts either a raw byte/sec integer or one of
// models.MediaClasses' nominal names (BT-1, LAN100, ...), matching the
// discovery payload's netClass encoding.
func resolveNetSpeed(value string) (int, error) {
	if class, ok := models.MediaClasses[value]; ok {
		return int(class), nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("speed %q is neither a known media class nor an integer", value)
	}
	return v, nil
}
