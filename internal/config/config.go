// Package config loads the daemon's YAML configuration file.
//
// The config file is the primary configuration surface; command-line flags
// override individual values for environments where a file is awkward.
// Defaults and validation are centralized here so the rest of the code can
// assume a well-formed config.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/tally-tracker/internal/accel"
	"github.com/sweeney/tally-tracker/internal/buttons"
)

// Config is the top-level YAML configuration for the tally-tracker daemon.
type Config struct {
	// GPIO wiring
	Device DeviceConfig `yaml:"device"`

	// MQTT telemetry
	MQTT MQTTConfig `yaml:"mqtt"`

	// HTTP status server
	HTTP HTTPConfig `yaml:"http"`

	// Persistence paths
	Storage StorageConfig `yaml:"storage"`
}

// DeviceConfig describes the GPIO wiring of buttons and tap interrupt lines.
type DeviceConfig struct {
	Chip         string `yaml:"chip"`
	PinLight     int    `yaml:"pin_light"`
	PinMode      int    `yaml:"pin_mode"`
	PinAlarm     int    `yaml:"pin_alarm"`
	PinTapSingle int    `yaml:"pin_tap_single"`
	PinTapDouble int    `yaml:"pin_tap_double"`
}

// MQTTConfig configures the telemetry broker connection.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	HeartbeatMS int    `yaml:"heartbeat_ms"`
}

// HTTPConfig configures the status server. An empty Addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig configures the backup register file and the event journal.
type StorageConfig struct {
	BackupPath  string `yaml:"backup_path"`
	JournalPath string `yaml:"journal_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Chip:         "gpiochip0",
			PinLight:     buttons.DefaultPinLight,
			PinMode:      buttons.DefaultPinMode,
			PinAlarm:     buttons.DefaultPinAlarm,
			PinTapSingle: accel.DefaultPinSingleTap,
			PinTapDouble: accel.DefaultPinDoubleTap,
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://192.168.1.200:1883",
			HeartbeatMS: 15 * 60 * 1000,
		},
		HTTP: HTTPConfig{
			Addr: ":80",
		},
		Storage: StorageConfig{
			BackupPath:  "/var/lib/tally-tracker/backup.bin",
			JournalPath: "/var/lib/tally-tracker/journal.db",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing path ("")
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Device.Chip == "" {
		return errors.New("device.chip must not be empty")
	}
	pins := map[string]int{
		"device.pin_light":      c.Device.PinLight,
		"device.pin_mode":       c.Device.PinMode,
		"device.pin_alarm":      c.Device.PinAlarm,
		"device.pin_tap_single": c.Device.PinTapSingle,
		"device.pin_tap_double": c.Device.PinTapDouble,
	}
	seen := make(map[int]string, len(pins))
	for name, pin := range pins {
		if pin < 0 {
			return fmt.Errorf("%s: pin %d is negative", name, pin)
		}
		if other, dup := seen[pin]; dup {
			return fmt.Errorf("%s and %s both use pin %d", other, name, pin)
		}
		seen[pin] = name
	}
	if c.MQTT.HeartbeatMS < 0 {
		return fmt.Errorf("mqtt.heartbeat_ms: %d is negative", c.MQTT.HeartbeatMS)
	}
	if c.Storage.BackupPath == "" {
		return errors.New("storage.backup_path must not be empty")
	}
	if c.Storage.JournalPath == "" {
		return errors.New("storage.journal_path must not be empty")
	}
	return nil
}
