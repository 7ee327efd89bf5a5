package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of one node.
type Config struct {
	// Link describes the Command Channel to the peer node.
	Link LinkConfig `yaml:"link"`
	// Storage describes where the control node keeps its credential.
	Storage StorageConfig `yaml:"storage"`
	// GPIO names the actuator pins. Empty pins select console actuators.
	GPIO GPIOConfig `yaml:"gpio"`
	// Timer tunes the spin-wait used by timed sequences.
	Timer TimerConfig `yaml:"timer"`
	// StatusAddress is the optional gRPC listen address of the control node status API.
	StatusAddress string `yaml:"status_addr"`
	// Timeout bounds each status API call made by lock-status.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of emitted log entries.
	LogLevel string `yaml:"log_level"`
}

// LinkConfig describes the Command Channel transport.
type LinkConfig struct {
	// Kind is one of LinkSerial, LinkTCPListen, LinkTCPDial.
	Kind string `yaml:"kind"`
	// Device is the serial port path, e.g. /dev/ttyUSB0.
	Device string `yaml:"device"`
	// BaudRate of the serial port. The frame is always 8N1.
	BaudRate int `yaml:"baud_rate"`
	// Address is the TCP address to listen on or dial.
	Address string `yaml:"address"`
	// Debug dumps every transferred byte to the log.
	Debug bool `yaml:"debug"`
}

// StorageConfig describes the credential storage device.
type StorageConfig struct {
	// Kind is one of StorageFile, StorageI2C, StorageMemory.
	Kind string `yaml:"kind"`
	// Path is the EEPROM image file for StorageFile.
	Path string `yaml:"path"`
	// I2CBus is the bus name for StorageI2C; empty selects the first bus.
	I2CBus string `yaml:"i2c_bus"`
	// I2CAddress is the 7-bit EEPROM device address.
	I2CAddress uint16 `yaml:"i2c_address"`
	// SettleDelay is the wait after each storage access.
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// GPIOConfig names the actuator pins in the periph.io registry.
type GPIOConfig struct {
	// Buzzer drives the alarm buzzer.
	Buzzer string `yaml:"buzzer"`
	// MotorForward is the H-bridge input for forward rotation.
	MotorForward string `yaml:"motor_forward"`
	// MotorReverse is the H-bridge input for reverse rotation.
	MotorReverse string `yaml:"motor_reverse"`
	// MotorEnable is the H-bridge enable input.
	MotorEnable string `yaml:"motor_enable"`
}

// TimerConfig tunes sequence spin-waits.
type TimerConfig struct {
	// PollInterval is how often a spin-wait checks the elapsed-interval count.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Link kinds.
const (
	LinkSerial    = "serial"
	LinkTCPListen = "tcp-listen"
	LinkTCPDial   = "tcp-dial"
)

// Storage kinds.
const (
	StorageFile   = "file"
	StorageI2C    = "i2c"
	StorageMemory = "memory"
)

const (
	// DefaultControlConfigFilename is the default settings file of the control node.
	DefaultControlConfigFilename = "control-node.yaml"

	// DefaultHMIConfigFilename is the default settings file of the interface node.
	DefaultHMIConfigFilename = "hmi-node.yaml"

	// DefaultEEPROMFilename is the default EEPROM image for StorageFile.
	DefaultEEPROMFilename = "control-eeprom.bin"

	// DefaultBaudRate is the UART speed both nodes are built for.
	DefaultBaudRate = 9600

	// DefaultI2CAddress is a 24C16 with grounded address pins.
	DefaultI2CAddress uint16 = 0x50

	// DefaultSettleDelay is the EEPROM write cycle allowance.
	DefaultSettleDelay = 10 * time.Millisecond

	// DefaultPollInterval is the spin-wait poll period.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultTimeout is the default duration for status API calls.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when none is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for EEPROM image files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLinkKind is returned for an unsupported link kind.
	errUnknownLinkKind = errors.New("unknown link kind")
	// errSerialDeviceRequired is returned when a serial link has no device.
	errSerialDeviceRequired = errors.New("serial link needs a device")
	// errLinkAddressRequired is returned when a TCP link has no address.
	errLinkAddressRequired = errors.New("tcp link needs an address")
	// errUnknownStorageKind is returned for an unsupported storage kind.
	errUnknownStorageKind = errors.New("unknown storage kind")
	// errIncompleteMotorPins is returned when only some motor pins are named.
	errIncompleteMotorPins = errors.New("motor needs forward, reverse and enable pins")
)

// Load reads configuration from path and validates it.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := validateLink(&cfg.Link); err != nil {
		return err
	}

	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}

	if err := validateGPIO(&cfg.GPIO); err != nil {
		return err
	}

	if cfg.StatusAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.StatusAddress); err != nil {
			return fmt.Errorf("invalid status address: %w", err)
		}
	}

	if cfg.Timer.PollInterval <= 0 {
		cfg.Timer.PollInterval = DefaultPollInterval
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}

func validateLink(link *LinkConfig) error {
	switch link.Kind {
	case LinkSerial:
		if link.Device == "" {
			return errSerialDeviceRequired
		}

		if link.BaudRate <= 0 {
			link.BaudRate = DefaultBaudRate
		}
	case LinkTCPListen, LinkTCPDial:
		if link.Address == "" {
			return errLinkAddressRequired
		}

		if _, err := net.ResolveTCPAddr("tcp", link.Address); err != nil {
			return fmt.Errorf("invalid link address: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownLinkKind, link.Kind)
	}

	return nil
}

func validateStorage(storage *StorageConfig) error {
	switch storage.Kind {
	case "", StorageFile:
		storage.Kind = StorageFile

		if storage.Path == "" {
			storage.Path = DefaultEEPROMFilename
		}
	case StorageI2C:
		if storage.I2CAddress == 0 {
			storage.I2CAddress = DefaultI2CAddress
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: %q", errUnknownStorageKind, storage.Kind)
	}

	if storage.SettleDelay <= 0 {
		storage.SettleDelay = DefaultSettleDelay
	}

	return nil
}

func validateGPIO(pins *GPIOConfig) error {
	named := 0

	for _, p := range []string{pins.MotorForward, pins.MotorReverse, pins.MotorEnable} {
		if p != "" {
			named++
		}
	}

	if named != 0 && named != 3 {
		return errIncompleteMotorPins
	}

	return nil
}

// HasMotorPins reports whether the motor is wired to GPIO.
func (g GPIOConfig) HasMotorPins() bool {
	return g.MotorForward != ""
}
