// Package env provides the configuration shared by skylink commands.
package env

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"

	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/transport"
)

// Config provides common options of a ground station.
type Config struct {
	// Port is the serial port or tcp:host:port of the radio.
	Port string
	Baud int
	// Local is the address of this station.
	Local link.Address
	// Peer is the address of the vehicle.
	Peer link.Address
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// WebsocketAddr is the listen address of the live feed and metrics.
	WebsocketAddr string
	// RecordFile records bridged packets when set.
	RecordFile string
	// Joystick is the index of the joystick device, negative disables it.
	Joystick          int
	ControlRate       time.Duration
	HeartbeatInterval time.Duration
	IdleTimeout       time.Duration
	// ConfigFile is a TOML file with the same options.
	ConfigFile string
}

var defaultConfig = Config{
	Baud:              transport.DefaultBaudRate,
	Local:             1,
	Peer:              2,
	MQTTBrokerURL:     "mqtt://localhost:1883/skylink/",
	WebsocketAddr:     ":8060",
	Joystick:          -1,
	ControlRate:       50 * time.Millisecond,
	HeartbeatInterval: time.Second,
	IdleTimeout:       link.DefaultIdleTimeout,
}

func init() {
	if addr, err := MachineAddress(); err == nil {
		defaultConfig.Local = addr
	}
	if err := applyEnv(&defaultConfig, os.LookupEnv); err != nil {
		glog.Warningf("environment ignored: %v", err)
	}
}

func applyEnv(c *Config, lookup func(string) (string, bool)) error {
	if val, ok := lookup("SKYLINK_PORT"); ok {
		c.Port = val
	}
	if val, ok := lookup("SKYLINK_MQTT_URL"); ok {
		c.MQTTBrokerURL = val
	}
	if val, ok := lookup("SKYLINK_WS_ADDR"); ok {
		c.WebsocketAddr = val
	}
	if val, ok := lookup("SKYLINK_BAUD"); ok {
		baud, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("SKYLINK_BAUD: %w", err)
		}
		c.Baud = baud
	}
	if val, ok := lookup("SKYLINK_ADDR"); ok {
		addr, err := ParseAddress(val)
		if err != nil {
			return fmt.Errorf("SKYLINK_ADDR: %w", err)
		}
		c.Local = addr
	}
	if val, ok := lookup("SKYLINK_PEER"); ok {
		addr, err := ParseAddress(val)
		if err != nil {
			return fmt.Errorf("SKYLINK_PEER: %w", err)
		}
		c.Peer = addr
	}
	return nil
}

// ParseAddress parses a decimal or 0x prefixed hex address.
func ParseAddress(s string) (link.Address, error) {
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return link.Address(n), nil
}

type addressValue struct {
	addr *link.Address
}

func (v addressValue) String() string {
	if v.addr == nil {
		return "0"
	}
	return strconv.Itoa(int(*v.addr))
}

func (v addressValue) Set(s string) error {
	addr, err := ParseAddress(s)
	if err == nil {
		*v.addr = addr
	}
	return err
}

// SetupFlags sets command line flags.
func SetupFlags() {
	defaultConfig.SetupFlagSet(flag.CommandLine)
}

// SetupFlagSet binds the options to fs.
func (c *Config) SetupFlagSet(fs *flag.FlagSet) {
	fs.StringVar(&c.Port, "port", c.Port, "Serial port or tcp:host:port of the radio")
	fs.IntVar(&c.Baud, "baud", c.Baud, "Serial baud rate")
	fs.Var(addressValue{&c.Local}, "addr", "Local link address")
	fs.Var(addressValue{&c.Peer}, "peer", "Vehicle link address")
	fs.StringVar(&c.MQTTBrokerURL, "mqtt", c.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	fs.StringVar(&c.WebsocketAddr, "listen", c.WebsocketAddr, "Listen address of websocket feed and metrics, empty to disable")
	fs.StringVar(&c.RecordFile, "record", c.RecordFile, "Record bridged packets to file")
	fs.IntVar(&c.Joystick, "joystick", c.Joystick, "Joystick index for control input, -1 to disable")
	fs.DurationVar(&c.ControlRate, "control-rate", c.ControlRate, "Interval of control input frames")
	fs.DurationVar(&c.HeartbeatInterval, "heartbeat", c.HeartbeatInterval, "Interval of heartbeat frames, 0 to disable")
	fs.DurationVar(&c.IdleTimeout, "idle-timeout", c.IdleTimeout, "Abandon a partial frame after this idle time")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "TOML config file")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
// When a config file is specified, options not explicitly set on the
// command line are loaded from it.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	if conf.ConfigFile == "" {
		return &conf, nil
	}
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if err := conf.LoadFile(conf.ConfigFile, explicit); err != nil {
		return nil, err
	}
	return &conf, nil
}

type fileConfig struct {
	Port        string `toml:"port"`
	Baud        int    `toml:"baud"`
	Addr        string `toml:"addr"`
	Peer        string `toml:"peer"`
	MQTT        string `toml:"mqtt"`
	Listen      string `toml:"listen"`
	Record      string `toml:"record"`
	Joystick    int    `toml:"joystick"`
	ControlRate string `toml:"control_rate"`
	Heartbeat   string `toml:"heartbeat"`
	IdleTimeout string `toml:"idle_timeout"`
}

// LoadFile loads options from a TOML file. Keys are the flag names with
// dashes replaced by underscores. Options named in skip are kept.
func (c *Config) LoadFile(path string, skip map[string]bool) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defined := func(key, flagName string) bool {
		return meta.IsDefined(key) && !skip[flagName]
	}
	if defined("port", "port") {
		c.Port = raw.Port
	}
	if defined("baud", "baud") {
		c.Baud = raw.Baud
	}
	if defined("mqtt", "mqtt") {
		c.MQTTBrokerURL = raw.MQTT
	}
	if defined("listen", "listen") {
		c.WebsocketAddr = raw.Listen
	}
	if defined("record", "record") {
		c.RecordFile = raw.Record
	}
	if defined("joystick", "joystick") {
		c.Joystick = raw.Joystick
	}
	for _, a := range []struct {
		key, flag string
		val       string
		addr      *link.Address
	}{
		{"addr", "addr", raw.Addr, &c.Local},
		{"peer", "peer", raw.Peer, &c.Peer},
	} {
		if !defined(a.key, a.flag) {
			continue
		}
		addr, err := ParseAddress(a.val)
		if err != nil {
			return fmt.Errorf("parse %s: %w", a.key, err)
		}
		*a.addr = addr
	}
	for _, d := range []struct {
		key, flag string
		val       string
		dur       *time.Duration
	}{
		{"control_rate", "control-rate", raw.ControlRate, &c.ControlRate},
		{"heartbeat", "heartbeat", raw.Heartbeat, &c.HeartbeatInterval},
		{"idle_timeout", "idle-timeout", raw.IdleTimeout, &c.IdleTimeout},
	} {
		if !defined(d.key, d.flag) {
			continue
		}
		dur, err := time.ParseDuration(d.val)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dur = dur
	}
	return nil
}
