package sim

import (
	"flag"
	"math"
	"time"

	"github.com/robotalks/skylink/pkg/env"
	"github.com/robotalks/skylink/pkg/link"
)

// Config defines the simulated vehicle.
type Config struct {
	Listen   string
	Local    link.Address
	Peer     link.Address
	Interval time.Duration
	// MaxTilt in degrees.
	MaxTilt float64
	// MaxYawRate in degrees/s.
	MaxYawRate     float64
	MaxClimbRate   float64
	MaxSpeed       float64
	ControlTimeout time.Duration
	Lat, Lon       float64
}

var defaultConfig = Config{
	Listen:         ":5760",
	Local:          2,
	Interval:       100 * time.Millisecond,
	MaxTilt:        30,
	MaxYawRate:     90,
	MaxClimbRate:   3,
	MaxSpeed:       10,
	ControlTimeout: time.Second,
	Lat:            37.4275,
	Lon:            -122.1697,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	c := &defaultConfig
	flag.StringVar(&c.Listen, "listen", c.Listen, "TCP address the simulated radio listens on.")
	flag.Func("addr", "Link address of the vehicle.", addressSetter(&c.Local))
	flag.Func("peer", "Link address receiving telemetry, 0 replies to the last station heard.", addressSetter(&c.Peer))
	flag.DurationVar(&c.Interval, "interval", c.Interval, "Telemetry interval.")
	flag.Float64Var(&c.MaxTilt, "max-tilt", c.MaxTilt, "Roll/pitch (degrees) at full stick.")
	flag.Float64Var(&c.MaxYawRate, "max-yaw-rate", c.MaxYawRate, "Yaw rate (degrees/s) at full stick.")
	flag.Float64Var(&c.MaxClimbRate, "max-climb-rate", c.MaxClimbRate, "Climb rate (m/s) at full throttle.")
	flag.Float64Var(&c.MaxSpeed, "max-speed", c.MaxSpeed, "Ground speed (m/s) at full tilt.")
	flag.DurationVar(&c.ControlTimeout, "control-timeout", c.ControlTimeout, "Hover when no control input arrives in time, 0 disables.")
	flag.Float64Var(&c.Lat, "lat", c.Lat, "Initial latitude.")
	flag.Float64Var(&c.Lon, "lon", c.Lon, "Initial longitude.")
}

func addressSetter(addr *link.Address) func(string) error {
	return func(s string) error {
		a, err := env.ParseAddress(s)
		if err != nil {
			return err
		}
		*addr = a
		return nil
	}
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Caps converts the configured envelope.
func (c *Config) Caps() Caps {
	return Caps{
		MaxTilt:        AngleFromDegrees(c.MaxTilt),
		MaxYawRate:     c.MaxYawRate * math.Pi / 180,
		MaxClimbRate:   c.MaxClimbRate,
		MaxSpeed:       c.MaxSpeed,
		ControlTimeout: c.ControlTimeout,
	}
}

// NewVehicle creates the configured vehicle.
func (c *Config) NewVehicle() *Vehicle {
	return NewVehicle(c.Caps(), c.Lat, c.Lon)
}
