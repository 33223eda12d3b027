package sim

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/payload"
)

// Sender sends a payload over the link.
type Sender interface {
	Send(p payload.Payload, to link.Address) error
}

// Simulator flies a Vehicle with control inputs received over the link
// and reports its telemetry periodically.
type Simulator struct {
	Vehicle *Vehicle
	Sender  Sender
	// Peer receives the telemetry. Zero replies to the last station heard.
	Peer     link.Address
	Interval time.Duration
	Now      func() time.Time

	lock      sync.Mutex
	lastHeard link.Address
}

// NewSimulator creates a Simulator.
func NewSimulator(v *Vehicle, s Sender, peer link.Address, interval time.Duration) *Simulator {
	return &Simulator{Vehicle: v, Sender: s, Peer: peer, Interval: interval, Now: time.Now}
}

// HandleFrame implements link.FrameHandler.
func (s *Simulator) HandleFrame(ctx context.Context, f link.Frame) {
	p, err := f.Payload()
	if err != nil {
		glog.Warningf("frame from %d: %v", f.From, err)
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lastHeard = f.From
	switch in := p.(type) {
	case payload.ControlInput:
		s.Vehicle.Step(s.Now())
		s.Vehicle.Control(in, s.Now())
	case payload.Heartbeat:
	default:
		glog.V(2).Infof("ignored %s from %d", p.Type(), f.From)
	}
}

// Tick steps the vehicle and sends its telemetry.
func (s *Simulator) Tick() error {
	s.lock.Lock()
	s.Vehicle.Step(s.Now())
	telemetry := s.Vehicle.Telemetry()
	to := s.Peer
	if to == 0 {
		to = s.lastHeard
	}
	s.lock.Unlock()
	for _, p := range telemetry {
		if err := s.Sender.Send(p, to); err != nil {
			return err
		}
	}
	return nil
}

// Run implements Runnable.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		}
	}
}
