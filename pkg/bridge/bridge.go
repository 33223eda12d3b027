package bridge

import (
	"context"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/skylink/pkg/framework"
	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/msgs"
)

// Bridge forwards frames to packet sinks.
type Bridge struct {
	sinks []PacketWriter
	lock  sync.RWMutex
}

// New creates a Bridge.
func New(sinks ...PacketWriter) *Bridge {
	return &Bridge{sinks: sinks}
}

// AddSink adds sinks.
func (b *Bridge) AddSink(sinks ...PacketWriter) *Bridge {
	b.lock.Lock()
	b.sinks = append(b.sinks, sinks...)
	b.lock.Unlock()
	return b
}

// HandleFrame implements link.FrameHandler.
func (b *Bridge) HandleFrame(ctx context.Context, f link.Frame) {
	if err := b.Forward(&f); err != nil {
		glog.Warningf("forward %s from %d: %v", f.Type, f.From, err)
	}
}

// Forward converts the frame and writes it to all sinks.
// A frame with unknown or malformed payload isn't forwarded.
func (b *Bridge) Forward(f *link.Frame) error {
	p, err := f.Payload()
	if err != nil {
		return err
	}
	typed, err := msgs.TypedFromPayload(p, uint16(f.From), uint16(f.To))
	if err != nil {
		return err
	}
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	b.lock.RLock()
	sinks := b.sinks
	b.lock.RUnlock()
	var errs fx.AggregatedError
	for _, sink := range sinks {
		errs.Add(sink.WritePacket(pkt))
	}
	return errs.Aggregate()
}
