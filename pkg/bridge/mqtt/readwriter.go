package mqtt

import (
	"context"
	"io"
	"strconv"
)

// Topic names under the vehicle prefix.
const (
	TelemetryTopic = "telemetry"
	ControlTopic   = "control"
)

// ReadWriter implements bridge.PacketReadWriter over a pair of topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
	closeCh  chan struct{}
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 16),
		closeCh:  make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// VehiclePrefix is the topic prefix of a vehicle.
func VehiclePrefix(addr uint16) string {
	return strconv.Itoa(int(addr)) + "/"
}

// ForVehicle sets topics for the ground station side of a vehicle link:
// SubTopic = addr/control
// PubTopic = addr/telemetry
func (p *ReadWriter) ForVehicle(addr uint16) *ReadWriter {
	prefix := VehiclePrefix(addr)
	return p.WithTopics(prefix+ControlTopic, prefix+TelemetryTopic)
}

// ForMonitor sets topics for a consumer of a vehicle's telemetry:
// SubTopic = addr/telemetry
// PubTopic = addr/control
func (p *ReadWriter) ForMonitor(addr uint16) *ReadWriter {
	prefix := VehiclePrefix(addr)
	return p.WithTopics(prefix+TelemetryTopic, prefix+ControlTopic)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.closeCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, p.handleMsg)
	defer sub.Close()
	defer close(p.closeCh)
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.closeCh:
	}
}
