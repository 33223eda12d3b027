package bridge

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/skylink/pkg/framework"
	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/msgs"
	"github.com/robotalks/skylink/pkg/payload"
)

// Sender sends a payload over the link.
type Sender interface {
	Send(p payload.Payload, to link.Address) error
}

// Uplink reads command packets and sends them over the link.
type Uplink struct {
	Reader PacketReader
	Sender Sender
	// Peer is the destination when a packet doesn't specify one.
	Peer link.Address
}

// NewUplink creates an Uplink.
func NewUplink(r PacketReader, s Sender, peer link.Address) *Uplink {
	return &Uplink{Reader: r, Sender: s, Peer: peer}
}

// Run implements Runnable.
func (u *Uplink) Run(ctx context.Context) error {
	onCancel := func() {}
	if closer, ok := u.Reader.(io.Closer); ok {
		onCancel = func() { closer.Close() }
	}
	return fx.RunWithContextCancel(ctx, onCancel, u.pump)
}

func (u *Uplink) pump() error {
	for {
		pkt, err := u.Reader.ReadPacket()
		if err != nil {
			return err
		}
		if err := u.SendPacket(pkt); err != nil {
			glog.Warningf("uplink packet dropped: %v", err)
		}
	}
}

// SendPacket decodes a typed command packet and sends its payload.
// Event packets are ignored.
func (u *Uplink) SendPacket(pkt []byte) error {
	typed, err := msgs.DecodeTyped(pkt)
	if err != nil {
		return err
	}
	if !typed.IsCommand() {
		glog.V(3).Infof("uplink ignores event %x", typed.TypeID)
		return nil
	}
	p, err := typed.Payload()
	if err != nil {
		return err
	}
	_, to, err := typed.Addresses()
	if err != nil {
		return err
	}
	dest := link.Address(to)
	if dest == 0 {
		dest = u.Peer
	}
	return u.Sender.Send(p, dest)
}
