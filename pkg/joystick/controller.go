package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/skylink/pkg/framework"
	"github.com/robotalks/skylink/pkg/joystick/device"
	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/payload"
)

// Sender sends a payload over the link.
type Sender interface {
	Send(p payload.Payload, to link.Address) error
}

// Controller reads a joystick and sends ControlInput periodically.
type Controller struct {
	Device device.Device
	Mapper *Mapper
	Sender Sender
	Peer   link.Address
	// Interval between ControlInput frames.
	Interval time.Duration
}

// NewController creates a Controller with DefaultMapper.
func NewController(dev device.Device, s Sender, peer link.Address, interval time.Duration) *Controller {
	return &Controller{
		Device:   dev,
		Mapper:   DefaultMapper(),
		Sender:   s,
		Peer:     peer,
		Interval: interval,
	}
}

// Run implements Runnable.
func (c *Controller) Run(ctx context.Context) error {
	glog.Infof("joystick %q: %d axes, %d buttons", c.Device.Name(), c.Device.AxisCount(), c.Device.ButtonCount())
	errCh := make(chan error, 1)
	go func() {
		errCh <- fx.RunWithContextCloser(ctx, c.Device, c.readEvents)
	}()
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			<-errCh
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-ticker.C:
			input := c.Mapper.ControlInput()
			if err := c.Sender.Send(input, c.Peer); err != nil {
				glog.Warningf("send control input: %v", err)
			}
		}
	}
}

func (c *Controller) readEvents() error {
	for {
		ev, err := c.Device.ReadEvent()
		if err != nil {
			return err
		}
		glog.V(4).Infof("joystick event %+v", ev)
		c.Mapper.Apply(ev)
	}
}
