package main

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/payload"
	"github.com/robotalks/skylink/pkg/sim"
)

func readFrame(t *testing.T, conn net.Conn) link.Frame {
	buf := make([]byte, link.FrameSize)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, err := io.ReadFull(conn, buf)
	require.NoError(t, err)
	f, _, err := link.Decode(buf)
	require.NoError(t, err)
	return f
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	conf := sim.NewConfig()
	conf.Local, conf.Peer = 2, 0
	conf.Interval = 10 * time.Millisecond
	v := conf.NewVehicle()

	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan error, 1)
	go func() { doneCh <- serve(ctx, ln, conf, v) }()

	station, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer station.Close()

	raw, err := link.Encode(payload.Heartbeat{}, 1, 2)
	require.NoError(t, err)
	_, err = raw.WriteTo(station)
	require.NoError(t, err)

	// telemetry is addressed to the station once it's heard.
	var f link.Frame
	for i := 0; i < 50; i++ {
		if f = readFrame(t, station); f.To == 1 {
			break
		}
	}
	assert.Equal(t, link.Address(2), f.From)
	assert.Equal(t, link.Address(1), f.To)
	p, err := f.Payload()
	require.NoError(t, err)
	assert.NotNil(t, p)

	cancel()
	select {
	case err := <-doneCh:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve doesn't stop")
	}
}
