package link

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/skylink/pkg/payload"
)

type chanReadWriter struct {
	readCh chan []byte
	out    bytes.Buffer
	lock   sync.Mutex
}

func newChanReadWriter() *chanReadWriter {
	return &chanReadWriter{readCh: make(chan []byte)}
}

func (c *chanReadWriter) Read(p []byte) (int, error) {
	chunk, ok := <-c.readCh
	if !ok {
		return 0, io.EOF
	}
	return copy(p, chunk), nil
}

func (c *chanReadWriter) Write(p []byte) (int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.out.Write(p)
}

func (c *chanReadWriter) written() []byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]byte(nil), c.out.Bytes()...)
}

type testReceiver struct {
	frames chan Frame
}

func (r *testReceiver) HandleFrame(ctx context.Context, f Frame) {
	r.frames <- f
}

func (r *testReceiver) expect(t *testing.T) Frame {
	select {
	case f := <-r.frames:
		return f
	case <-time.After(time.Second):
		require.Fail(t, "frame not received")
	}
	return Frame{}
}

func (r *testReceiver) expectNone(t *testing.T) {
	select {
	case f := <-r.frames:
		require.Fail(t, "unexpected frame", "%v", f)
	case <-time.After(50 * time.Millisecond):
	}
}

func startStream(t *testing.T, s *Stream) (context.CancelFunc, chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()
	return cancel, errCh
}

func waitStats(t *testing.T, s *Stream, cond func(Stats) bool) {
	for i := 0; i < 100; i++ {
		if cond(s.Stats()) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Fail(t, "stats condition not met", "%+v", s.Stats())
}

func TestStreamReceive(t *testing.T) {
	rw := newChanReadWriter()
	recv := &testReceiver{frames: make(chan Frame, 4)}
	s := NewStream(rw, 1)
	s.Handler = recv
	cancel, errCh := startStream(t, s)
	defer cancel()

	first := mustEncode(t, payload.Attitude{Roll: 1}, 100, 1)
	second := mustEncode(t, payload.Gps{Lat: 2, Lon: 3, Alt: 4}, 100, 1)
	rw.readCh <- []byte{0x01, 0x02}
	rw.readCh <- first[:10]
	rw.readCh <- concat(first[10:], second[:40])
	rw.readCh <- second[40:]

	f := recv.expect(t)
	require.Equal(t, payload.TypeAttitude, f.Type)
	f = recv.expect(t)
	require.Equal(t, payload.TypeGps, f.Type)

	close(rw.readCh)
	require.Equal(t, io.EOF, <-errCh)
	stats := s.Stats()
	require.Equal(t, uint64(2), stats.Frames)
	require.Equal(t, uint64(2), stats.Discarded)
}

func TestStreamSend(t *testing.T) {
	rw := newChanReadWriter()
	s := NewStream(rw, 100)
	require.NoError(t, s.Send(payload.Attitude{Roll: 1.1, Pitch: 2, Yaw: 3}, 200))
	expected := mustEncode(t, payload.Attitude{Roll: 1.1, Pitch: 2, Yaw: 3}, 100, 200)
	require.Equal(t, expected[:], rw.written())

	require.Equal(t, ErrPayloadTooLarge, s.Send(oversized{size: 60}, 200))
	require.Len(t, rw.written(), FrameSize)
}

func TestStreamIdleReset(t *testing.T) {
	rw := newChanReadWriter()
	recv := &testReceiver{frames: make(chan Frame, 4)}
	s := NewStream(rw, 1)
	s.Handler = recv
	s.IdleTimeout = 20 * time.Millisecond
	cancel, errCh := startStream(t, s)

	raw := mustEncode(t, payload.Altitude{Altitude: 10, ClimbRate: 1}, 2, 1)
	rw.readCh <- raw[:30]
	waitStats(t, s, func(st Stats) bool { return st.Resets == 1 })

	rw.readCh <- raw[30:]
	recv.expectNone(t)

	rw.readCh <- raw[:]
	f := recv.expect(t)
	require.Equal(t, Address(2), f.From)

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestStreamNoIdleTimeout(t *testing.T) {
	rw := newChanReadWriter()
	recv := &testReceiver{frames: make(chan Frame, 4)}
	s := NewStream(rw, 1)
	s.Handler = recv
	s.IdleTimeout = 0
	cancel, _ := startStream(t, s)
	defer cancel()

	raw := mustEncode(t, payload.Heartbeat{}, 2, 1)
	rw.readCh <- raw[:30]
	time.Sleep(50 * time.Millisecond)
	rw.readCh <- raw[30:]
	recv.expect(t)
	require.Zero(t, s.Stats().Resets)
}

type releaseReader struct {
	*chanReadWriter
	released chan struct{}
	once     sync.Once
}

func (r *releaseReader) Read(p []byte) (int, error) {
	n, err := r.chanReadWriter.Read(p)
	if err != nil {
		r.once.Do(func() { close(r.released) })
	}
	return n, err
}

func TestStreamReaderReleasedOnClose(t *testing.T) {
	rw := &releaseReader{chanReadWriter: newChanReadWriter(), released: make(chan struct{})}
	s := NewStream(rw, 1)
	cancel, errCh := startStream(t, s)
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		require.Fail(t, "Run doesn't return")
	}

	// the reader is still blocked in Read until the transport is closed.
	select {
	case <-rw.released:
		require.Fail(t, "reader released before close")
	case <-time.After(20 * time.Millisecond):
	}
	close(rw.readCh)
	select {
	case <-rw.released:
	case <-time.After(time.Second):
		require.Fail(t, "reader not released after close")
	}
}
