package link

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/skylink/pkg/payload"
)

// FrameHandler is called when a frame is received.
type FrameHandler interface {
	HandleFrame(context.Context, Frame)
}

// HandleFrameFunc is func type of FrameHandler.
type HandleFrameFunc func(context.Context, Frame)

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame Frame) {
	f(ctx, frame)
}

// DefaultIdleTimeout is how long a partial frame is kept without new bytes.
const DefaultIdleTimeout = 500 * time.Millisecond

const readBufferSize = 256

// Stream sends/receives frames over a byte stream.
type Stream struct {
	ReadWriter io.ReadWriter
	Handler    FrameHandler
	// Local is the address used as From of sent frames.
	Local Address
	// IdleTimeout abandons a partial frame when no byte arrives in time.
	// Zero keeps partial frames forever.
	IdleTimeout time.Duration

	decoder   Decoder
	idleTimer <-chan time.Time

	stats     Stats
	statsLock sync.RWMutex
	writeLock sync.Mutex
}

// NewStream creates a Stream.
func NewStream(rw io.ReadWriter, local Address) *Stream {
	return &Stream{
		ReadWriter:  rw,
		Local:       local,
		IdleTimeout: DefaultIdleTimeout,
	}
}

// Stats gets the decoder counters.
func (s *Stream) Stats() Stats {
	s.statsLock.RLock()
	defer s.statsLock.RUnlock()
	return s.stats
}

// Send encodes p into a frame to the peer and writes it.
func (s *Stream) Send(p payload.Payload, to Address) error {
	raw, err := Encode(p, s.Local, to)
	if err != nil {
		return err
	}
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	if _, err := raw.WriteTo(s.ReadWriter); err != nil {
		return err
	}
	if glog.V(2) {
		glog.Infof("SND %d->%d %s", s.Local, to, p.Type())
	}
	return nil
}

// Run receives frames until the context is done or reading fails.
// The reader stays blocked in Read after Run returns, until the caller
// closes ReadWriter.
func (s *Stream) Run(ctx context.Context) error {
	chunkCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.readLoop(subCtx, chunkCh, errCh)
	for {
		select {
		case chunk := <-chunkCh:
			for _, b := range chunk {
				s.parse(ctx, b)
			}
			s.restartIdleTimer()
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-s.idleTimer:
			s.idleTimer = nil
			if n := s.decoder.Buffered(); n > 0 {
				glog.V(2).Infof("idle timeout, dropping %d buffered bytes", n)
				s.decoder.Reset()
				s.updateStats()
			}
		}
	}
}

func (s *Stream) readLoop(ctx context.Context, chunkCh chan []byte, errCh chan error) {
	buf := make([]byte, readBufferSize)
	for {
		n, err := s.ReadWriter.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case chunkCh <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (s *Stream) parse(ctx context.Context, b byte) {
	pr := s.decoder.Parse(b)
	if pr.Rejected != nil {
		glog.V(3).Infof("candidate rejected: %v", pr.Rejected)
	}
	if !pr.HasFrame() {
		return
	}
	if glog.V(2) {
		glog.Infof("RCV %d->%d %s", pr.Frame.From, pr.Frame.To, pr.Frame.Type)
	}
	if h := s.Handler; h != nil {
		h.HandleFrame(ctx, pr.Frame)
	}
}

func (s *Stream) restartIdleTimer() {
	s.updateStats()
	if s.IdleTimeout > 0 && s.decoder.Buffered() > 0 {
		s.idleTimer = time.After(s.IdleTimeout)
	} else {
		s.idleTimer = nil
	}
}

func (s *Stream) updateStats() {
	stats := s.decoder.Stats()
	s.statsLock.Lock()
	s.stats = stats
	s.statsLock.Unlock()
}
