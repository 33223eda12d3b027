// Package record stores bridged packets in a file for later replay.
//
// Each entry is a little-endian header of 8-byte timestamp (unix nanoseconds)
// and 4-byte length, followed by the packet.
package record

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

// MaxPacketSize limits the size of a recorded packet.
const MaxPacketSize = 1 << 16

// ErrPacketTooLarge indicates a corrupted length in the record.
var ErrPacketTooLarge = errors.New("recorded packet too large")

type header struct {
	Time   int64
	Length uint32
}

// Entry is a recorded packet.
type Entry struct {
	Time   time.Time
	Packet []byte
}

// Writer implements bridge.PacketWriter.
type Writer struct {
	Now func() time.Time

	w    *bufio.Writer
	c    io.Closer
	lock sync.Mutex
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	rw := &Writer{Now: time.Now, w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		rw.c = c
	}
	return rw
}

// Create creates a record file.
func Create(fn string) (*Writer, error) {
	f, err := os.Create(fn)
	if err != nil {
		return nil, err
	}
	return NewWriter(f), nil
}

// WritePacket implements PacketWriter.
func (w *Writer) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return ErrPacketTooLarge
	}
	h := header{Time: w.Now().UnixNano(), Length: uint32(len(pkt))}
	w.lock.Lock()
	defer w.lock.Unlock()
	if err := binary.Write(w.w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if _, err := w.w.Write(pkt); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close implements io.Closer.
func (w *Writer) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	err := w.w.Flush()
	if w.c != nil {
		if cerr := w.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reader reads recorded entries.
type Reader struct {
	r *bufio.Reader
	c io.Closer
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	rr := &Reader{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		rr.c = c
	}
	return rr
}

// Open opens a record file.
func Open(fn string) (*Reader, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	return NewReader(f), nil
}

// ReadEntry reads the next entry. io.EOF is returned at the end of the
// record and io.ErrUnexpectedEOF for a truncated entry.
func (r *Reader) ReadEntry() (*Entry, error) {
	var h header
	if err := binary.Read(r.r, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.Length > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, h.Length)
	if _, err := io.ReadFull(r.r, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return &Entry{Time: time.Unix(0, h.Time), Packet: pkt}, nil
}

// ReadPacket implements PacketReader.
func (r *Reader) ReadPacket() ([]byte, error) {
	e, err := r.ReadEntry()
	if err != nil {
		return nil, err
	}
	return e.Packet, nil
}

// Close implements io.Closer.
func (r *Reader) Close() error {
	if r.c != nil {
		return r.c.Close()
	}
	return nil
}

// PacketWriter is where Replay writes packets.
type PacketWriter interface {
	WritePacket([]byte) error
}

// Replay writes all entries to w, keeping the recorded intervals scaled
// by 1/speed. Speed 0 replays without delay. It returns the number of
// packets written.
func Replay(ctx context.Context, r *Reader, w PacketWriter, speed float64) (int, error) {
	var last time.Time
	for count := 0; ; count++ {
		e, err := r.ReadEntry()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if speed > 0 && !last.IsZero() {
			if delay := time.Duration(float64(e.Time.Sub(last)) / speed); delay > 0 {
				select {
				case <-ctx.Done():
					return count, ctx.Err()
				case <-time.After(delay):
				}
			}
		}
		last = e.Time
		if err := w.WritePacket(e.Packet); err != nil {
			return count, err
		}
	}
}
