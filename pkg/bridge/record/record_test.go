package record

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type packetRecorder struct {
	packets [][]byte
}

func (r *packetRecorder) WritePacket(pkt []byte) error {
	r.packets = append(r.packets, pkt)
	return nil
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	base := time.Unix(1000, 0)
	tick := 0
	w.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}
	require.NoError(t, w.WritePacket([]byte{1, 2, 3}))
	require.NoError(t, w.WritePacket(nil))
	require.NoError(t, w.WritePacket([]byte{4}))
	require.Equal(t, ErrPacketTooLarge, w.WritePacket(make([]byte, MaxPacketSize+1)))
	require.Equal(t, 3*12+4, buf.Len())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	e, err := r.ReadEntry()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, e.Packet)
	require.True(t, base.Add(time.Millisecond).Equal(e.Time))
	pkt, err := r.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	pkt, err = r.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{4}, pkt)
	_, err = r.ReadPacket()
	require.Equal(t, io.EOF, err)

	r = NewReader(bytes.NewReader(buf.Bytes()[:14]))
	_, err = r.ReadEntry()
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestFileReplay(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "link.rec")
	w, err := Create(fn)
	require.NoError(t, err)
	for i := byte(0); i < 5; i++ {
		require.NoError(t, w.WritePacket([]byte{i}))
	}
	require.NoError(t, w.Close())

	r, err := Open(fn)
	require.NoError(t, err)
	defer r.Close()
	rec := &packetRecorder{}
	n, err := Replay(context.Background(), r, rec, 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, [][]byte{{0}, {1}, {2}, {3}, {4}}, rec.packets)
}

func TestReplayCanceled(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	now := time.Unix(0, 0)
	w.Now = func() time.Time {
		now = now.Add(time.Hour)
		return now
	}
	require.NoError(t, w.WritePacket([]byte{1}))
	require.NoError(t, w.WritePacket([]byte{2}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	rec := &packetRecorder{}
	n, err := Replay(ctx, NewReader(&buf), rec, 1)
	require.Equal(t, context.DeadlineExceeded, err)
	require.Equal(t, 1, n)
}
