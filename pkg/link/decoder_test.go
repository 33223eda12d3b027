package link

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/skylink/pkg/payload"
)

func concat(chunks ...[]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func feed(d *Decoder, in []byte) (frames []Frame) {
	for _, b := range in {
		if pr := d.Parse(b); pr.HasFrame() {
			frames = append(frames, pr.Frame)
		}
	}
	return
}

func TestDecoderGpsWithJunk(t *testing.T) {
	gps := payload.Gps{Lat: 40.12345, Lon: -74.98765, Alt: 567.89}
	raw := mustEncode(t, gps, 100, 200)
	prefix := []byte{0xAA, 0xBB, 0xCC, 0xAA, 0xBB, 0xCC}
	in := concat(prefix, raw[:], []byte{0xDE, 0xAD, 0xDE, 0xAD})

	var d Decoder
	var frames []Frame
	for i, b := range in {
		pr := d.Parse(b)
		if pr.HasFrame() {
			frames = append(frames, pr.Frame)
		}
		if i < len(prefix)+FrameSize-1 {
			require.Zero(t, d.Stats().Attempts, "attempt before a full window at %d", i)
		}
	}
	require.Len(t, frames, 1)
	require.Equal(t, Address(100), frames[0].From)
	require.Equal(t, Address(200), frames[0].To)
	p, err := frames[0].Payload()
	require.NoError(t, err)
	require.Equal(t, gps, p)

	stats := d.Stats()
	require.Equal(t, uint64(1), stats.Attempts)
	require.Equal(t, uint64(1), stats.Frames)
	require.Zero(t, stats.Rejected)
	require.Equal(t, uint64(len(prefix)+4), stats.Discarded)
	require.Equal(t, StateSeeking, d.State())
}

func TestDecoderStates(t *testing.T) {
	raw := mustEncode(t, payload.Heartbeat{}, 1, 2)
	var d Decoder
	require.Equal(t, StateSeeking, d.Parse(0x00).State)
	for i := 0; i < FrameSize-1; i++ {
		pr := d.Parse(raw[i])
		require.Equal(t, StateAccumulating, pr.State)
		require.False(t, pr.HasFrame())
		require.Equal(t, i+1, d.Buffered())
	}
	pr := d.Parse(raw[FrameSize-1])
	require.Equal(t, StateComplete, pr.State)
	require.True(t, pr.HasFrame())
	require.Equal(t, StateSeeking, d.State())
	require.Zero(t, d.Buffered())
}

func TestDecoderResync(t *testing.T) {
	raw := mustEncode(t, payload.Attitude{Roll: 1.1, Pitch: 2.0, Yaw: 3.0}, 100, 200)
	partial := mustEncode(t, payload.Altitude{Altitude: 10, ClimbRate: 1}, 1, 2)
	testCases := []struct {
		name   string
		prefix []byte
		suffix []byte
	}{
		{"no junk", nil, nil},
		{"end bytes", []byte{EndByte, EndByte, EndByte}, []byte{EndByte}},
		{"stray start", []byte{StartByte, 0x01, 0x02}, nil},
		{"repeated starts", []byte{StartByte, StartByte, StartByte, StartByte}, nil},
		{"start at tail", []byte{0x01, 0x02, StartByte}, []byte{StartByte, 0x00}},
		{"truncated frame", partial[:30], nil},
		{"truncated frame and start", concat(partial[:10], []byte{StartByte}), partial[:20]},
		{"frame without end", partial[:FrameSize-1], nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Decoder
			frames := feed(&d, concat(tc.prefix, raw[:], tc.suffix))
			require.Len(t, frames, 1)
			require.Equal(t, raw, frames[0].Marshal())
			require.Zero(t, d.Stats().Overflows)
		})
	}
}

func TestDecoderRandomJunk(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	junk := func() []byte {
		b := make([]byte, rnd.Intn(200))
		rnd.Read(b)
		for i := range b {
			if b[i] == StartByte {
				b[i] = 0
			}
		}
		return b
	}
	payloads := testPayloads()
	for i := 0; i < 100; i++ {
		p := payloads[i%len(payloads)]
		raw := mustEncode(t, p, Address(rnd.Intn(0x10000)), Address(rnd.Intn(0x10000)))
		var d Decoder
		frames := feed(&d, concat(junk(), raw[:], junk()))
		require.Len(t, frames, 1)
		decoded, err := frames[0].Payload()
		require.NoError(t, err)
		require.Equal(t, p, decoded)
	}
}

func TestDecoderBackToBack(t *testing.T) {
	var in []byte
	payloads := testPayloads()
	for i, p := range payloads {
		raw := mustEncode(t, p, Address(i), Address(i+1))
		in = append(in, raw[:]...)
	}
	var d Decoder
	frames := feed(&d, in)
	require.Len(t, frames, len(payloads))
	for i, f := range frames {
		require.Equal(t, Address(i), f.From)
		require.Equal(t, payloads[i].Type(), f.Type)
	}
	require.Zero(t, d.Stats().Rejected)
	require.Zero(t, d.Stats().Discarded)
}

func TestDecoderCorruptedThenValid(t *testing.T) {
	first := mustEncode(t, payload.Altitude{Altitude: 10, ClimbRate: 1}, 1, 2)
	second := mustEncode(t, payload.ControlInput{Throttle: 0.5}, 3, 4)
	first[20] ^= 0x10

	var d Decoder
	frames := feed(&d, concat(first[:], second[:]))
	require.Len(t, frames, 1)
	require.Equal(t, Address(3), frames[0].From)
	require.Equal(t, payload.TypeControlInput, frames[0].Type)
	require.True(t, d.Stats().Rejected >= 1)
}

func TestDecoderRejectsBitFlips(t *testing.T) {
	valid := mustEncode(t, payload.Gps{Lat: 1.5, Lon: -2.5, Alt: 3}, 0x0102, 0x0304)
	for i := 1; i <= offChecksum; i++ {
		for bit := uint(0); bit < 8; bit++ {
			corrupted := valid
			corrupted[i] ^= 1 << bit
			var d Decoder
			require.Empty(t, feed(&d, corrupted[:]), "byte %d bit %d", i, bit)
			require.Equal(t, uint64(1), d.Stats().Rejected)
		}
	}
}

func TestDecoderReset(t *testing.T) {
	raw := mustEncode(t, payload.Attitude{Roll: 1.1, Pitch: 2.0, Yaw: 3.0}, 100, 200)
	var d Decoder
	d.Reset()
	require.Zero(t, d.Stats().Resets)

	feed(&d, raw[:FrameSize/2])
	require.Equal(t, FrameSize/2, d.Buffered())
	d.Reset()
	require.Zero(t, d.Buffered())
	require.Equal(t, StateSeeking, d.State())
	require.Equal(t, uint64(1), d.Stats().Resets)

	require.Empty(t, feed(&d, raw[FrameSize/2:]))
	frames := feed(&d, raw[:])
	require.Len(t, frames, 1)
	require.Equal(t, raw, frames[0].Marshal())
}

func TestDecoderOverflowGuard(t *testing.T) {
	raw := mustEncode(t, payload.Heartbeat{}, 1, 2)
	var d Decoder
	d.state, d.n = StateAccumulating, FrameSize

	pr := d.Parse(StartByte)
	require.Equal(t, StateAccumulating, pr.State)
	require.Equal(t, 1, d.Buffered())
	require.Equal(t, uint64(1), d.Stats().Overflows)

	d.state, d.n = StateAccumulating, FrameSize
	before := d.Stats().Discarded
	pr = d.Parse(0x00)
	require.Equal(t, StateSeeking, pr.State)
	require.Zero(t, d.Buffered())
	require.Equal(t, before+FrameSize+1, d.Stats().Discarded)

	d.state, d.n = StateAccumulating, FrameSize
	frames := feed(&d, raw[:])
	require.Len(t, frames, 1)
	require.Equal(t, uint64(3), d.Stats().Overflows)
}

func TestDecoderNoAllocs(t *testing.T) {
	var in []byte
	for _, p := range testPayloads() {
		raw := mustEncode(t, p, 1, 2)
		in = append(in, 0x00, StartByte)
		in = append(in, raw[:]...)
	}
	var d Decoder
	allocs := testing.AllocsPerRun(100, func() {
		for _, b := range in {
			d.Parse(b)
		}
	})
	require.Zero(t, allocs)
}
