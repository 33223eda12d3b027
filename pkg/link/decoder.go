package link

// DecoderState indicates where the decoder is within a frame.
type DecoderState int

const (
	// StateSeeking means no partial frame is buffered and bytes are
	// dropped until a start byte arrives.
	StateSeeking DecoderState = iota
	// StateAccumulating means a candidate frame is being buffered.
	StateAccumulating
	// StateComplete means a frame was decoded by the current byte.
	StateComplete
)

func (s DecoderState) String() string {
	switch s {
	case StateSeeking:
		return "seeking"
	case StateAccumulating:
		return "accumulating"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	State DecoderState
	// Frame is valid only when State is StateComplete.
	Frame Frame
	// Rejected is the reason a buffered candidate was dropped in this
	// step. The decoder already resynchronized, it's informational.
	Rejected error
}

// HasFrame indicates a frame was decoded.
func (r *ParseResult) HasFrame() bool {
	return r.State == StateComplete
}

// Stats counts decoder activity.
type Stats struct {
	// Frames is the number of frames decoded.
	Frames uint64
	// Attempts is the number of full windows validated.
	Attempts uint64
	// Rejected is the number of windows failing validation.
	Rejected uint64
	// Discarded is the number of bytes dropped while looking for a start.
	Discarded uint64
	// Overflows is the number of times the buffer was full without a
	// validation attempt.
	Overflows uint64
	// Resets is the number of partial frames abandoned by Reset.
	Resets uint64
}

// Decoder finds frames in a byte stream. It's fed one byte at a time and
// never blocks or allocates. The zero value is ready to use.
// A Decoder must not be shared between streams.
type Decoder struct {
	buf   [FrameSize]byte
	n     int
	state DecoderState
	stats Stats
}

// State gets the current state. It's never StateComplete.
func (d *Decoder) State() DecoderState {
	return d.state
}

// Buffered returns the number of bytes of the partial frame.
func (d *Decoder) Buffered() int {
	return d.n
}

// Stats returns the counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Reset abandons the partial frame, if any.
func (d *Decoder) Reset() {
	if d.n > 0 {
		d.stats.Resets++
	}
	d.n, d.state = 0, StateSeeking
}

// Parse consumes one byte.
func (d *Decoder) Parse(b byte) (pr ParseResult) {
	if d.state == StateAccumulating && d.n >= len(d.buf) {
		d.stats.Overflows++
		d.stats.Discarded += uint64(d.n)
		d.n, d.state = 0, StateSeeking
	}
	switch d.state {
	case StateSeeking:
		if b != StartByte {
			d.stats.Discarded++
			break
		}
		d.buf[0], d.n = b, 1
		d.state = StateAccumulating
	case StateAccumulating:
		d.buf[d.n] = b
		d.n++
		if d.n < FrameSize {
			break
		}
		d.stats.Attempts++
		f, _, err := Decode(d.buf[:d.n])
		if err != nil {
			d.stats.Rejected++
			pr.Rejected = err
			d.resync()
			break
		}
		d.stats.Frames++
		d.n, d.state = 0, StateSeeking
		pr.State, pr.Frame = StateComplete, f
		return
	}
	pr.State = d.state
	return
}

// resync drops the first buffered byte and everything up to the next
// start byte in the buffer.
func (d *Decoder) resync() {
	skip := 1
	for skip < d.n && d.buf[skip] != StartByte {
		skip++
	}
	d.stats.Discarded += uint64(skip)
	d.n = copy(d.buf[:], d.buf[skip:d.n])
	if d.n == 0 {
		d.state = StateSeeking
	} else {
		d.state = StateAccumulating
	}
}
