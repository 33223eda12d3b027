package sh

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/msgs"
	"github.com/robotalks/skylink/pkg/payload"
)

// ParsePayload parses TYPE VALUES... into a payload. Values are the fields
// in wire order.
func ParsePayload(args []string) (payload.Payload, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("payload type expected")
	}
	t, ok := payload.TypeByName(args[0])
	if !ok {
		return nil, fmt.Errorf("unknown payload type %q", args[0])
	}
	vals := make([]float64, len(args)-1)
	for n, arg := range args[1:] {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", n+1, err)
		}
		vals[n] = v
	}
	expect := map[payload.Type]int{
		payload.TypeHeartbeat:    0,
		payload.TypeAttitude:     3,
		payload.TypeAltitude:     2,
		payload.TypeGps:          3,
		payload.TypeControlInput: 4,
		payload.TypeGyroSample:   3,
		payload.TypeAccelSample:  3,
	}[t]
	if len(vals) != expect {
		return nil, fmt.Errorf("%s expects %d values, got %d", t, expect, len(vals))
	}
	f := func(n int) float32 { return float32(vals[n]) }
	switch t {
	case payload.TypeAttitude:
		return payload.Attitude{Roll: f(0), Pitch: f(1), Yaw: f(2)}, nil
	case payload.TypeAltitude:
		return payload.Altitude{Altitude: f(0), ClimbRate: f(1)}, nil
	case payload.TypeGps:
		return payload.Gps{Lat: vals[0], Lon: vals[1], Alt: f(2)}, nil
	case payload.TypeControlInput:
		return payload.ControlInput{Roll: f(0), Pitch: f(1), Yaw: f(2), Throttle: f(3)}, nil
	case payload.TypeGyroSample:
		return payload.GyroSample{X: f(0), Y: f(1), Z: f(2)}, nil
	case payload.TypeAccelSample:
		return payload.AccelSample{X: f(0), Y: f(1), Z: f(2)}, nil
	}
	return payload.Heartbeat{}, nil
}

// ParseHex parses hex bytes given as one or more arguments.
func ParseHex(args []string) ([]byte, error) {
	return hex.DecodeString(strings.Join(args, ""))
}

// DecodeStream runs a decoder over data.
func DecodeStream(data []byte) ([]link.Frame, link.Stats) {
	var d link.Decoder
	var frames []link.Frame
	for _, b := range data {
		if pr := d.Parse(b); pr.HasFrame() {
			frames = append(frames, pr.Frame)
		}
	}
	return frames, d.Stats()
}

// FormatFrame prints a frame for display.
func FormatFrame(f *link.Frame, asJSON bool) string {
	p, err := f.Payload()
	if err != nil {
		return fmt.Sprintf("%d->%d %s: %v", f.From, f.To, f.Type, err)
	}
	if asJSON {
		return FormatJSON(p, uint16(f.From), uint16(f.To))
	}
	return fmt.Sprintf("%d->%d %s %+v", f.From, f.To, f.Type, p)
}

// FormatTyped prints a typed packet for display.
func FormatTyped(typed *msgs.Typed, asJSON bool) string {
	p, err := typed.Payload()
	if err != nil {
		return fmt.Sprintf("%d->%d type_id=%x: %v", typed.From, typed.To, typed.TypeID, err)
	}
	if asJSON {
		return FormatJSON(p, uint16(typed.From), uint16(typed.To))
	}
	return fmt.Sprintf("%d->%d %s %+v", typed.From, typed.To, p.Type(), p)
}

// FormatJSON prints the payload as a JSON object.
func FormatJSON(p payload.Payload, from, to uint16) string {
	msg, err := msgs.FromPayload(p)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	out, err := json.Marshal(struct {
		From    uint16       `json:"from"`
		To      uint16       `json:"to"`
		Type    string       `json:"type"`
		Message msgs.Message `json:"message"`
	}{from, to, p.Type().String(), msg})
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(out)
}
