package sh

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/msgs"
	"github.com/robotalks/skylink/pkg/payload"
)

func TestParsePayload(t *testing.T) {
	testCases := []struct {
		args []string
		p    payload.Payload
	}{
		{[]string{"heartbeat"}, payload.Heartbeat{}},
		{[]string{"Attitude", "1.5", "-2", "90"}, payload.Attitude{Roll: 1.5, Pitch: -2, Yaw: 90}},
		{[]string{"altitude", "100", "0.5"}, payload.Altitude{Altitude: 100, ClimbRate: 0.5}},
		{[]string{"gps", "40.123456789", "-74.5", "12"}, payload.Gps{Lat: 40.123456789, Lon: -74.5, Alt: 12}},
		{[]string{"controlinput", "0", "0", "0", "0.75"}, payload.ControlInput{Throttle: 0.75}},
		{[]string{"gyrosample", "1", "2", "3"}, payload.GyroSample{X: 1, Y: 2, Z: 3}},
		{[]string{"accelsample", "0", "0", "-9.81"}, payload.AccelSample{Z: -9.81}},
	}
	for _, tc := range testCases {
		p, err := ParsePayload(tc.args)
		require.NoError(t, err, "%v", tc.args)
		require.Equal(t, tc.p, p)
	}

	for _, args := range [][]string{
		nil,
		{"battery", "12.6"},
		{"attitude", "1", "2"},
		{"heartbeat", "1"},
		{"altitude", "high", "0"},
	} {
		_, err := ParsePayload(args)
		require.Error(t, err, "%v", args)
	}
}

func TestEncodeDecodeHex(t *testing.T) {
	raw, err := link.Encode(payload.Altitude{Altitude: 1, ClimbRate: -2}, 3, 4)
	require.NoError(t, err)
	data, err := ParseHex([]string{"de ad", "", "00"})
	require.Error(t, err)
	data, err = ParseHex([]string{"dead", "00"})
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0}, data)

	frames, stats := DecodeStream(append(data, raw[:]...))
	require.Len(t, frames, 1)
	require.Equal(t, uint64(3), stats.Discarded)
	require.Equal(t, "3->4 Altitude {Altitude:1 ClimbRate:-2}", FormatFrame(&frames[0], false))
}

func TestFormatJSON(t *testing.T) {
	out := FormatJSON(payload.Attitude{Roll: 1.5}, 1, 2)
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, "Attitude", v["type"])
	require.Equal(t, float64(1), v["from"])
	require.Equal(t, map[string]interface{}{"roll": 1.5}, v["message"])
}

func TestFormatTyped(t *testing.T) {
	typed, err := msgs.TypedFromPayload(payload.Gps{Lat: 1, Lon: 2, Alt: 3}, 5, 6)
	require.NoError(t, err)
	require.Equal(t, "5->6 Gps {Lat:1 Lon:2 Alt:3}", FormatTyped(typed, false))

	typed = &msgs.Typed{TypeID: 0x42, From: 1, To: 2}
	require.Contains(t, FormatTyped(typed, false), "unknown type")

	f := link.Frame{From: 1, To: 2, Type: 0x42}
	require.Contains(t, FormatFrame(&f, false), "unknown payload type")
}
