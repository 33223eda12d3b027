package main

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/skylink/pkg/bridge/mqtt"
	"github.com/robotalks/skylink/pkg/msgs"
	"github.com/robotalks/skylink/pkg/payload"
)

func TestFlags(t *testing.T) {
	require.NotNil(t, flag.Lookup("json"))
	require.NotNil(t, flag.Lookup("vehicle"))
	require.NotNil(t, flag.Lookup("mqtt"))

	defer func(u, v string, j bool) { mqttURL, vehicle, outputJSON = u, v, j }(mqttURL, vehicle, outputJSON)
	fs := flag.NewFlagSet("skylinkmon", flag.ContinueOnError)
	setupFlags(fs)
	require.NoError(t, fs.Parse([]string{"-mqtt", "mqtt://broker:1883/fleet/", "-vehicle", "7", "-json"}))
	assert.Equal(t, "mqtt://broker:1883/fleet/", mqttURL)
	assert.Equal(t, "7", vehicle)
	assert.True(t, outputJSON)
}

func TestTopicPattern(t *testing.T) {
	assert.Equal(t, "+/+", topicPattern(""))
	assert.Equal(t, "+/+", topicPattern("+"))
	assert.Equal(t, "7/+", topicPattern("7"))
	assert.True(t, mqtt.MatchTopic("7/telemetry", topicPattern("7")))
	assert.True(t, mqtt.MatchTopic("7/control", topicPattern("+")))
	assert.False(t, mqtt.MatchTopic("8/telemetry", topicPattern("7")))
}

func TestFormatMessage(t *testing.T) {
	typed, err := msgs.TypedFromPayload(payload.Altitude{Altitude: 12.5}, 2, 1)
	require.NoError(t, err)
	pkt, err := typed.Encode()
	require.NoError(t, err)

	out := formatMessage("2/telemetry", pkt, false)
	assert.True(t, strings.HasPrefix(out, "2/telemetry: 2->1 "), out)
	assert.Contains(t, out, "12.5")

	out = formatMessage("2/telemetry", pkt, true)
	assert.Contains(t, out, `"from":2`)

	out = formatMessage("2/telemetry", []byte{0xff, 0xff, 0xff}, false)
	assert.Contains(t, out, "bad message")
}
