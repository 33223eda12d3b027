package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/skylink/pkg/bridge/mqtt"
	"github.com/robotalks/skylink/pkg/cli/sh"
	"github.com/robotalks/skylink/pkg/msgs"
)

var (
	mqttURL    = "mqtt://localhost:1883/skylink/"
	vehicle    = "+"
	outputJSON bool
)

func init() {
	if val := os.Getenv("SKYLINK_MQTT_URL"); val != "" {
		mqttURL = val
	}
	setupFlags(flag.CommandLine)
}

func setupFlags(fs *flag.FlagSet) {
	fs.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	fs.StringVar(&vehicle, "vehicle", vehicle, "Vehicle address to monitor, + for all.")
	fs.BoolVar(&outputJSON, "json", outputJSON, "Print messages as JSON.")
}

// topicPattern subscribes both directions of the selected vehicles.
func topicPattern(v string) string {
	if v == "" {
		v = "+"
	}
	return v + "/+"
}

func formatMessage(topic string, payload []byte, asJSON bool) string {
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return topic + ": bad message: " + err.Error()
	}
	return topic + ": " + sh.FormatTyped(typed, asJSON)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}

	q.Sub(topicPattern(vehicle), mqtt.Handler(func(topic string, payload []byte) {
		log.Println(formatMessage(topic, payload, outputJSON))
	}))
	<-(chan struct{})(nil)
}
