package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/skylink/pkg/bridge"
	"github.com/robotalks/skylink/pkg/bridge/mqtt"
	"github.com/robotalks/skylink/pkg/bridge/record"
	"github.com/robotalks/skylink/pkg/bridge/websocket"
	"github.com/robotalks/skylink/pkg/env"
	fx "github.com/robotalks/skylink/pkg/framework"
	"github.com/robotalks/skylink/pkg/joystick"
	"github.com/robotalks/skylink/pkg/joystick/device"
	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/metrics"
	"github.com/robotalks/skylink/pkg/payload"
	"github.com/robotalks/skylink/pkg/transport"
)

// Daemon bridges a radio link to the ground station services.
type Daemon struct {
	Config   *env.Config
	Registry *prometheus.Registry
	Bridge   *bridge.Bridge
	Hub      *websocket.Hub

	stream *link.Stream
}

// NewDaemon creates a Daemon.
func NewDaemon(conf *env.Config) (*Daemon, error) {
	if conf.Port == "" {
		return nil, fmt.Errorf("port must be specified")
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return &Daemon{
		Config:   conf,
		Registry: reg,
		Bridge:   bridge.New(),
	}, nil
}

// Start opens the link and everything configured, and runs them with r.
func (d *Daemon) Start(r *fx.Runner) error {
	conf := d.Config
	conn, err := transport.Open(conf.Port, conf.Baud)
	if err != nil {
		return fmt.Errorf("open %s: %w", conf.Port, err)
	}
	glog.Infof("link %s opened, local %d, peer %d", conf.Port, conf.Local, conf.Peer)
	d.stream = link.NewStream(conn, conf.Local)
	d.stream.IdleTimeout = conf.IdleTimeout
	d.stream.Handler = d.Bridge
	d.Registry.MustRegister(metrics.NewLinkCollector(d.stream, conf.Port))

	runnables := []fx.Runnable{
		fx.NamedRun("link", fx.RunnableFunc(func(ctx context.Context) error {
			return fx.RunWithContextCloser(ctx, conn, func() error {
				return d.stream.Run(ctx)
			})
		})),
	}
	fail := func(err error) error {
		conn.Close()
		return err
	}

	if conf.MQTTBrokerURL != "" {
		q, err := mqtt.NewQueueFromURL(conf.MQTTBrokerURL)
		if err != nil {
			return fail(err)
		}
		if err := q.Connect(); err != nil {
			return fail(fmt.Errorf("connect %s: %w", conf.MQTTBrokerURL, err))
		}
		rw := mqtt.NewPacketReadWriter(q).ForVehicle(uint16(conf.Peer))
		d.addSink("mqtt", rw)
		runnables = append(runnables,
			fx.NamedRun("mqtt", fx.RunnableFunc(func(ctx context.Context) error {
				defer q.Close()
				return rw.Run(ctx)
			})),
			fx.NamedRun("uplink", bridge.NewUplink(rw, d.stream, conf.Peer)))
	}

	if conf.RecordFile != "" {
		w, err := record.Create(conf.RecordFile)
		if err != nil {
			return fail(err)
		}
		d.addSink("record", w)
		runnables = append(runnables, fx.NamedRun("record", fx.RunnableFunc(func(ctx context.Context) error {
			<-ctx.Done()
			w.Close()
			return ctx.Err()
		})))
	}

	if conf.WebsocketAddr != "" {
		d.Hub = websocket.NewHub()
		d.addSink("websocket", d.Hub)
		mux := http.NewServeMux()
		mux.Handle("/feed", d.Hub.Handler())
		mux.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
		runnables = append(runnables, fx.NamedRun("http", serveHTTP(conf.WebsocketAddr, mux)))
	}

	if conf.Joystick >= 0 {
		dev, err := device.Open(conf.Joystick)
		if err != nil {
			return fail(fmt.Errorf("open joystick %d: %w", conf.Joystick, err))
		}
		runnables = append(runnables, fx.NamedRun("joystick",
			joystick.NewController(dev, d.stream, conf.Peer, conf.ControlRate)))
	}

	if conf.HeartbeatInterval > 0 {
		runnables = append(runnables, fx.NamedRun("heartbeat", d.heartbeat(conf.HeartbeatInterval)))
	}

	r.Go(runnables...)
	return nil
}

// Stats returns the link decoder counters.
func (d *Daemon) Stats() link.Stats {
	return d.stream.Stats()
}

func (d *Daemon) addSink(name string, w bridge.PacketWriter) {
	d.Bridge.AddSink(metrics.NewCountingWriter(d.Registry, name, w))
}

func (d *Daemon) heartbeat(interval time.Duration) fx.Runnable {
	return fx.RunnableFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := d.stream.Send(payload.Heartbeat{}, d.Config.Peer); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					return err
				}
			}
		}
	})
}

func serveHTTP(addr string, h http.Handler) fx.Runnable {
	return fx.RunnableFunc(func(ctx context.Context) error {
		srv := &http.Server{Addr: addr, Handler: h}
		glog.Infof("serving %s", addr)
		return fx.RunWithContextCancel(ctx, func() { srv.Close() }, srv.ListenAndServe)
	})
}
