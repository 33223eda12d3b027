package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"net"

	"github.com/golang/glog"

	fx "github.com/robotalks/skylink/pkg/framework"
	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/sim"
)

func init() {
	sim.SetupFlags()
}

// serve accepts one ground station at a time, the vehicle keeps flying
// between connections.
func serve(ctx context.Context, ln net.Listener, conf *sim.Config, v *sim.Vehicle) error {
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			glog.Infof("station connected from %s", conn.RemoteAddr())
			err = serveConn(ctx, conn, conf, v)
			glog.Infof("station %s disconnected: %v", conn.RemoteAddr(), err)
		}
	})
}

func serveConn(ctx context.Context, conn net.Conn, conf *sim.Config, v *sim.Vehicle) error {
	stream := link.NewStream(conn, conf.Local)
	simulator := sim.NewSimulator(v, stream, conf.Peer, conf.Interval)
	stream.Handler = simulator
	return fx.NewRunnerWith(ctx).Go(
		fx.NamedRun("link", fx.RunnableFunc(func(ctx context.Context) error {
			return fx.RunWithContextCloser(ctx, conn, func() error {
				return stream.Run(ctx)
			})
		})),
		fx.NamedRun("sim", simulator),
	).Wait()
}

func main() {
	flag.Parse()

	conf := sim.NewConfig()
	ln, err := net.Listen("tcp", conf.Listen)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("vehicle %d listening on %s", conf.Local, ln.Addr())
	v := conf.NewVehicle()
	err = fx.NewRunner().HandleSignals().Go(
		fx.NamedRun("listener", fx.RunnableFunc(func(ctx context.Context) error {
			return serve(ctx, ln, conf, v)
		})),
	).Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
