// Package sh provides the interactive skylink shell.
package sh

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/skylink/pkg/bridge/record"
	"github.com/robotalks/skylink/pkg/env"
	"github.com/robotalks/skylink/pkg/link"
	"github.com/robotalks/skylink/pkg/msgs"
	"github.com/robotalks/skylink/pkg/transport"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	Link   *LinkConn
}

// LinkConn is an open link.
type LinkConn struct {
	Port   string
	Conn   transport.Conn
	Stream *link.Stream
	Cancel func()
	doneCh chan error
}

const (
	shellKey     = "$shell"
	closedPrompt = "[closed] > "
)

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
		&SendCmd,
		&StatsCmd,
		&EncodeCmd,
		&DecodeCmd,
		&ReplayCmd,
	}
)

// SetupFlags sets command line flags of the shell.
func SetupFlags() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Open opens the link on port and prints received frames.
func (s *Shell) Open(port string) error {
	conn, err := transport.Open(port, s.Config.Baud)
	if err != nil {
		return err
	}
	s.Close()
	stream := link.NewStream(conn, s.Config.Local)
	stream.IdleTimeout = s.Config.IdleTimeout
	stream.Handler = link.HandleFrameFunc(func(_ context.Context, f link.Frame) {
		s.Shell.Println(FormatFrame(&f, s.OutputJSON))
	})
	ctx, cancel := context.WithCancel(context.Background())
	lc := &LinkConn{Port: port, Conn: conn, Stream: stream, Cancel: cancel, doneCh: make(chan error, 1)}
	go func() {
		err := stream.Run(ctx)
		conn.Close()
		if err != nil && err != context.Canceled {
			s.Shell.Printf("link %s closed: %v\n", port, err)
		}
		lc.doneCh <- err
	}()
	s.Link = lc
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", port))
	return nil
}

// Close closes the current link.
func (s *Shell) Close() {
	if lc := s.Link; lc != nil {
		lc.Cancel()
		lc.Conn.Close()
		<-lc.doneCh
		s.Link = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		s.Close()
		return
	}
	if s.Interactive {
		s.Shell.Run()
		s.Close()
		return
	}
	log.Fatalln("command expected")
}

func mustBeOpen(fn func(c *ishell.Context, lc *LinkConn)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		lc := ShellFrom(c).Link
		if lc == nil {
			c.Err(fmt.Errorf("link not open"))
			return
		}
		fn(c, lc)
	}
}

var (
	// PortsCmd lists available ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"l"},
		Help:    "[TCP-ADDR...]",
		Func: func(c *ishell.Context) {
			ports, err := transport.AvailablePorts(c.Args...)
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No ports found")
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// OpenCmd opens a link.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "[PORT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			port := s.Config.Port
			if len(c.Args) > 0 {
				port = c.Args[0]
			}
			if port == "" {
				c.Err(fmt.Errorf("port expected"))
				return
			}
			if err := s.Open(port); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the link.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// SendCmd sends a payload to the peer.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TYPE VALUES...",
		Func: mustBeOpen(func(c *ishell.Context, lc *LinkConn) {
			p, err := ParsePayload(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if err := lc.Stream.Send(p, ShellFrom(c).Config.Peer); err != nil {
				c.Err(err)
			}
		}),
	}

	// StatsCmd prints decoder counters of the link.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Func: mustBeOpen(func(c *ishell.Context, lc *LinkConn) {
			c.Printf("%+v\n", lc.Stream.Stats())
		}),
	}

	// EncodeCmd prints the encoded frame in hex.
	EncodeCmd = ishell.Cmd{
		Name:    "encode",
		Aliases: []string{"enc"},
		Help:    "TYPE VALUES...",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			p, err := ParsePayload(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			raw, err := link.Encode(p, s.Config.Local, s.Config.Peer)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("% x\n", raw.Bytes())
		},
	}

	// DecodeCmd decodes frames from hex bytes.
	DecodeCmd = ishell.Cmd{
		Name:    "decode",
		Aliases: []string{"dec"},
		Help:    "HEX...",
		Func: func(c *ishell.Context) {
			data, err := ParseHex(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			frames, stats := DecodeStream(data)
			for n := range frames {
				c.Println(FormatFrame(&frames[n], ShellFrom(c).OutputJSON))
			}
			if stats.Rejected > 0 || stats.Discarded > 0 {
				c.Printf("rejected %d, discarded %d bytes\n", stats.Rejected, stats.Discarded)
			}
		},
	}

	// ReplayCmd prints or resends a recorded session.
	ReplayCmd = ishell.Cmd{
		Name: "replay",
		Help: "FILE [SPEED]",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("record file expected"))
				return
			}
			speed := 0.0
			if len(c.Args) > 1 {
				v, err := strconv.ParseFloat(c.Args[1], 64)
				if err != nil {
					c.Err(err)
					return
				}
				speed = v
			}
			r, err := record.Open(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			defer r.Close()
			s := ShellFrom(c)
			n, err := record.Replay(context.Background(), r, &replayPrinter{shell: s, c: c}, speed)
			if err != nil {
				c.Err(err)
			}
			c.Printf("%d packets replayed\n", n)
		},
	}
)

type replayPrinter struct {
	shell *Shell
	c     *ishell.Context
}

func (p *replayPrinter) WritePacket(pkt []byte) error {
	typed, err := msgs.DecodeTyped(pkt)
	if err != nil {
		p.c.Printf("bad packet: %v\n", err)
		return nil
	}
	p.c.Println(FormatTyped(typed, p.shell.OutputJSON))
	if lc := p.shell.Link; lc != nil && typed.IsCommand() {
		pl, err := typed.Payload()
		if err != nil {
			return err
		}
		_, to, err := typed.Addresses()
		if err != nil {
			return err
		}
		return lc.Stream.Send(pl, link.Address(to))
	}
	return nil
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := env.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	s := New(conf)
	if conf.Port != "" && len(flag.Args()) == 0 {
		if err := s.Open(conf.Port); err != nil {
			log.Fatalf("open %q failed: %v", conf.Port, err)
		}
	}
	s.Run(flag.Args()...)
}
