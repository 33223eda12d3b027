package websocket

import (
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// DefaultClientQueue is the number of packets buffered per client.
const DefaultClientQueue = 64

// ReadWriter implements bridge.PacketReadWriter.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

type client struct {
	rw     *ReadWriter
	sendCh chan []byte
}

// Hub broadcasts packets to all connected websocket clients.
// A client not keeping up loses packets instead of stalling the others.
type Hub struct {
	QueueSize int

	clients map[*client]struct{}
	lock    sync.RWMutex
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{QueueSize: DefaultClientQueue, clients: make(map[*client]struct{})}
}

// Handler returns the http.Handler accepting websocket clients.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

// WritePacket implements PacketWriter.
func (h *Hub) WritePacket(pkt []byte) error {
	h.lock.RLock()
	defer h.lock.RUnlock()
	for c := range h.clients {
		select {
		case c.sendCh <- pkt:
		default:
			glog.V(2).Infof("websocket client %s lagging, packet dropped", c.rw.remote())
		}
	}
	return nil
}

func (h *Hub) serve(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	c := &client{rw: New(conn), sendCh: make(chan []byte, h.QueueSize)}
	h.lock.Lock()
	h.clients[c] = struct{}{}
	h.lock.Unlock()
	glog.Infof("websocket client %s connected", c.rw.remote())

	defer func() {
		h.lock.Lock()
		delete(h.clients, c)
		h.lock.Unlock()
		c.rw.Close()
		glog.Infof("websocket client %s disconnected", c.rw.remote())
	}()

	// reading only detects the close from the client.
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		for {
			if _, err := c.rw.ReadPacket(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case pkt := <-c.sendCh:
			if err := c.rw.WritePacket(pkt); err != nil {
				glog.Warningf("websocket client %s: %v", c.rw.remote(), err)
				return
			}
		case <-doneCh:
			return
		}
	}
}

func (p *ReadWriter) remote() string {
	if req := (*websocket.Conn)(p).Request(); req != nil {
		return req.RemoteAddr
	}
	return "?"
}
