package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func waitClients(t *testing.T, h *Hub, n int) {
	for i := 0; h.Clients() != n; i++ {
		require.True(t, i < 100, "expect %d clients, got %d", n, h.Clients())
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	server := httptest.NewServer(h.Handler())
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	var conns []*websocket.Conn
	for i := 0; i < 2; i++ {
		conn, err := websocket.Dial(url, "", server.URL)
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	waitClients(t, h, 2)

	require.NoError(t, h.WritePacket([]byte{1, 2, 3}))
	for _, conn := range conns {
		pkt, err := New(conn).ReadPacket()
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, pkt)
	}

	conns[0].Close()
	waitClients(t, h, 1)
	conns[1].Close()
	waitClients(t, h, 0)
	require.NoError(t, h.WritePacket([]byte{4}))
}
