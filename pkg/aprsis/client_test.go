package aprsis

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lora-aprs/igate-go/pkg/aprs"
)

// fakeServer is a minimal in-process APRS-IS server.
type fakeServer struct {
	listener net.Listener
	verified bool

	mu    sync.Mutex
	lines []string
	conn  net.Conn
}

func newFakeServer(t *testing.T, verified bool) *fakeServer {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &fakeServer{listener: l, verified: verified}
	go s.serve()
	t.Cleanup(func() { l.Close() })
	return s
}

func (s *fakeServer) serve() {
	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	conn.Write([]byte("# aprsc 2.1.15 test server\r\n"))

	reader := bufio.NewReader(conn)
	login, err := reader.ReadString('\n')
	if err != nil {
		return
	}
	s.record(login)

	call := "TEST"
	if fields := strings.Fields(login); len(fields) > 1 {
		call = fields[1]
	}
	if s.verified {
		conn.Write([]byte("# logresp " + call + " verified, server TEST\r\n"))
	} else {
		conn.Write([]byte("# logresp " + call + " unverified, server TEST\r\n"))
		conn.Close()
		return
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		s.record(line)
	}
}

func (s *fakeServer) record(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, strings.TrimRight(line, "\r\n"))
	s.mu.Unlock()
}

func (s *fakeServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func (s *fakeServer) send(line string) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	conn.Write([]byte(line + "\r\n"))
}

func (s *fakeServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func TestConnectAndLogin(t *testing.T) {
	server := newFakeServer(t, true)
	client := NewClient("OE5BPA-10", "12345", nil)

	if err := client.Connect(context.Background(), "127.0.0.1", server.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	if !client.Connected() {
		t.Error("Connected() = false after login")
	}
	if client.ConnectionID() == "" {
		t.Error("ConnectionID empty after login")
	}

	got := server.received()
	if len(got) != 1 {
		t.Fatalf("server received %v", got)
	}
	if !strings.HasPrefix(got[0], "user OE5BPA-10 pass 12345 vers ") {
		t.Errorf("login line = %q", got[0])
	}
}

func TestConnectRejectedLogin(t *testing.T) {
	server := newFakeServer(t, false)
	client := NewClient("OE5BPA-10", "-1", nil)

	err := client.Connect(context.Background(), "127.0.0.1", server.port())
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("Connect error = %v, want ErrLoginFailed", err)
	}
	if client.Connected() {
		t.Error("Connected() = true after rejected login")
	}
}

func TestConnectRefused(t *testing.T) {
	// Grab a port and close it again so nothing is listening.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	client := NewClient("OE5BPA-10", "12345", nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Connect(ctx, "127.0.0.1", port); err == nil {
		t.Fatal("Connect succeeded against closed port")
	}
}

func TestSendMessage(t *testing.T) {
	server := newFakeServer(t, true)
	client := NewClient("OE5BPA-10", "12345", nil)

	if err := client.Connect(context.Background(), "127.0.0.1", server.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	msg := aprs.NewMessage("OE5BPA-10", "APLG01", "=4812.50NI01414.56E&test")
	if err := client.SendMessage(msg); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	waitFor(t, "relayed line", func() bool { return len(server.received()) == 2 })
	if got := server.received()[1]; got != msg.Encode() {
		t.Errorf("server received %q, want %q", got, msg.Encode())
	}
}

func TestSendNotConnected(t *testing.T) {
	client := NewClient("OE5BPA-10", "12345", nil)
	err := client.SendMessage(aprs.NewMessage("A", "B", "x"))
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func TestInboundLines(t *testing.T) {
	server := newFakeServer(t, true)
	client := NewClient("OE5BPA-10", "12345", nil)

	if err := client.Connect(context.Background(), "127.0.0.1", server.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	server.send("# keepalive comment")
	server.send("OE5XYZ-7>APRS,qAR,OE5BPA-10:>status")

	waitFor(t, "inbound line", func() bool { return client.Available() > 0 })

	line, ok := client.ReadLine()
	if !ok {
		t.Fatal("ReadLine: no line")
	}
	if line != "OE5XYZ-7>APRS,qAR,OE5BPA-10:>status" {
		t.Errorf("line = %q (comments must be filtered)", line)
	}

	if _, ok := client.ReadLine(); ok {
		t.Error("ReadLine returned a second line, want empty non-blocking result")
	}
}

func TestDropDetection(t *testing.T) {
	server := newFakeServer(t, true)
	client := NewClient("OE5BPA-10", "12345", nil)

	dropped := make(chan struct{})
	client.OnDrop(func() { close(dropped) })

	if err := client.Connect(context.Background(), "127.0.0.1", server.port()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	server.mu.Lock()
	server.conn.Close()
	server.mu.Unlock()

	select {
	case <-dropped:
	case <-time.After(2 * time.Second):
		t.Fatal("drop callback not invoked after server closed connection")
	}

	if client.Connected() {
		t.Error("Connected() = true after drop")
	}
}
