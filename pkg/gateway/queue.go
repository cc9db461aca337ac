package gateway

import (
	"sync"

	"github.com/lora-aprs/igate-go/pkg/radio"
)

// PacketQueue hands received radio packets from the modem task to the
// uplink task. Push and Pop never block; the queue is unbounded because
// the uplink task drains it completely every tick.
type PacketQueue struct {
	mu      sync.Mutex
	packets []*radio.Packet
}

// Push appends a packet.
func (q *PacketQueue) Push(p *radio.Packet) {
	q.mu.Lock()
	q.packets = append(q.packets, p)
	q.mu.Unlock()
}

// Pop removes and returns the oldest packet, or nil when empty.
func (q *PacketQueue) Pop() *radio.Packet {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.packets) == 0 {
		return nil
	}
	p := q.packets[0]
	q.packets = q.packets[1:]
	return p
}

// Len returns the number of waiting packets.
func (q *PacketQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.packets)
}
