// Package sse streams tally changes to browsers as Server-Sent Events.
package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Event types.
const (
	TypeTallyUpdated = "tally.updated"
	TypeStatsUpdated = "stats.updated"
	TypeStoreChanged = "store.changed"
)

// KeepAlive is how often an idle stream receives a comment line so proxies
// keep the connection open.
const KeepAlive = 25 * time.Second

// clientBuffer is the number of frames a slow client may lag behind before
// frames for it are dropped.
const clientBuffer = 64

// Event is one message on the stream.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Tally is the payload of a tally.updated event.
type Tally struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// frame renders an event in the text/event-stream format.
func frame(e Event) ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("sse: encode %s: %w", e.Type, err)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "event: %s\ndata: %s\n\n", e.Type, data)
	return b.Bytes(), nil
}

// hub is the broker state. Only the broker loop touches it.
type hub struct {
	clients    map[chan []byte]struct{}
	statsEvery time.Duration
	lastStats  time.Time
	now        func() time.Time
}

func (h *hub) fanOut(e Event) {
	msg, err := frame(e)
	if err != nil {
		return
	}
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// tally sends the new total, followed by stats.updated when the last stats
// event is older than statsEvery.
func (h *hub) tally(t Tally) {
	h.fanOut(Event{Type: TypeTallyUpdated, Data: t})
	if now := h.now(); now.Sub(h.lastStats) >= h.statsEvery {
		h.lastStats = now
		h.fanOut(Event{Type: TypeStatsUpdated, Data: struct{}{}})
	}
}

func (h *hub) dropAll() {
	for ch := range h.clients {
		close(ch)
		delete(h.clients, ch)
	}
}

// Broker fans tally events out to subscribed streams. Its loop goroutine
// owns the hub; every public method hands it a closure to run.
type Broker struct {
	ops  chan func(*hub)
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// NewBroker starts a broker. stats.updated is sent at most once per
// statsThrottle; a non-positive value means two seconds.
func NewBroker(statsThrottle time.Duration) *Broker {
	return newBroker(statsThrottle, time.Now)
}

func newBroker(statsThrottle time.Duration, now func() time.Time) *Broker {
	if statsThrottle <= 0 {
		statsThrottle = 2 * time.Second
	}
	b := &Broker{
		ops:  make(chan func(*hub), 256),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	h := &hub{
		clients:    make(map[chan []byte]struct{}),
		statsEvery: statsThrottle,
		now:        now,
	}
	go b.loop(h)
	return b
}

func (b *Broker) loop(h *hub) {
	defer close(b.done)
	for {
		select {
		case <-b.quit:
			h.dropAll()
			return
		case op := <-b.ops:
			op(h)
		}
	}
}

// exec queues op for the loop. It reports false once the broker is closed.
func (b *Broker) exec(op func(*hub)) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ops <- op:
		return true
	case <-b.done:
		return false
	}
}

// Close stops the loop and closes every subscriber channel.
func (b *Broker) Close() {
	b.once.Do(func() { close(b.quit) })
	<-b.done
}

// Subscribe registers a stream. The channel is closed by Unsubscribe or
// Close; after Close it comes back already closed.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	registered := make(chan struct{})
	if !b.exec(func(h *hub) {
		h.clients[ch] = struct{}{}
		close(registered)
	}) {
		close(ch)
		return ch
	}
	select {
	case <-registered:
	case <-b.done:
		// Close ran before the loop got to the registration.
		select {
		case <-registered:
		default:
			close(ch)
		}
	}
	return ch
}

// Unsubscribe removes a stream and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.exec(func(h *hub) {
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
	})
}

// ClientCount returns the number of open streams.
func (b *Broker) ClientCount() int {
	n := make(chan int, 1)
	if !b.exec(func(h *hub) { n <- len(h.clients) }) {
		return 0
	}
	select {
	case c := <-n:
		return c
	case <-b.done:
		return 0
	}
}

// Publish sends an arbitrary event to every stream.
func (b *Broker) Publish(e Event) {
	b.exec(func(h *hub) { h.fanOut(e) })
}

// PublishTally announces a day's new total.
func (b *Broker) PublishTally(date string, total float64) {
	t := Tally{Date: date, Total: total}
	b.exec(func(h *hub) { h.tally(t) })
}

// PublishStoreChanged tells streams the store was written from outside and
// should be re-read.
func (b *Broker) PublishStoreChanged() {
	b.Publish(Event{Type: TypeStoreChanged, Data: struct{}{}})
}

// ServeHTTP streams events to one client until it disconnects or the broker
// closes.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(KeepAlive)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
		case msg, open := <-ch:
			if !open {
				return
			}
			_, _ = w.Write(msg)
		}
		flusher.Flush()
	}
}
