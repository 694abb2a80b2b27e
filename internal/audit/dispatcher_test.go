package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled config produced a dispatcher")
	}

	// nil receivers must be safe.
	d.Emit(context.Background(), Event{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestEventsReachSink(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)

	d.Emit(context.Background(), Event{EventType: "issue.success"})
	d.Close()

	select {
	case event := <-sink.Events():
		if event.EventType != "issue.success" {
			t.Fatalf("EventType = %q", event.EventType)
		}
	case <-time.After(time.Second):
		t.Fatal("event never reached sink")
	}
}

func TestCloseDrainsBufferedEvents(t *testing.T) {
	sink := NewChannelSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "authorize.success"})
	}
	d.Close()

	received := 0
	timeout := time.After(time.Second)
	for received < 10 {
		select {
		case <-sink.Events():
			received++
		case <-timeout:
			t.Fatalf("drained %d of 10 events", received)
		}
	}
}

func TestDropIfFullCountsDrops(t *testing.T) {
	// A sink that never consumes, with a single-slot buffer: the run loop
	// takes at most one event off the channel, everything past the first
	// couple must drop.
	block := make(chan struct{})
	sink := blockingSink{release: block}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	for i := 0; i < 50; i++ {
		d.Emit(context.Background(), Event{})
	}
	if d.Dropped() == 0 {
		t.Fatal("no drops recorded against a blocked sink")
	}

	close(block)
	d.Close()
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Emit(ctx context.Context, event Event) {
	<-s.release
}

func TestEmitAfterCloseIsIgnored(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Close()

	d.Emit(context.Background(), Event{EventType: "late"})

	select {
	case event := <-sink.Events():
		t.Fatalf("event %q emitted after close", event.EventType)
	default:
	}
}

func TestJSONWriterSinkShape(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{
		EventType: "issue.success",
		RoomName:  "web-call-abc",
		Success:   true,
	})

	var decoded Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not one JSON object per line: %v", err)
	}
	if decoded.EventType != "issue.success" || decoded.RoomName != "web-call-abc" || !decoded.Success {
		t.Fatalf("round-tripped event = %+v", decoded)
	}
}
