package dap

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dshills/dapcore/internal/errs"
	"github.com/dshills/dapcore/internal/log"
)

func frame(t *testing.T, v any) *Message {
	t.Helper()
	content, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &Message{Content: content}
}

func autoRespond(mt *mockTransport, body any, success bool, message string) {
	mt.onSend = func(msg *Message) {
		var req Request
		json.Unmarshal(msg.Content, &req)

		resp := Response{
			ProtocolMessage: ProtocolMessage{Seq: req.Seq + 1000, Type: "response"},
			RequestSeq:      req.Seq,
			Success:         success,
			Command:         req.Command,
			Message:         message,
		}
		if body != nil {
			b, _ := json.Marshal(body)
			resp.Body = b
		}
		content, _ := json.Marshal(resp)
		mt.queue(&Message{Content: content})
	}
}

func TestChannelCallSendsRequestAndResolvesOnResponse(t *testing.T) {
	mt := newMockTransport()
	autoRespond(mt, Capabilities{SupportsConfigurationDoneRequest: true}, true, "")

	ch := NewChannel(mt, "test", log.Default())
	defer ch.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	caps, err := ch.Initialize(ctx, InitializeRequestArguments{AdapterID: "mock"})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !caps.SupportsConfigurationDoneRequest {
		t.Fatal("expected SupportsConfigurationDoneRequest to round-trip true")
	}

	sent := mt.sent()
	if len(sent) != 1 {
		t.Fatalf("got %d sent messages, want 1", len(sent))
	}
	var req Request
	json.Unmarshal(sent[0].Content, &req)
	if req.Command != "initialize" || req.Type != "request" || req.Seq != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestChannelCallNegativeResponseProducesAdapterError(t *testing.T) {
	mt := newMockTransport()
	autoRespond(mt, nil, false, "breakpoint source not found")

	ch := NewChannel(mt, "test", log.Default())
	defer ch.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := ch.ConfigurationDone(ctx)
	var adapterErr *errs.AdapterError
	if !errors.As(err, &adapterErr) {
		t.Fatalf("got %v, want *errs.AdapterError", err)
	}
	if adapterErr.Command != "configurationDone" {
		t.Fatalf("got command %q", adapterErr.Command)
	}
}

func TestChannelEventDeliveredInArrivalOrder(t *testing.T) {
	mt := newMockTransport()
	ch := NewChannel(mt, "test", log.Default())
	defer ch.Close()

	var received []string
	done := make(chan struct{})
	ch.OnEvent("output", func(ev Event) {
		var body OutputEventBody
		json.Unmarshal(ev.Body, &body)
		received = append(received, body.Output)
		if len(received) == 3 {
			close(done)
		}
	})

	for i, out := range []string{"a", "b", "c"} {
		mt.queue(frame(t, Event{
			ProtocolMessage: ProtocolMessage{Seq: i + 1, Type: "event"},
			Event:           "output",
			Body:            mustMarshal(t, OutputEventBody{Output: out}),
		}))
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("did not receive all events")
	}

	for i, want := range []string{"a", "b", "c"} {
		if received[i] != want {
			t.Fatalf("got order %v, want [a b c]", received)
		}
	}
}

func TestChannelUnsubscribeStopsDelivery(t *testing.T) {
	mt := newMockTransport()
	ch := NewChannel(mt, "test", log.Default())
	defer ch.Close()

	count := 0
	unsub := ch.OnEvent("thread", func(ev Event) { count++ })
	unsub()

	mt.queue(frame(t, Event{ProtocolMessage: ProtocolMessage{Seq: 1, Type: "event"}, Event: "thread"}))
	time.Sleep(50 * time.Millisecond)

	if count != 0 {
		t.Fatalf("got %d deliveries after unsubscribe, want 0", count)
	}
}

func TestChannelReverseRequestInvokesHandlerAndRespondsWithResult(t *testing.T) {
	mt := newMockTransport()
	ch := NewChannel(mt, "test", log.Default())
	defer ch.Close()

	ch.RegisterReverseHandler("startDebugging", func(ctx context.Context, args json.RawMessage) (any, error) {
		return map[string]any{"ok": true}, nil
	})

	mt.queue(frame(t, Request{
		ProtocolMessage: ProtocolMessage{Seq: 7, Type: "request"},
		Command:         "startDebugging",
		Arguments:       mustMarshal(t, StartDebuggingRequestArguments{Request: "launch"}),
	}))

	deadline := time.After(time.Second)
	for {
		sent := mt.sent()
		if len(sent) > 0 {
			var resp Response
			json.Unmarshal(sent[0].Content, &resp)
			if resp.RequestSeq != 7 || !resp.Success {
				t.Fatalf("unexpected reverse response: %+v", resp)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("reverse response was not sent")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestChannelReverseRequestUnregisteredCommandFails(t *testing.T) {
	mt := newMockTransport()
	ch := NewChannel(mt, "test", log.Default())
	defer ch.Close()

	mt.queue(frame(t, Request{
		ProtocolMessage: ProtocolMessage{Seq: 9, Type: "request"},
		Command:         "runInTerminal",
	}))

	deadline := time.After(time.Second)
	for {
		sent := mt.sent()
		if len(sent) > 0 {
			var resp Response
			json.Unmarshal(sent[0].Content, &resp)
			if resp.Success {
				t.Fatal("expected a negative response for an unregistered reverse command")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("reverse response was not sent")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestChannelClosePeerEOFFailsPendingCallsAndSynthesizesTerminated(t *testing.T) {
	mt := newMockTransport()
	ch := NewChannel(mt, "test", log.Default())
	defer ch.Close()

	terminated := make(chan struct{})
	ch.OnEvent("terminated", func(ev Event) { close(terminated) })

	callErr := make(chan error, 1)
	go func() {
		callErr <- ch.ConfigurationDone(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	mt.Close() // simulate peer EOF

	select {
	case err := <-callErr:
		if !errors.Is(err, errs.ChannelClosed) {
			t.Fatalf("got %v, want ChannelClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("pending call did not fail after peer EOF")
	}

	select {
	case <-terminated:
	case <-time.After(time.Second):
		t.Fatal("did not observe a synthetic terminated event")
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
