package session

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/dshills/dapcore/internal/dap"
)

// closeWithTimeout closes m without waiting on a disconnect response that a
// bare mockTransport never sends.
func closeWithTimeout(m *Manager) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = m.Close(ctx)
}

// mockTransport is an in-memory dap.Transport, mirroring the mock used by
// internal/dap's own channel tests rather than reaching for a mocking
// library.
type mockTransport struct {
	mu         sync.Mutex
	sendQueue  []*dap.Message
	recvChan   chan *dap.Message
	closed     bool
	responders map[string]func(*dap.Message)
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		recvChan:   make(chan *dap.Message, 16),
		responders: make(map[string]func(*dap.Message)),
	}
}

func (t *mockTransport) Send(msg *dap.Message) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return io.ErrClosedPipe
	}
	t.sendQueue = append(t.sendQueue, msg)

	var req dap.Request
	_ = json.Unmarshal(msg.Content, &req)
	respond := t.responders[req.Command]
	t.mu.Unlock()

	if respond != nil {
		respond(msg)
	}
	return nil
}

func (t *mockTransport) Receive() (*dap.Message, error) {
	msg, ok := <-t.recvChan
	if !ok {
		return nil, io.EOF
	}
	return msg, nil
}

func (t *mockTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.recvChan)
	}
	return nil
}

func (t *mockTransport) queue(msg *dap.Message) {
	t.recvChan <- msg
}

func (t *mockTransport) sent() []*dap.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*dap.Message{}, t.sendQueue...)
}

// autoRespond registers a responder for command that answers every request
// for it with a fixed success/body pair, queuing the response back onto
// recvChan the way a real adapter's reply would arrive. Distinct commands
// compose: registering "launch" does not replace "initialize".
func autoRespond(mt *mockTransport, command string, body any, success bool, message string) {
	mt.mu.Lock()
	mt.responders[command] = func(msg *dap.Message) {
		var req dap.Request
		json.Unmarshal(msg.Content, &req)

		resp := dap.Response{
			ProtocolMessage: dap.ProtocolMessage{Seq: req.Seq + 1000, Type: "response"},
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
		mt.queue(&dap.Message{Content: content})
	}
	mt.mu.Unlock()
}

func eventMessage(name string, body any) *dap.Message {
	b, _ := json.Marshal(body)
	ev := dap.Event{
		ProtocolMessage: dap.ProtocolMessage{Seq: 1, Type: "event"},
		Event:           name,
		Body:            b,
	}
	content, _ := json.Marshal(ev)
	return &dap.Message{Content: content}
}
