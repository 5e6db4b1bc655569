package dap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/dapcore/internal/errs"
	"github.com/dshills/dapcore/internal/log"
)

// ReverseHandler answers an adapter-initiated reverse request (startDebugging,
// runInTerminal, ...). Its return value is marshaled into the response body;
// a non-nil error produces a negative response carrying the error's message,
// per section 4.A ("the handler's return value, or error, is framed as a
// response").
type ReverseHandler func(ctx context.Context, args json.RawMessage) (any, error)

// EventHandler observes one named event in arrival order.
type EventHandler func(ev Event)

// Channel is the public operation surface of component A: call,
// register_reverse_handler, on_event, close, over one Transport.
type Channel struct {
	transport Transport
	path      string // diagnostic path, e.g. "session:<id>"
	log       log.Logger

	seq atomic.Int64

	pendingMu sync.Mutex
	pending   map[int]chan *Response

	eventMu  sync.RWMutex
	eventSeq int
	events   map[string][]*eventSub

	reverseMu sync.RWMutex
	reverse   map[string]ReverseHandler

	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error
	closeMu   sync.RWMutex
}

type eventSub struct {
	id int
	fn EventHandler
}

// NewChannel wraps transport and starts its receive loop. path is used only
// for diagnostics (error context, logging) and has no protocol meaning.
func NewChannel(transport Transport, path string, logger log.Logger) *Channel {
	c := &Channel{
		transport: transport,
		path:      path,
		log:       logger.Component("dap").With("path", path),
		pending:   make(map[int]chan *Response),
		events:    make(map[string][]*eventSub),
		reverse:   make(map[string]ReverseHandler),
		closed:    make(chan struct{}),
	}
	go c.receiveLoop()
	return c
}

// Call allocates the next monotonic seq, sends a request, and blocks until
// the matching response arrives, ctx is done, or the channel closes.
func (c *Channel) Call(ctx context.Context, command string, arguments any) (json.RawMessage, error) {
	var argBytes json.RawMessage
	if arguments != nil {
		b, err := json.Marshal(arguments)
		if err != nil {
			return nil, fmt.Errorf("marshal %s arguments: %w", command, err)
		}
		argBytes = b
	}

	seq := int(c.seq.Add(1))
	req := Request{
		ProtocolMessage: ProtocolMessage{Seq: seq, Type: "request"},
		Command:         command,
		Arguments:       argBytes,
	}

	respCh := make(chan *Response, 1)
	c.pendingMu.Lock()
	c.pending[seq] = respCh
	c.pendingMu.Unlock()

	content, err := json.Marshal(req)
	if err != nil {
		c.forgetPending(seq)
		return nil, fmt.Errorf("marshal %s request: %w", command, err)
	}

	if err := c.transport.Send(&Message{Content: content}); err != nil {
		c.forgetPending(seq)
		return nil, fmt.Errorf("send %s: %w", command, err)
	}

	select {
	case resp := <-respCh:
		if resp == nil {
			return nil, errs.ChannelClosed
		}
		if !resp.Success {
			return nil, &errs.AdapterError{Command: command, Message: resp.Message, Path: c.path}
		}
		return resp.Body, nil
	case <-c.closed:
		c.forgetPending(seq)
		return nil, errs.ChannelClosed
	case <-ctx.Done():
		c.forgetPending(seq)
		return nil, ctx.Err()
	}
}

func (c *Channel) forgetPending(seq int) {
	c.pendingMu.Lock()
	delete(c.pending, seq)
	c.pendingMu.Unlock()
}

// RegisterReverseHandler installs fn to answer reverse requests named
// command. Registering the same command twice replaces the prior handler.
func (c *Channel) RegisterReverseHandler(command string, fn ReverseHandler) {
	c.reverseMu.Lock()
	defer c.reverseMu.Unlock()
	c.reverse[command] = fn
}

// OnEvent subscribes fn to events named name ("*" subscribes to every
// event). Returns an unsubscribe function. Events for a given name are
// delivered to fn in arrival order, per section 4.A's ordering guarantee.
func (c *Channel) OnEvent(name string, fn EventHandler) (unsubscribe func()) {
	c.eventMu.Lock()
	c.eventSeq++
	id := c.eventSeq
	c.events[name] = append(c.events[name], &eventSub{id: id, fn: fn})
	c.eventMu.Unlock()

	return func() {
		c.eventMu.Lock()
		defer c.eventMu.Unlock()
		subs := c.events[name]
		for i, s := range subs {
			if s.id == id {
				c.events[name] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Close drains pending calls with errs.ChannelClosed, closes the transport,
// and stops the receive loop.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.pendingMu.Lock()
		for seq, ch := range c.pending {
			ch <- nil
			delete(c.pending, seq)
		}
		c.pendingMu.Unlock()
		err = c.transport.Close()
	})
	return err
}

// Err returns the error that ended the receive loop, if the peer closed the
// channel rather than the caller.
func (c *Channel) Err() error {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	return c.closeErr
}

func (c *Channel) receiveLoop() {
	for {
		msg, err := c.transport.Receive()
		if err != nil {
			select {
			case <-c.closed:
				return
			default:
			}
			var pfe *protocolFormatError
			if errors.As(err, &pfe) {
				err = &errs.ProtocolError{Path: c.path, Err: err}
			}
			c.closeMu.Lock()
			c.closeErr = err
			c.closeMu.Unlock()
			c.log.Warn("receive loop ending: %v", err)
			c.dispatchEvent(Event{ProtocolMessage: ProtocolMessage{Type: "event"}, Event: "terminated"})
			c.Close()
			return
		}

		select {
		case <-c.closed:
			return
		default:
		}

		c.handleMessage(msg)
	}
}

func (c *Channel) handleMessage(msg *Message) {
	var base ProtocolMessage
	if err := json.Unmarshal(msg.Content, &base); err != nil {
		c.log.Warn("dropping malformed frame: %v", err)
		return
	}

	switch base.Type {
	case "response":
		var resp Response
		if err := json.Unmarshal(msg.Content, &resp); err != nil {
			c.log.Warn("dropping malformed response: %v", err)
			return
		}
		c.pendingMu.Lock()
		ch, ok := c.pending[resp.RequestSeq]
		if ok {
			delete(c.pending, resp.RequestSeq)
		}
		c.pendingMu.Unlock()
		if ok {
			ch <- &resp
		}
	case "event":
		var ev Event
		if err := json.Unmarshal(msg.Content, &ev); err != nil {
			c.log.Warn("dropping malformed event: %v", err)
			return
		}
		c.dispatchEvent(ev)
	case "request":
		var req Request
		if err := json.Unmarshal(msg.Content, &req); err != nil {
			c.log.Warn("dropping malformed reverse request: %v", err)
			return
		}
		go c.handleReverseRequest(&req)
	}
}

func (c *Channel) dispatchEvent(ev Event) {
	c.eventMu.RLock()
	subs := append([]*eventSub{}, c.events[ev.Event]...)
	subs = append(subs, c.events["*"]...)
	c.eventMu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

func (c *Channel) handleReverseRequest(req *Request) {
	c.reverseMu.RLock()
	handler, ok := c.reverse[req.Command]
	c.reverseMu.RUnlock()

	resp := Response{
		ProtocolMessage: ProtocolMessage{Seq: int(c.seq.Add(1)), Type: "response"},
		RequestSeq:      req.Seq,
		Command:         req.Command,
	}

	if !ok {
		resp.Success = false
		resp.Message = fmt.Sprintf("no handler registered for reverse request %q", req.Command)
	} else {
		result, err := handler(context.Background(), req.Arguments)
		if err != nil {
			resp.Success = false
			resp.Message = err.Error()
		} else {
			resp.Success = true
			if result != nil {
				body, err := json.Marshal(result)
				if err != nil {
					resp.Success = false
					resp.Message = fmt.Sprintf("marshal %s result: %v", req.Command, err)
				} else {
					resp.Body = body
				}
			}
		}
	}

	content, err := json.Marshal(resp)
	if err != nil {
		c.log.Error("marshal reverse response for %s: %v", req.Command, err)
		return
	}
	if err := c.transport.Send(&Message{Content: content}); err != nil {
		c.log.Error("send reverse response for %s: %v", req.Command, err)
	}
}
