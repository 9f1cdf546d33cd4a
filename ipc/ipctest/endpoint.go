package ipctest

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/emukit/ps2ipc/ipc/common"
)

// Endpoint is an in-process stand-in for the relay endpoint. It speaks
// the full wire protocol against a byte-addressable memory image and
// serves one request per accepted connection, exactly like the real
// endpoint the per-call dial transport expects.
type Endpoint struct {
	ln net.Listener

	mu  sync.Mutex
	mem map[uint32]byte

	// Failure injection
	failAll    bool // answer every request with the failure status
	truncate   bool // write only the status byte, then close
	closeEarly bool // close without writing any reply byte
}

// NewEndpoint starts a fake relay endpoint on a loopback TCP port and
// registers its teardown with the test.
func NewEndpoint(t *testing.T) *Endpoint {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	e := &Endpoint{
		ln:  ln,
		mem: make(map[uint32]byte),
	}
	go e.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return e
}

// Addr returns the endpoint address to put into a ClientConfig.
func (e *Endpoint) Addr() string {
	return e.ln.Addr().String()
}

// Config returns a client configuration pointed at this endpoint.
func (e *Endpoint) Config() common.ClientConfig {
	cfg := common.ClientConfig{Endpoint: e.Addr(), TimeoutSecond: 5}
	return cfg.WithDefaults()
}

// SetFailAll makes the endpoint reject every subsequent request.
func (e *Endpoint) SetFailAll(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAll = v
}

// SetTruncateReplies makes the endpoint send only the first reply byte.
func (e *Endpoint) SetTruncateReplies(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.truncate = v
}

// SetCloseWithoutReply makes the endpoint drop connections unanswered.
func (e *Endpoint) SetCloseWithoutReply(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeEarly = v
}

// Poke stores a value of the given width into the memory image.
func (e *Endpoint) Poke(address uint32, value uint64, width int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store(address, value, width)
}

// Peek reads a value of the given width from the memory image.
func (e *Endpoint) Peek(address uint32, width int) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load(address, width)
}

// --------------------------------------------------------------------------
// Protocol handling
// --------------------------------------------------------------------------

func (e *Endpoint) serve() {
	for {
		conn, err := e.ln.Accept()
		if err != nil {
			return
		}
		go e.handle(conn)
	}
}

// handle serves exactly one request, then closes the connection.
func (e *Endpoint) handle(conn net.Conn) {
	defer conn.Close()

	var op [1]byte
	if _, err := io.ReadFull(conn, op[:]); err != nil {
		return
	}

	var reply []byte
	var err error
	if common.Opcode(op[0]) == common.MsgMultiCommand {
		reply, err = e.handleBatch(conn)
	} else {
		reply, err = e.handleSingle(conn, common.Opcode(op[0]))
	}
	if err != nil {
		return
	}

	e.mu.Lock()
	failAll, truncate, closeEarly := e.failAll, e.truncate, e.closeEarly
	e.mu.Unlock()

	if closeEarly {
		return
	}
	if failAll {
		// keep the frame length so the client reads a full reply
		for i := range reply {
			reply[i] = 0
		}
		reply[0] = byte(common.StatusFail)
	}
	if truncate {
		reply = reply[:1]
	}
	_, _ = conn.Write(reply)
}

// handleSingle executes one plain command and builds its full reply,
// status(1) + value(width) for reads, status(1) for writes.
func (e *Endpoint) handleSingle(conn net.Conn, op common.Opcode) ([]byte, error) {
	addr, value, err := e.readCommandBody(conn, op)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if op.IsRead() {
		reply := make([]byte, 1+op.Width())
		reply[0] = byte(common.StatusOK)
		putLE(reply[1:], e.load(addr, op.Width()), op.Width())
		return reply, nil
	}
	e.store(addr, value, op.Width())
	return []byte{byte(common.StatusOK)}, nil
}

// handleBatch executes a multi-command message. The aggregate reply is
// one leading status byte followed by the concatenated sub-replies:
// width value bytes per read, one status byte per write.
func (e *Endpoint) handleBatch(conn net.Conn) ([]byte, error) {
	var countBuf [2]byte
	if _, err := io.ReadFull(conn, countBuf[:]); err != nil {
		return nil, err
	}
	count := int(binary.LittleEndian.Uint16(countBuf[:]))

	reply := []byte{byte(common.StatusOK)}
	for i := 0; i < count; i++ {
		var op [1]byte
		if _, err := io.ReadFull(conn, op[:]); err != nil {
			return nil, err
		}
		opcode := common.Opcode(op[0])
		if opcode.Width() == 0 {
			return nil, errors.New("unknown opcode in batch")
		}

		addr, value, err := e.readCommandBody(conn, opcode)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		if opcode.IsRead() {
			slot := make([]byte, opcode.Width())
			putLE(slot, e.load(addr, opcode.Width()), opcode.Width())
			reply = append(reply, slot...)
		} else {
			e.store(addr, value, opcode.Width())
			reply = append(reply, byte(common.StatusOK))
		}
		e.mu.Unlock()
	}
	return reply, nil
}

// readCommandBody consumes the address and, for writes, the value bytes.
func (e *Endpoint) readCommandBody(conn net.Conn, op common.Opcode) (uint32, uint64, error) {
	var addrBuf [4]byte
	if _, err := io.ReadFull(conn, addrBuf[:]); err != nil {
		return 0, 0, err
	}
	addr := binary.LittleEndian.Uint32(addrBuf[:])

	if !op.IsWrite() {
		return addr, 0, nil
	}

	valBuf := make([]byte, op.Width())
	if _, err := io.ReadFull(conn, valBuf); err != nil {
		return 0, 0, err
	}
	var value uint64
	for i := op.Width() - 1; i >= 0; i-- {
		value = value<<8 | uint64(valBuf[i])
	}
	return addr, value, nil
}

// --------------------------------------------------------------------------
// Memory image helpers (callers hold e.mu)
// --------------------------------------------------------------------------

func (e *Endpoint) store(address uint32, value uint64, width int) {
	for i := 0; i < width; i++ {
		e.mem[address+uint32(i)] = byte(value >> (8 * i))
	}
}

func (e *Endpoint) load(address uint32, width int) uint64 {
	var value uint64
	for i := width - 1; i >= 0; i-- {
		value = value<<8 | uint64(e.mem[address+uint32(i)])
	}
	return value
}

func putLE(buf []byte, value uint64, width int) {
	for i := 0; i < width; i++ {
		buf[i] = byte(value >> (8 * i))
	}
}
