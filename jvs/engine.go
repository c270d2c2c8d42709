// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package jvs implements the JVS wire protocol engine: framing, daisy
// chain traversal, address assignment, capability reporting and the
// per-command request/response dispatch described in the design notes.
package jvs

import (
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/jvsemu/errors"
	"github.com/jetsetilly/jvsemu/logger"
)

// SenseLine is the out-of-band signal the mainboard uses to detect that
// the daisy chain has been fully addressed. Implementation (floating
// input vs switched output) is external to the engine.
type SenseLine interface {
	SetSenseLine(asserted bool) error
}

// FFBSink receives raw force-feedback command bytes decoded from
// protocol writes, destined for the controller bound to player index.
type FFBSink interface {
	Enqueue(player int, raw []byte)
}

// FFBStatusSource optionally augments an FFBSink with a per-player motor
// status readback (motor-busy flag, position, torque), consulted by the
// NAMCO_SPECIFIC 0x21 sub-command.
type FFBStatusSource interface {
	Status(player int) [4]byte
}

// Engine is the single-threaded JVS protocol loop: it owns the daisy
// chain and the serial device, reads a request, dispatches it, and
// writes the assembled response.
type Engine struct {
	Head  *Node
	Dev   interface {
		Reader
		Writer
	}
	Sense SenseLine
	FFB   FFBSink

	mu           sync.Mutex
	lastResponse Packet
	haveLast     bool
}

// NewEngine builds an engine over a fixed, already-linked chain of
// nodes. head must not be nil.
func NewEngine(head *Node, dev interface {
	Reader
	Writer
}, sense SenseLine) *Engine {
	return &Engine{Head: head, Dev: dev, Sense: sense}
}

// nodeForAddress walks the chain from head looking for the node whose
// assigned device-id matches dest. Returns nil if none match.
func (e *Engine) nodeForAddress(dest byte) *Node {
	for n := e.Head; n != nil; n = n.Next {
		if byte(atomic.LoadInt32(&n.DeviceID)) == dest {
			return n
		}
	}
	return nil
}

// firstUnassigned returns the first unassigned node in the chain.
func (e *Engine) firstUnassigned() *Node {
	for n := e.Head; n != nil; n = n.Next {
		if !n.assigned() {
			return n
		}
	}
	return nil
}

// headAssigned reports whether the head node has been assigned an
// address; the sense line is asserted iff this holds.
func (e *Engine) headAssigned() bool {
	return e.Head != nil && e.Head.assigned()
}

// ProcessPacket reads one request packet and, if it addresses a local
// node (or is broadcast), dispatches it and writes a response. It is
// the sole entry point called by the protocol loop, and is the "process
// one packet" operation named in the external interfaces.
func (e *Engine) ProcessPacket() error {
	pkt, err := ReadPacket(e.Dev)
	if err != nil {
		return err
	}

	var target *Node
	if pkt.Destination == Broadcast {
		target = e.Head
	} else {
		target = e.nodeForAddress(pkt.Destination)
		if target == nil {
			return errors.Errorf(errors.NotForUs)
		}
	}

	if pkt.Length >= 2 && pkt.Data[0] == cmdRetransmit {
		return e.retransmit()
	}

	resp := Packet{Destination: BusMaster}
	rb := &responseBuilder{}
	if err := rb.appendByte(statusSuccess); err != nil {
		return err
	}

	index := 0
	for index < pkt.Length-1 {
		size, err := e.dispatch(target, pkt.Data[:pkt.Length-1], index, rb)
		if err != nil {
			return err
		}
		index += size
	}

	if rb.n < 2 {
		// Payload is only the leading STATUS_SUCCESS byte (RESET and any
		// other command that appends nothing of its own) — mirrors
		// writePacket's length < 2 bail-out in the original JVS driver:
		// no frame is sent at all, and the retransmit buffer is untouched.
		return nil
	}

	resp.Length = rb.n + 1
	copy(resp.Data[:], rb.buf[:rb.n])

	e.mu.Lock()
	e.lastResponse = resp
	e.haveLast = true
	e.mu.Unlock()

	return WritePacket(e.Dev, &resp)
}

func (e *Engine) retransmit() error {
	e.mu.Lock()
	pkt := e.lastResponse
	have := e.haveLast
	e.mu.Unlock()
	if !have {
		return nil
	}
	return WritePacket(e.Dev, &pkt)
}

// dispatch handles one embedded command starting at data[index], writing
// its response bytes to rb, and returns the number of request bytes the
// command consumed (driving index forward through the packet).
func (e *Engine) dispatch(target *Node, data []byte, index int, rb *responseBuilder) (int, error) {
	cmd := data[index]
	size := 1

	switch cmd {
	case cmdReset:
		size = 2
		for n := e.Head; n != nil; n = n.Next {
			atomic.StoreInt32(&n.DeviceID, -1)
		}
		if e.Sense != nil {
			_ = e.Sense.SetSenseLine(false)
		}
		return size, nil

	case cmdAssignAddr:
		size = 2
		if toAssign := e.firstUnassigned(); toAssign != nil {
			atomic.StoreInt32(&toAssign.DeviceID, int32(data[index+1]))
			if err := rb.appendByte(reportSuccess); err != nil {
				return size, err
			}
			if e.Sense != nil {
				_ = e.Sense.SetSenseLine(e.headAssigned())
			}
		}
		return size, nil

	case cmdRequestID:
		if err := rb.appendByte(reportSuccess); err != nil {
			return size, err
		}
		if err := rb.appendString(target.Capabilities.ID); err != nil {
			return size, err
		}
		if err := rb.appendByte(0x00); err != nil {
			return size, err
		}
		return size, nil

	case cmdCommandVersion:
		return size, rb.append(reportSuccess, target.Capabilities.CommandVersion)

	case cmdJVSVersion:
		return size, rb.append(reportSuccess, target.Capabilities.JVSVersion)

	case cmdCommsVersion:
		return size, rb.append(reportSuccess, target.Capabilities.CommsVersion)

	case cmdCapabilities:
		if err := rb.appendByte(reportSuccess); err != nil {
			return size, err
		}
		return size, writeCapabilities(rb, target.Capabilities)

	case cmdReadSwitches:
		size = 3
		players := int(data[index+1])
		switches := int(data[index+2])
		if err := rb.append(reportSuccess, byte(target.State.Switches[0])); err != nil {
			return size, err
		}
		for p := 0; p < players; p++ {
			word := uint32(0)
			if p+1 < len(target.State.Switches) {
				word = atomic.LoadUint32(&target.State.Switches[p+1])
			}
			for b := 0; b < switches; b++ {
				shift := 8 * (switches - 1 - b)
				if err := rb.appendByte(byte(word >> uint(shift))); err != nil {
					return size, err
				}
			}
		}
		return size, nil

	case cmdReadCoins:
		size = 2
		slots := int(data[index+1])
		if err := rb.appendByte(reportSuccess); err != nil {
			return size, err
		}
		for i := 0; i < slots; i++ {
			c := target.State.Coin(i)
			if err := rb.append(byte((c>>8)&0x1F), byte(c)); err != nil {
				return size, err
			}
		}
		return size, nil

	case cmdReadAnalogs:
		size = 2
		channels := int(data[index+1])
		if err := rb.appendByte(reportSuccess); err != nil {
			return size, err
		}
		restA, _, _ := target.restBitsFor()
		for i := 0; i < channels; i++ {
			v := atomic.LoadUint32(&target.State.Analogue[i]) << uint(restA)
			if err := rb.append16(uint16(v)); err != nil {
				return size, err
			}
		}
		return size, nil

	case cmdReadKeypad:
		return size, rb.append(reportSuccess, 0x00)

	case cmdReadRotary:
		size = 2
		channels := int(data[index+1])
		if err := rb.appendByte(reportSuccess); err != nil {
			return size, err
		}
		if target.Capabilities.GunChannels > 0 && target.Capabilities.RotaryChannels == 0 {
			// this board reports guns under the shared 0x25 opcode
			_, restX, restY := target.restBitsFor()
			x := atomic.LoadUint32(&target.State.Gun[0]) << uint(restX)
			y := atomic.LoadUint32(&target.State.Gun[1]) << uint(restY)
			return size, rb.append(byte(x>>8), byte(x), byte(y>>8), byte(y))
		}
		for i := 0; i < channels; i++ {
			v := atomic.LoadUint32(&target.State.Rotary[i])
			if err := rb.append16(uint16(v)); err != nil {
				return size, err
			}
		}
		return size, nil

	case cmdReadGPI:
		size = 2
		n := int(data[index+1])
		if err := rb.appendByte(reportSuccess); err != nil {
			return size, err
		}
		for i := 0; i < n; i++ {
			if err := rb.appendByte(0x00); err != nil {
				return size, err
			}
		}
		return size, nil

	case cmdRemainingPayout:
		size = 2
		return size, rb.append(reportSuccess, 0, 0, 0, 0)

	case cmdSetPayout:
		size = 4
		return size, rb.appendByte(reportSuccess)

	case cmdSubtractPayout:
		size = 3
		return size, rb.appendByte(reportSuccess)

	case cmdWriteGPO:
		n := int(data[index+1])
		size = 2 + n
		if e.FFB != nil && n > 0 {
			e.FFB.Enqueue(targetPlayer(target), data[index+2:index+2+n])
		}
		return size, rb.appendByte(reportSuccess)

	case cmdWriteGPOByte:
		size = 3
		return size, rb.appendByte(reportSuccess)

	case cmdWriteGPOBit:
		size = 3
		return size, rb.appendByte(reportSuccess)

	case cmdWriteAnalog:
		n := int(data[index+1])
		size = 2 + n*2
		return size, rb.appendByte(reportSuccess)

	case cmdWriteDisplay:
		n := int(data[index+1])
		size = 2 + n*2
		return size, rb.appendByte(reportSuccess)

	case cmdWriteCoins:
		size = 4
		slot := int(data[index+1]) - 1
		incr := int(data[index+2])<<8 | int(data[index+3])
		target.State.AddCoin(slot, incr)
		return size, rb.appendByte(reportSuccess)

	case cmdDecreaseCoins:
		size = 4
		slot := int(data[index+1]) - 1
		decr := int(data[index+2])<<8 | int(data[index+3])
		target.State.SubCoin(slot, decr)
		return size, rb.appendByte(reportSuccess)

	case cmdConveyID:
		size = 1
		if err := rb.appendByte(reportSuccess); err != nil {
			return size, err
		}
		for i := index + 1; i < len(data); i++ {
			size++
			if data[i] == 0 {
				break
			}
		}
		return size, nil

	case cmdNamcoSpecific:
		size = 2
		if err := rb.appendByte(reportSuccess); err != nil {
			return size, err
		}
		return size, dispatchNamco(e, target, data, index, rb, &size)

	default:
		logger.Logf(logger.Allow, "jvs", "unsupported command %#02x", cmd)
		return 1, nil
	}
}

// targetPlayer returns the controller index FFB writes addressed to n are
// routed to. It is always player 0, whatever n's position in the chain.
func targetPlayer(n *Node) int {
	return 0
}

func dispatchNamco(e *Engine, target *Node, data []byte, index int, rb *responseBuilder, size *int) error {
	switch data[index+1] {
	case 0x21:
		*size += 4
		status := [4]byte{0x00, 0x80, 0x00, 0x40}
		if src, ok := e.FFB.(FFBStatusSource); ok {
			status = src.Status(targetPlayer(target))
		}
		return rb.append(status[0], status[1], status[2], status[3])
	case 0x01:
		for i := 0; i < 8; i++ {
			if err := rb.appendByte(0xFF); err != nil {
				return err
			}
		}
	case 0x02:
		return rb.append(0x19, 0x98, 0x10, 0x26, 0x12, 0x00, 0x00, 0x00)
	case 0x03:
		return rb.appendByte(0xFF)
	case 0x04:
		return rb.append(0xFF, 0xFF)
	case 0x18:
		*size += 4
		return rb.appendByte(0xFF)
	default:
		logger.Logf(logger.Allow, "jvs", "unsupported namco sub-command %#02x", data[index+1])
	}
	return nil
}
