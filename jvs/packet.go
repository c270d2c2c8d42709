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

package jvs

import (
	"fmt"
	"time"

	"github.com/jetsetilly/jvsemu/errors"
)

const (
	// SYNC marks the start of every frame. ESCAPE precedes a byte that
	// would otherwise collide with SYNC or itself; the escaped byte is
	// sent minus one and restored by adding one back on receipt.
	SYNC   = 0xE0
	ESCAPE = 0xD0

	// BusMaster is the destination address of every response. Broadcast
	// is the destination of requests addressed to every unassigned node.
	BusMaster = 0x00
	Broadcast = 0xFF

	// MaxPacketSize bounds payload+checksum: the length byte is a single
	// byte, so a packet carries at most 254 payload bytes plus checksum.
	MaxPacketSize = 255

	readTimeout = 200 * time.Millisecond
	writeRetries = 8
)

// Packet is a single JVS frame: destination, a length byte (payload plus
// the trailing checksum byte) and the payload itself. The checksum is
// computed, not stored, since ReadPacket verifies it in place and
// WritePacket appends it while framing.
type Packet struct {
	Destination byte
	Length      int
	Data        [MaxPacketSize]byte
}

// Reader is the half-duplex byte source the protocol engine reads frames
// from. A zero-byte read before the deadline elapses is a timeout.
type Reader interface {
	ReadByte(deadline time.Duration) (byte, bool, error)
}

// Writer is the half-duplex byte sink the protocol engine writes framed
// responses to.
type Writer interface {
	Write(p []byte) (int, error)
}

// phase tracks where the framing state machine is within a frame.
type phase int

const (
	phaseSync phase = iota
	phaseDestination
	phaseLength
	phasePayload
)

// ReadPacket consumes bytes from r until a complete, checksum-valid frame
// has been collected, or returns an error. SYNC unconditionally restarts
// the state machine, so the reader is self-resynchronising: a byte seen
// while waiting for SYNC that isn't SYNC is silently skipped.
func ReadPacket(r Reader) (Packet, error) {
	var pkt Packet
	var ph phase = phaseSync
	var escape bool
	var checksum byte
	var dataIndex int

	for {
		b, ok, err := r.ReadByte(readTimeout)
		if err != nil {
			return pkt, err
		}
		if !ok {
			return pkt, errors.Errorf(errors.Timeout, "no byte received")
		}

		if !escape && b == SYNC {
			ph = phaseDestination
			dataIndex = 0
			continue
		}

		if !escape && b == ESCAPE {
			escape = true
			continue
		}

		if escape {
			b++
			escape = false
		}

		switch ph {
		case phaseSync:
			// waiting for SYNC; any other byte is noise between frames
			continue
		case phaseDestination:
			pkt.Destination = b
			checksum = b
			ph = phaseLength
		case phaseLength:
			pkt.Length = int(b)
			checksum += b
			ph = phasePayload
		case phasePayload:
			if dataIndex == pkt.Length-1 {
				if checksum != b {
					return pkt, errors.Errorf(errors.Checksum, fmt.Sprintf("got %#02x want %#02x", b, checksum))
				}
				return pkt, nil
			}
			pkt.Data[dataIndex] = b
			checksum += b
			dataIndex++
		}
	}
}

// WritePacket frames pkt (SYNC, escaped destination/length/payload,
// escaped checksum) and writes it to w, retrying partial writes up to a
// small budget.
func WritePacket(w Writer, pkt *Packet) error {
	var out [2*MaxPacketSize + 4]byte
	n := 0
	out[n] = SYNC
	n++

	checksum := byte(0)

	appendByte := func(b byte) {
		checksum += b
		if b == SYNC || b == ESCAPE {
			out[n] = ESCAPE
			out[n+1] = b - 1
			n += 2
		} else {
			out[n] = b
			n++
		}
	}

	appendByte(pkt.Destination)
	appendByte(byte(pkt.Length))
	for i := 0; i < pkt.Length-1; i++ {
		appendByte(pkt.Data[i])
	}

	// checksum byte is escaped using its own (pre-escape) value, not
	// re-summed into itself
	if checksum == SYNC || checksum == ESCAPE {
		out[n] = ESCAPE
		out[n+1] = checksum - 1
		n += 2
	} else {
		out[n] = checksum
		n++
	}

	written := 0
	retries := 0
	for written < n {
		if retries > writeRetries {
			return errors.Errorf(errors.WriteFail, "exhausted retry budget")
		}
		c, err := w.Write(out[written:n])
		if err != nil {
			return errors.Errorf(errors.WriteFail, err)
		}
		if c == 0 {
			retries++
			continue
		}
		written += c
		retries = 0
	}
	return nil
}
