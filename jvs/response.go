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

import "github.com/jetsetilly/jvsemu/errors"

// responseBuilder assembles a response payload, refusing any append that
// would overflow MaxPacketSize rather than corrupting memory.
type responseBuilder struct {
	buf [MaxPacketSize]byte
	n   int
}

func (r *responseBuilder) appendByte(b byte) error {
	if r.n+1 > MaxPacketSize {
		return errors.Errorf(errors.BufferOverflow, "response full")
	}
	r.buf[r.n] = b
	r.n++
	return nil
}

func (r *responseBuilder) append(bs ...byte) error {
	if r.n+len(bs) > MaxPacketSize {
		return errors.Errorf(errors.BufferOverflow, "response full")
	}
	for _, b := range bs {
		r.buf[r.n] = b
		r.n++
	}
	return nil
}

func (r *responseBuilder) appendString(s string) error {
	if r.n+len(s) > MaxPacketSize {
		return errors.Errorf(errors.BufferOverflow, "response full")
	}
	for i := 0; i < len(s); i++ {
		r.buf[r.n] = s[i]
		r.n++
	}
	return nil
}

// append16 writes a big-endian 16-bit value.
func (r *responseBuilder) append16(v uint16) error {
	return r.append(byte(v>>8), byte(v))
}
