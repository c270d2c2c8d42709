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

// Package device owns the two resources the JVS protocol engine never
// shares: the RS-485 serial link and the GPIO sense line.
package device

import (
	"time"

	"github.com/pkg/term"

	"github.com/jetsetilly/jvsemu/errors"
)

// Serial is a half-duplex RS-485 link at 115200 8-N-1, implementing
// jvs.Reader and jvs.Writer.
type Serial struct {
	t *term.Term
}

// OpenSerial opens path (e.g. /dev/ttyUSB0) in raw mode at 115200 baud.
func OpenSerial(path string) (*Serial, error) {
	t, err := term.Open(path, term.Speed(115200), term.RawMode)
	if err != nil {
		return nil, errors.Errorf(errors.DeviceOpen, err)
	}
	return &Serial{t: t}, nil
}

// Close releases the underlying tty.
func (s *Serial) Close() error {
	if err := s.t.Close(); err != nil {
		return errors.Errorf(errors.DeviceClose, err)
	}
	return nil
}

// ReadByte reads a single byte, returning ok=false if none arrives before
// deadline elapses.
func (s *Serial) ReadByte(deadline time.Duration) (byte, bool, error) {
	if err := s.t.SetReadTimeout(deadline); err != nil {
		return 0, false, errors.Errorf(errors.DeviceOpen, err)
	}
	var buf [1]byte
	n, err := s.t.Read(buf[:])
	if err != nil {
		return 0, false, errors.Errorf(errors.Timeout, err)
	}
	if n == 0 {
		return 0, false, nil
	}
	return buf[0], true, nil
}

// Write implements jvs.Writer.
func (s *Serial) Write(p []byte) (int, error) {
	n, err := s.t.Write(p)
	if err != nil {
		return n, errors.Errorf(errors.WriteFail, err)
	}
	return n, nil
}
