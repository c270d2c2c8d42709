//go:build linux

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

package input

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/jetsetilly/jvsemu/errors"
)

// rawInputEvent mirrors struct input_event on a 64-bit Linux host: two
// timeval fields (16 bytes), then type/code/value.
type rawInputEvent struct {
	Sec, Usec       int64
	Type, Code      uint16
	Value           int32
}

const rawInputEventSize = 24

// deviceFile wraps an opened evdev node for blocking reads with a poll
// timeout, so the loop can service a stop signal without blocking forever.
type deviceFile struct {
	f  *os.File
	fd int
}

func openDeviceFile(path string) (*deviceFile, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Errorf(errors.DeviceOpen, err)
	}
	return &deviceFile{f: f, fd: int(f.Fd())}, nil
}

func (d *deviceFile) Close() error {
	return d.f.Close()
}

// readEvent blocks for up to timeout waiting for one input_event; it
// returns ok=false on timeout so the caller can re-check its stop flag.
func (d *deviceFile) readEvent(timeout time.Duration) (RawEvent, bool, error) {
	fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return RawEvent{}, false, nil
		}
		return RawEvent{}, false, err
	}
	if n == 0 {
		return RawEvent{}, false, nil
	}

	buf := make([]byte, rawInputEventSize)
	if _, err := d.f.Read(buf); err != nil {
		return RawEvent{}, false, err
	}

	typ := uint16(buf[16]) | uint16(buf[17])<<8
	code := uint16(buf[18]) | uint16(buf[19])<<8
	value := int32(buf[20]) | int32(buf[21])<<8 | int32(buf[22])<<16 | int32(buf[23])<<24

	var kind EventKind
	switch typ {
	case evKey:
		kind = EventKey
	case evRel:
		kind = EventRel
	case evAbs:
		kind = EventAbs
	case 0x04: // EV_MSC
		kind = EventMsc
	default:
		return RawEvent{}, false, nil
	}

	return RawEvent{Kind: kind, Code: int(code), Value: value}, true, nil
}
