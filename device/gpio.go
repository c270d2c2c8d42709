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

package device

import (
	"os"

	"github.com/jetsetilly/jvsemu/errors"
)

// SenseMode selects how the sense line is driven. FloatingInput leaves the
// line pulled low by the mainboard until the chain is fully addressed;
// SwitchedOutput actively drives it.
type SenseMode int

const (
	FloatingInput SenseMode = iota
	SwitchedOutput
)

// SenseLine drives the two-state GPIO signal the mainboard polls to detect
// that the daisy chain has finished addressing. It implements
// jvs.SenseLine.
type SenseLine struct {
	mode SenseMode
	path string
	f    *os.File
}

// OpenSenseLine opens the GPIO line at path (a
// /sys/class/gpio/gpioN/value-style node) in the given mode.
func OpenSenseLine(path string, mode SenseMode) (*SenseLine, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Errorf(errors.DeviceOpen, err)
	}
	return &SenseLine{mode: mode, path: path, f: f}, nil
}

// SetSenseLine implements jvs.SenseLine. In FloatingInput mode the call is
// a no-op: the mainboard reads the line's pull state directly and the
// emulator never drives it.
func (s *SenseLine) SetSenseLine(asserted bool) error {
	if s.mode == FloatingInput {
		return nil
	}
	v := []byte("0\n")
	if asserted {
		v = []byte("1\n")
	}
	if _, err := s.f.WriteAt(v, 0); err != nil {
		return errors.Errorf(errors.SenseLine, err)
	}
	return nil
}

// Close releases the underlying GPIO file.
func (s *SenseLine) Close() error {
	if err := s.f.Close(); err != nil {
		return errors.Errorf(errors.DeviceClose, err)
	}
	return nil
}
