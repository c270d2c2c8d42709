//go:build !linux

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
	"time"

	"github.com/jetsetilly/jvsemu/errors"
)

type deviceFile struct{}

func openDeviceFile(path string) (*deviceFile, error) {
	return nil, errors.Errorf(errors.DeviceOpen, "evdev reading requires linux")
}

func (d *deviceFile) Close() error { return nil }

func (d *deviceFile) readEvent(timeout time.Duration) (RawEvent, bool, error) {
	return RawEvent{}, false, errors.Errorf(errors.DeviceOpen, "evdev reading requires linux")
}
