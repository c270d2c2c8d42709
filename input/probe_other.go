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

import "github.com/jetsetilly/jvsemu/errors"

// probe has no implementation outside Linux: the JVS emulator only ever
// runs against a real /dev/input evdev tree.
func probe(path string) (*Device, error) {
	return nil, errors.Errorf(errors.DeviceOpen, "evdev enumeration requires linux")
}

// AbsValue has no implementation outside Linux.
func AbsValue(path string, code int) (int32, error) {
	return 0, errors.Errorf(errors.DeviceOpen, "evdev reading requires linux")
}
