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
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/jetsetilly/jvsemu/errors"
)

// kernel event-type numbers and a few event codes, per
// linux/input-event-codes.h.
const (
	evKey = 0x01
	evRel = 0x02
	evAbs = 0x03
	evRep = 0x14

	keyStart = 0x13b // BTN_START
	absMax   = 0x3f  // ABS_MAX
)

// ioctl request-code construction, mirroring linux/ioctl.h's _IOC macro:
// dir<<30 | typ<<8 | nr | size<<16.
const (
	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocRead = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNrShift | size<<iocSizeShift
}

func evIocGName(length uintptr) uintptr { return ioc(iocRead, 'E', 0x06, length) }
func evIocGPhys(length uintptr) uintptr { return ioc(iocRead, 'E', 0x07, length) }
func evIocGID() uintptr                 { return ioc(iocRead, 'E', 0x02, 8) }
func evIocGBit(evType, length uintptr) uintptr {
	return ioc(iocRead, 'E', 0x20+evType, length)
}

func evIocGAbs(axis uintptr) uintptr { return ioc(iocRead, 'E', 0x40+axis, 24) }

type inputID struct {
	Bustype, Vendor, Product, Version uint16
}

// absInfo mirrors struct input_absinfo: value, min, max, fuzz, flat,
// resolution, each a little-endian int32.
type absInfo struct {
	Value, Min, Max, Fuzz, Flat, Resolution int32
}

func ioctlBytes(fd uintptr, req uintptr, buf []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return errno
	}
	return nil
}

func testBit(buf []byte, bit int) bool {
	if bit/8 >= len(buf) {
		return false
	}
	return buf[bit/8]&(1<<uint(bit%8)) != 0
}

// probe opens path and reads its name, bus identity, physical location and
// capability bitmaps, grounded on the EVIOCGNAME/EVIOCGID/EVIOCGPHYS/
// EVIOCGBIT ioctl family.
func probe(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Errorf(errors.DeviceOpen, err)
	}
	defer f.Close()
	fd := f.Fd()

	name := make([]byte, 256)
	if err := ioctlBytes(fd, evIocGName(256), name); err != nil {
		return nil, errors.Errorf(errors.DeviceOpen, err)
	}

	var id inputID
	idBuf := (*[8]byte)(unsafe.Pointer(&id))[:]
	_ = ioctlBytes(fd, evIocGID(), idBuf)

	phys := make([]byte, 256)
	_ = ioctlBytes(fd, evIocGPhys(256), phys)

	d := &Device{
		Path:        path,
		DisplayName: unix.ByteSliceToString(name),
		Vendor:      id.Vendor,
		Product:     id.Product,
		Version:     id.Version,
		BusType:     id.Bustype,
		Phys:        unix.ByteSliceToString(phys),
		absAxes:     map[int]AbsInfo{},
	}

	evBits := make([]byte, (evRep+8)/8+1)
	_ = ioctlBytes(fd, evIocGBit(0, uintptr(len(evBits))), evBits)
	d.hasKey = testBit(evBits, evKey)
	d.hasRel = testBit(evBits, evRel)
	d.hasAbs = testBit(evBits, evAbs)
	d.hasRep = testBit(evBits, evRep)

	if d.hasKey {
		keyBits := make([]byte, (keyStart+8)/8+1)
		_ = ioctlBytes(fd, evIocGBit(evKey, uintptr(len(keyBits))), keyBits)
		d.hasStart = testBit(keyBits, keyStart)
	}

	if d.hasAbs {
		absBits := make([]byte, (absMax+8)/8+1)
		_ = ioctlBytes(fd, evIocGBit(evAbs, uintptr(len(absBits))), absBits)
		for code := 0; code <= absMax; code++ {
			if !testBit(absBits, code) {
				continue
			}
			var info absInfo
			buf := (*[24]byte)(unsafe.Pointer(&info))[:]
			if err := ioctlBytes(fd, evIocGAbs(uintptr(code)), buf); err != nil {
				continue
			}
			d.absAxes[code] = AbsInfo{
				Min:        info.Min,
				Max:        info.Max,
				Fuzz:       info.Fuzz,
				Flat:       info.Flat,
				Resolution: info.Resolution,
			}
		}
	}

	return d, nil
}

// AbsValue reads the current value of one ABS axis directly from the
// device node, used for initial analog priming before a device's event
// loop starts (so a stick already held over does not read as centred
// until its next physical movement).
func AbsValue(path string, code int) (int32, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return 0, errors.Errorf(errors.DeviceOpen, err)
	}
	defer f.Close()

	var info absInfo
	buf := (*[24]byte)(unsafe.Pointer(&info))[:]
	if err := ioctlBytes(f.Fd(), evIocGAbs(uintptr(code)), buf); err != nil {
		return 0, errors.Errorf(errors.DeviceOpen, err)
	}
	return info.Value, nil
}
