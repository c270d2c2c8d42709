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
	"sync/atomic"
	"time"

	"github.com/jetsetilly/jvsemu/logger"
)

// pollTimeout bounds how long a device loop blocks between checking its
// stop flag.
const pollTimeout = 2 * time.Millisecond

// DeviceLoop drives one enumerated device: it owns the open evdev node,
// the device's resolved event-code table, and the axis-pairing needed for
// radial deadzone computation across a stick's X/Y pair.
type DeviceLoop struct {
	device *Device
	table  map[int]ResolvedMapping
	router Router
	sink   Sink

	deadzones [4]float64

	pairCode map[int]int
	lastRaw  map[int]int32

	stopped int32
}

// NewDeviceLoop builds a loop for one device given its resolved mapping
// table. deadzones is indexed by player-1 (player 1..4).
func NewDeviceLoop(d *Device, table map[int]ResolvedMapping, router Router, sink Sink, deadzones [4]float64) *DeviceLoop {
	l := &DeviceLoop{
		device:    d,
		table:     table,
		router:    router,
		sink:      sink,
		deadzones: deadzones,
		pairCode:  buildPairing(table),
		lastRaw:   make(map[int]int32, len(table)),
	}
	return l
}

// buildPairing maps each analog-x/analog-y event code to its sibling
// code for the same player, so a radial deadzone can be applied across
// both axes of one stick.
func buildPairing(table map[int]ResolvedMapping) map[int]int {
	pairs := make(map[int]int)
	for code, rm := range table {
		if rm.Kind != OutAnalogue {
			continue
		}
		if rm.JVSInput != "analog-x" && rm.JVSInput != "analog-y" {
			continue
		}
		want := "analog-y"
		if rm.JVSInput == "analog-y" {
			want = "analog-x"
		}
		for code2, rm2 := range table {
			if code2 == code {
				continue
			}
			if rm2.Kind == OutAnalogue && rm2.JVSInput == want && rm2.JVSPlayer == rm.JVSPlayer {
				pairs[code] = code2
				break
			}
		}
	}
	return pairs
}

// Prime reads the current value of every mapped ABS axis before the loop
// starts, so a stick already held over at startup is reflected
// immediately rather than waiting for its next physical movement.
func (l *DeviceLoop) Prime() {
	for code, rm := range l.table {
		if rm.Kind != OutAnalogue && rm.Kind != OutHat && rm.Kind != OutSwitch {
			continue
		}
		v, err := AbsValue(l.device.Path, code)
		if err != nil {
			continue
		}
		l.lastRaw[code] = v
		l.applyAnalogueOrSwitch(code, rm, v)
	}
}

func (l *DeviceLoop) applyAnalogueOrSwitch(code int, rm ResolvedMapping, value int32) {
	ev := RawEvent{Kind: EventAbs, Code: code, Value: value}
	l.dispatch(ev, rm)
}

// Run opens the device node and processes events until Stop is called.
func (l *DeviceLoop) Run() error {
	f, err := openDeviceFile(l.device.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	for atomic.LoadInt32(&l.stopped) == 0 {
		ev, ok, err := f.readEvent(pollTimeout)
		if err != nil {
			logger.Logf(logger.Allow, "input", "%s: read error: %v", l.device.Name, err)
			return err
		}
		if !ok {
			continue
		}

		rm, known := l.table[ev.Code]
		if !known {
			continue
		}

		if ev.Kind == EventAbs {
			l.lastRaw[ev.Code] = ev.Value
		}

		l.dispatch(ev, rm)
	}
	return nil
}

func (l *DeviceLoop) dispatch(ev RawEvent, rm ResolvedMapping) {
	pairedValue := func() (float64, bool) {
		otherCode, ok := l.pairCode[ev.Code]
		if !ok {
			return 0, false
		}
		otherRaw, ok := l.lastRaw[otherCode]
		if !ok {
			return 0, false
		}
		otherRM := l.table[otherCode]
		min, max, ok := l.device.AbsRange(otherCode)
		if !ok {
			return 0, false
		}
		return ScaleAnalogue(float64(otherRaw), otherRM.Multiplier, float64(min), float64(max)), true
	}

	axisRange := func() (float64, float64) {
		min, max, ok := l.device.AbsRange(ev.Code)
		if !ok {
			return 0, 1
		}
		return float64(min), float64(max)
	}

	Apply(ev, rm, l.router, l.sink, l.deadzones, pairedValue, axisRange)
}

// Stop signals Run to return at its next poll tick.
func (l *DeviceLoop) Stop() {
	atomic.StoreInt32(&l.stopped, 1)
}
