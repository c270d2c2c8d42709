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

// Package input is the input engine: device enumeration and ordering,
// mapping resolution, per-device event loops (including the light-gun IR
// reader), and sequential player assignment.
package input

import (
	"path/filepath"
	"sort"
	"strings"
)

// Kind classifies a device by the capability bitmaps it advertises.
type Kind int

const (
	KindUnknown Kind = iota
	KindKeyboard
	KindMouse
	KindJoystick
)

// blacklist patterns, matched case-insensitively against the device name,
// that exclude a device from being treated as a controller.
var blacklist = []string{
	"hdmi", "cec", "audio", "power button", "lid switch", "sleep button", "video bus",
}

// remap sends specific product names to a canonical mapping-file key;
// multi-endpoint devices (a light gun exposing separate joystick/IR
// personas, or a Wii Remote's IR extension) collapse to one key.
var remap = map[string]string{
	"nintendo wii remote ir":       "nintendo-wii-remote",
	"guncon 3 out-of-screen":       "guncon-3",
	"guncon 3 in-screen":           "guncon-3",
}

// Device describes one surviving, enumerated input device.
type Device struct {
	Path        string
	Name        string // canonical mapping key: lowercased, spaces/brackets -> '-'
	DisplayName string
	Vendor      uint16
	Product     uint16
	Version     uint16
	BusType     uint16
	Phys        string // truncated at first '/'
	Kind        Kind

	// capability bitmaps populated by probe(); keyed by kernel event code.
	absAxes map[int]AbsInfo
	hasKey  bool
	hasRel  bool
	hasAbs  bool
	hasRep  bool
	hasStart bool
}

// AbsInfo is the min/max/fuzz/flat tuple EVIOCGABS reports for one
// absolute axis.
type AbsInfo struct {
	Min, Max, Fuzz, Flat, Resolution int32
}

func canonicalName(display string) string {
	lower := strings.ToLower(display)
	var b strings.Builder
	for _, r := range lower {
		switch r {
		case ' ', '(', ')', '[', ']':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	name := b.String()
	if alt, ok := remap[name]; ok {
		return alt
	}
	return name
}

func blacklisted(displayName string) bool {
	lower := strings.ToLower(displayName)
	for _, pat := range blacklist {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	return false
}

func classify(d *Device) Kind {
	switch {
	case d.hasKey && d.hasRep && !d.hasAbs:
		return KindKeyboard
	case d.hasRel:
		return KindMouse
	case d.hasStart:
		return KindJoystick
	default:
		return KindUnknown
	}
}

// AbsRange returns the advertised min/max for an ABS axis, as reported by
// EVIOCGABS during probing.
func (d *Device) AbsRange(code int) (min, max int32, ok bool) {
	info, ok := d.absAxes[code]
	if !ok {
		return 0, 0, false
	}
	return info.Min, info.Max, true
}

func physTruncated(phys string) string {
	if i := strings.IndexByte(phys, '/'); i >= 0 {
		return phys[:i]
	}
	return phys
}

// Enumerate scans the event-device directory, opens and probes every
// device, drops blacklisted names, and returns survivors sorted by
// (bus type ascending, physical-location lexicographic ascending) for
// stable player-slot assignment.
func Enumerate(glob string) ([]*Device, error) {
	if glob == "" {
		glob = "/dev/input/event*"
	}
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}

	var devices []*Device
	for _, p := range paths {
		d, err := probe(p)
		if err != nil {
			continue // enumeration errors reduce the active player set, never abort
		}
		if blacklisted(d.DisplayName) {
			continue
		}
		d.Name = canonicalName(d.DisplayName)
		d.Phys = physTruncated(d.Phys)
		d.Kind = classify(d)
		devices = append(devices, d)
	}

	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].BusType != devices[j].BusType {
			return devices[i].BusType < devices[j].BusType
		}
		return devices[i].Phys < devices[j].Phys
	})

	return devices, nil
}
