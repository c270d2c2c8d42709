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
	"github.com/jetsetilly/jvsemu/config"
	"github.com/jetsetilly/jvsemu/errors"
	"github.com/jetsetilly/jvsemu/logger"
)

// OutputKind is the JVS-side shape an event code is ultimately routed to.
type OutputKind int

const (
	OutSwitch OutputKind = iota
	OutAnalogue
	OutRotary
	OutHat
	OutCard
)

// ResolvedMapping is the per-event-code table entry produced by Resolve:
// everything the event loop needs to translate one raw event without
// further lookups.
type ResolvedMapping struct {
	JVSInput      string
	JVSPlayer     int
	Kind          OutputKind
	Reverse       bool
	Multiplier    float64
	SecondaryIO   bool
	SecondaryJVS  string
}

// Resolve cross-references a device's input mapping with a game's output
// mapping (for player) using last-match-wins lookup, producing a table
// keyed by raw event code. Unresolvable entries are logged and skipped.
func Resolve(dm config.DeviceMapping, om config.OutputMapping, player int) map[int]ResolvedMapping {
	table := make(map[int]ResolvedMapping, len(dm.Mappings))

	for _, im := range dm.Mappings {
		rule, ok := om.Resolve(im.Input, player)
		if !ok {
			logger.Logf(logger.Allow, "input", "no output rule for %q (player %d)", im.Input, player)
			continue
		}

		kind := outputKindFor(im.Kind, rule.Digital)
		rm := ResolvedMapping{
			JVSInput:     rule.JVSInput,
			JVSPlayer:    rule.JVSPlayer,
			Kind:         kind,
			Reverse:      im.Reverse,
			Multiplier:   im.Sensitivity,
			SecondaryIO:  rule.SecondaryIO,
			SecondaryJVS: rule.SecondaryJVS,
		}
		table[im.EventCode] = rm
	}

	return table
}

func outputKindFor(mappingKind byte, digital bool) OutputKind {
	switch mappingKind {
	case 'R':
		return OutRotary
	case 'M':
		return OutCard
	case 'A':
		if digital {
			return OutSwitch
		}
		return OutAnalogue
	default:
		return OutSwitch
	}
}

// ResolveOrFallback loads the named device mapping, or (if missing and
// autoDetect is set) a generic mapping keyed by device kind; it rejects
// devices carrying a <name>.disabled sentinel.
func ResolveOrFallback(mappingDir string, d *Device, genericByKind map[Kind]string, autoDetect bool) (config.DeviceMapping, error) {
	disabledPath := mappingDir + "/" + d.Name + ".disabled"
	if fileExists(disabledPath) {
		return config.DeviceMapping{}, errors.Errorf(errors.MappingDisabled, d.Name)
	}

	path := mappingDir + "/" + d.Name + ".map"
	if fileExists(path) {
		return config.LoadDeviceMapping(path)
	}

	if !autoDetect {
		return config.DeviceMapping{}, errors.Errorf(errors.MappingNotFound, d.Name)
	}

	generic, ok := genericByKind[d.Kind]
	if !ok {
		return config.DeviceMapping{}, errors.Errorf(errors.MappingNotFound, d.Name)
	}
	return config.LoadDeviceMapping(mappingDir + "/" + generic + ".map")
}
