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

import "strings"

// splitPersona reports whether name is one half of a multi-endpoint
// device (a light gun's off-screen/in-screen nodes, or a Wii Remote's IR
// extension) that shares a player slot with its sibling rather than
// claiming its own.
func splitPersona(name string) bool {
	switch {
	case strings.HasSuffix(name, "-ir"):
		return true
	case strings.Contains(name, "out-of-screen"), strings.Contains(name, "in-screen"):
		return true
	default:
		return false
	}
}

// Assignment is the resolved player number for one enumerated device.
type Assignment struct {
	Device *Device
	Player int
}

// AssignPlayers walks devices in their enumerated (already stably
// sorted) order, handing out sequential player numbers to genuine
// joystick/keyboard/mouse devices; split-personas of a multi-endpoint
// device inherit the most recently assigned player instead of advancing
// the counter. fixedPlayer, keyed by canonical device name, overrides the
// sequential allocation for that device.
func AssignPlayers(devices []*Device, fixedPlayer map[string]int) []Assignment {
	assignments := make([]Assignment, 0, len(devices))
	next := 1
	last := 1

	for _, d := range devices {
		if p, ok := fixedPlayer[d.Name]; ok {
			assignments = append(assignments, Assignment{Device: d, Player: p})
			last = p
			continue
		}

		if splitPersona(d.Name) {
			assignments = append(assignments, Assignment{Device: d, Player: last})
			continue
		}

		assignments = append(assignments, Assignment{Device: d, Player: next})
		last = next
		next++
	}

	return assignments
}
