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

package main

import (
	"github.com/jetsetilly/jvsemu/input"
	"github.com/jetsetilly/jvsemu/jvs"
)

// buildChain constructs the single-board daisy chain this binary serves.
// A real deployment with multiple cabinets would extend this into a
// linked list of Nodes sharing one Engine.
func buildChain() *jvs.Node {
	caps := jvs.Capabilities{
		Name:               "jvsemu virtual I/O board",
		ID:                 "jetsetilly;jvsemu;v1.0;generic",
		CommandVersion:     0x13,
		JVSVersion:         0x30,
		CommsVersion:       0x10,
		Players:            2,
		SwitchesPerPlayer:  12,
		CoinSlots:          2,
		AnalogueInChannels: 8,
		AnalogueInBits:     10,
		RotaryChannels:     2,
		GunChannels:        2,
		GunXBits:           12,
		GunYBits:           12,
	}
	return jvs.NewNode(caps)
}

// systemSwitches and playerButtons fix the MSB-first bit ordering within
// the system word and each per-player word; index 0 lands on the
// top-most bit of the board's advertised switch width.
var systemSwitches = []string{"test"}

var playerButtons = []string{
	"start", "service", "up", "down", "left", "right",
	"button-1", "button-2", "button-3", "button-4", "button-5", "button-6",
}

// buildRouter resolves the fixed switch/analogue/rotary name tables for
// head's capability layout, used by every device's resolved mapping to
// translate a JVS input name to a concrete (word, bit) or channel index.
func buildRouter(head *jvs.Node) input.Router {
	caps := head.Capabilities
	switchBit := func(jvsInput string, player int) (int, uint, bool) {
		if player == 0 {
			for i, name := range systemSwitches {
				if name == jvsInput {
					return 0, uint(8 - 1 - i), true
				}
			}
			return 0, 0, false
		}
		for i, name := range playerButtons {
			if name != jvsInput {
				continue
			}
			width := ((caps.SwitchesPerPlayer + 7) / 8) * 8
			bit := width - 1 - i
			if bit < 0 {
				return 0, 0, false
			}
			return player, uint(bit), true
		}
		return 0, 0, false
	}

	analogueChannel := func(jvsInput string, player int) (int, int, bool) {
		if player < 1 {
			return 0, 0, false
		}
		switch jvsInput {
		case "analog-x":
			return (player-1)*2 + 0, caps.AnalogueInBits, player*2 <= caps.AnalogueInChannels
		case "analog-y":
			return (player-1)*2 + 1, caps.AnalogueInBits, player*2 <= caps.AnalogueInChannels
		default:
			return 0, 0, false
		}
	}

	rotaryChannel := func(jvsInput string, player int) (int, bool) {
		if jvsInput != "rotary" || player < 1 || player > caps.RotaryChannels {
			return 0, false
		}
		return player - 1, true
	}

	return input.Router{
		Switch:   switchBit,
		Analogue: analogueChannel,
		Rotary:   rotaryChannel,
		CoinName: "coin",
	}
}
