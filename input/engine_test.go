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

import "testing"

func TestBuildPairingLinksXAndYForSamePlayer(t *testing.T) {
	table := map[int]ResolvedMapping{
		0x00: {JVSInput: "analog-x", JVSPlayer: 1, Kind: OutAnalogue},
		0x01: {JVSInput: "analog-y", JVSPlayer: 1, Kind: OutAnalogue},
		0x02: {JVSInput: "analog-x", JVSPlayer: 2, Kind: OutAnalogue},
		0x03: {JVSInput: "throttle", JVSPlayer: 1, Kind: OutAnalogue},
	}
	pairs := buildPairing(table)

	if pairs[0x00] != 0x01 {
		t.Fatalf("x should pair with y, got %v", pairs[0x00])
	}
	if pairs[0x01] != 0x00 {
		t.Fatalf("y should pair with x, got %v", pairs[0x01])
	}
	if _, ok := pairs[0x02]; ok {
		t.Fatal("player 2's lone x axis should have no pairing")
	}
	if _, ok := pairs[0x03]; ok {
		t.Fatal("throttle is not a stick axis and should not be paired")
	}
}

type engineSink struct {
	switches map[[2]int]bool
	analogue map[int]uint16
}

func newEngineSink() *engineSink {
	return &engineSink{switches: map[[2]int]bool{}, analogue: map[int]uint16{}}
}

func (s *engineSink) SetSwitch(word int, bit uint, value bool) { s.switches[[2]int{word, int(bit)}] = value }
func (s *engineSink) SetAnalogue(channel int, value uint16)    { s.analogue[channel] = value }
func (s *engineSink) SetGun(idx, axis int, value uint16)       {}
func (s *engineSink) SetOffScreen(idx int, offScreen bool)     {}
func (s *engineSink) AddRotary(channel int, delta int32)       {}
func (s *engineSink) AddCoin(slot int, delta int)              {}

func TestDeviceLoopDispatchAppliesDeadzoneAcrossPairedAxes(t *testing.T) {
	d := &Device{
		Name: "test-stick",
		absAxes: map[int]AbsInfo{
			0x00: {Min: -32768, Max: 32767},
			0x01: {Min: -32768, Max: 32767},
		},
	}
	table := map[int]ResolvedMapping{
		0x00: {JVSInput: "analog-x", JVSPlayer: 1, Kind: OutAnalogue, Multiplier: 1},
		0x01: {JVSInput: "analog-y", JVSPlayer: 1, Kind: OutAnalogue, Multiplier: 1},
	}
	router := Router{
		Analogue: func(jvsInput string, player int) (int, int, bool) {
			if jvsInput == "analog-x" {
				return 0, 16, true
			}
			return 1, 16, true
		},
	}
	sink := newEngineSink()
	deadzones := [4]float64{0.2, 0, 0, 0}
	loop := NewDeviceLoop(d, table, router, sink, deadzones)

	// both axes centred: well within deadzone, should collapse to 0.5 scale
	loop.lastRaw[0x01] = 0
	loop.dispatch(RawEvent{Kind: EventAbs, Code: 0x00, Value: 0}, table[0x00])

	if sink.analogue[0] == 0 {
		t.Fatalf("centred stick should scale near mid-range, not 0")
	}
}
