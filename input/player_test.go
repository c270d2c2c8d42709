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

func TestAssignPlayersSequential(t *testing.T) {
	devices := []*Device{
		{Name: "joystick-one"},
		{Name: "joystick-two"},
		{Name: "keyboard"},
	}
	got := AssignPlayers(devices, nil)
	want := []int{1, 2, 3}
	for i, a := range got {
		if a.Player != want[i] {
			t.Fatalf("device %d: player = %d, want %d", i, a.Player, want[i])
		}
	}
}

func TestAssignPlayersSplitPersonaSharesSlot(t *testing.T) {
	devices := []*Device{
		{Name: "joystick-one"},
		{Name: "guncon-3"},
		{Name: "guncon-3-out-of-screen"},
		{Name: "nintendo-wii-remote"},
		{Name: "nintendo-wii-remote-ir"},
	}
	got := AssignPlayers(devices, nil)

	if got[0].Player != 1 {
		t.Fatalf("first joystick should be player 1, got %d", got[0].Player)
	}
	if got[1].Player != 2 {
		t.Fatalf("guncon-3 should claim player 2, got %d", got[1].Player)
	}
	if got[2].Player != 2 {
		t.Fatalf("guncon-3 split persona should share player 2, got %d", got[2].Player)
	}
	if got[3].Player != 3 {
		t.Fatalf("wii remote should claim player 3, got %d", got[3].Player)
	}
	if got[4].Player != 3 {
		t.Fatalf("wii remote IR persona should share player 3, got %d", got[4].Player)
	}
}

func TestAssignPlayersFixedOverride(t *testing.T) {
	devices := []*Device{
		{Name: "joystick-one"},
		{Name: "joystick-two"},
	}
	fixed := map[string]int{"joystick-two": 1}
	got := AssignPlayers(devices, fixed)

	if got[0].Player != 1 {
		t.Fatalf("joystick-one should default to player 1, got %d", got[0].Player)
	}
	if got[1].Player != 1 {
		t.Fatalf("joystick-two should honour fixed override of 1, got %d", got[1].Player)
	}
}
