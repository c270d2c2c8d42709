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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestLoadMain(t *testing.T) {
	path := writeTemp(t, "main.cfg", `
# comment
SENSE_LINE_TYPE floating
EMULATE 1
ANALOG_DEADZONE_PLAYER_1 0.9
ANALOG_DEADZONE_PLAYER_2 0.1
`)
	m, err := LoadMain(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SenseLineType != "floating" {
		t.Fatalf("SenseLineType = %q", m.SenseLineType)
	}
	if !m.Emulate {
		t.Fatalf("Emulate = false, want true")
	}
	if m.Deadzone[0] != 0.49 {
		t.Fatalf("Deadzone[0] = %v, want clamped 0.49", m.Deadzone[0])
	}
	if m.Deadzone[1] != 0.1 {
		t.Fatalf("Deadzone[1] = %v, want 0.1", m.Deadzone[1])
	}
}

func TestLoadMainInclude(t *testing.T) {
	included := writeTemp(t, "included.cfg", "DEBUG_MODE 1\n")
	path := writeTemp(t, "main.cfg", "INCLUDE "+included+"\n")
	m, err := LoadMain(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.DebugMode {
		t.Fatalf("DebugMode = false, want true via INCLUDE")
	}
}

func TestLoadDeviceMapping(t *testing.T) {
	path := writeTemp(t, "dev.map", `
PLAYER 1
304 button-a
305 start REVERSE
0 analog-x SENSITIVITY 1.5
`)
	dm, err := LoadDeviceMapping(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dm.Player != 1 {
		t.Fatalf("Player = %d, want 1", dm.Player)
	}
	if len(dm.Mappings) != 3 {
		t.Fatalf("len(Mappings) = %d, want 3", len(dm.Mappings))
	}
	if !dm.Mappings[1].Reverse {
		t.Fatalf("Mappings[1].Reverse = false, want true")
	}
	if dm.Mappings[2].Sensitivity != 1.5 {
		t.Fatalf("Mappings[2].Sensitivity = %v, want 1.5", dm.Mappings[2].Sensitivity)
	}
}

func TestOutputMappingLastWriteWins(t *testing.T) {
	path := writeTemp(t, "game.map", `
button-a 1 button-1 1
button-a 1 button-2 1
`)
	om, err := LoadOutputMapping(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rule, ok := om.Resolve("button-a", 1)
	if !ok {
		t.Fatalf("expected a match")
	}
	if rule.JVSInput != "button-2" {
		t.Fatalf("JVSInput = %q, want button-2 (last write wins)", rule.JVSInput)
	}
}

func TestLoadRotaryMap(t *testing.T) {
	path := writeTemp(t, "rotary.map", "game1.map\ngame2.map\n")
	rm, err := LoadRotaryMap(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rm.GameMappingFiles) != 2 {
		t.Fatalf("len = %d, want 2", len(rm.GameMappingFiles))
	}
}

func TestLoadMainNotFound(t *testing.T) {
	if _, err := LoadMain(filepath.Join(t.TempDir(), "missing.cfg")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
