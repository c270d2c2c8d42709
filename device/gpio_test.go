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

package device

import (
	"os"
	"testing"
)

func TestSenseLineSwitchedOutput(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sense")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := f.Name()
	f.Close()

	s, err := OpenSenseLine(path, SwitchedOutput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if err := s.SetSenseLine(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "1\n" {
		t.Fatalf("got %q, want %q", got, "1\n")
	}
}

func TestSenseLineFloatingInputIsNoop(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sense")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := f.Name()
	f.Close()

	s, err := OpenSenseLine(path, FloatingInput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if err := s.SetSenseLine(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no write in floating-input mode, got %q", got)
	}
}
