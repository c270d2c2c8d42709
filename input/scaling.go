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

import "math"

// ScaleAnalogue maps a raw axis value into [0, 1], applying multiplier
// before the min/max rescale and clamping the result.
func ScaleAnalogue(value, multiplier, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	v := (value*multiplier - min) / (max - min)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RadialDeadzone applies a radial deadzone of radius d (in (0, 0.5)) around
// the stick centre (0.5, 0.5). Points inside the deadzone collapse to
// centre; points outside are rescaled so the remaining travel still spans
// the full [0, 1] range, preserving angle.
func RadialDeadzone(x, y, d float64) (float64, float64) {
	dx := x - 0.5
	dy := y - 0.5
	mag := math.Hypot(dx, dy)
	if mag < d {
		return 0.5, 0.5
	}
	if mag == 0 {
		return 0.5, 0.5
	}

	scaled := (mag - d) / (0.5 - d) * 0.5
	edge := 0.5 * mag / math.Max(math.Abs(dx), math.Abs(dy))
	if scaled > edge {
		// clamp to the unit square's edge along this angle rather than
		// overshoot the representable [0,1] range
		scaled = edge
	}
	ratio := scaled / mag
	return 0.5 + dx*ratio, 0.5 + dy*ratio
}

// ApplyReverse inverts v around the midpoint of [0, 1].
func ApplyReverse(v float64, reverse bool) float64 {
	if !reverse {
		return v
	}
	return 1 - v
}

// HatState is the decoded pair of logical buttons for a single HAT axis.
type HatState struct {
	Min, Max bool
}

// DecodeHat compares a raw HAT axis value against its advertised min/max:
// value==min asserts the primary (Min) switch, value==max asserts the
// secondary (Max) switch, any other value clears both.
func DecodeHat(value, min, max int32) HatState {
	switch value {
	case min:
		return HatState{Min: true}
	case max:
		return HatState{Max: true}
	default:
		return HatState{}
	}
}

// DecodeAbsSwitch treats a raw ABS value mapped to a digital output as
// pressed unless it equals axis-min.
func DecodeAbsSwitch(value, min, max int32) bool {
	return value != min
}
