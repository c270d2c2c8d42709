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

// irInvalid is the raw axis value a Wii Remote IR camera reports for a
// source point it is not currently tracking.
const irInvalid = 1023

// screenCentreX, screenCentreY and irScale are the IR-camera-to-screen
// calibration constants: the camera's sensor-bar-relative origin is its
// own centre (512, 384) at a resolution of 1023 per axis.
const (
	screenCentreX = 512
	screenCentreY = 384
	irScale       = 1023
)

// IRSample is one pair of raw IR source coordinates as reported by the
// two LED clusters on the sensor bar.
type IRSample struct {
	X0, Y0 int32
	X1, Y1 int32
}

// valid reports whether all four coordinates carry a real detection
// (none of them is the camera's not-found sentinel).
func (s IRSample) valid() bool {
	return s.X0 != irInvalid && s.Y0 != irInvalid && s.X1 != irInvalid && s.Y1 != irInvalid
}

// LightgunResult is the resolved on-screen position (or off-screen flag)
// for one IR sample.
type LightgunResult struct {
	OffScreen bool
	X, Y      float64 // in [0, 1] when !OffScreen
}

// ResolveLightgun orders the two IR points by larger x, derives the
// rotation implied by the line between them (so a tilted remote still
// reports a level aim point), and projects the midpoint into normalised
// screen coordinates centred on (screenCentreX, screenCentreY).
func ResolveLightgun(s IRSample) LightgunResult {
	if !s.valid() {
		return LightgunResult{OffScreen: true}
	}

	oneX, oneY, otherX, otherY := float64(s.X0), float64(s.Y0), float64(s.X1), float64(s.Y1)
	if otherX > oneX {
		oneX, otherX = otherX, oneX
		oneY, otherY = otherY, oneY
	}

	angle := math.Atan2(oneY-otherY, oneX-otherX)
	midX := (oneX + otherX) / 2
	midY := (oneY + otherY) / 2

	cx := midX - screenCentreX
	cy := midY - screenCentreY

	cos, sin := math.Cos(-angle), math.Sin(-angle)
	rx := cx*cos - cy*sin
	ry := cx*sin + cy*cos

	x := 0.5 + rx/irScale
	y := 0.5 + ry/irScale

	if x < 0 || x > 1 || y < 0 || y > 1 {
		return LightgunResult{OffScreen: true}
	}
	return LightgunResult{X: x, Y: y}
}

// ApplyLightgun writes a resolved gun position to the off-screen switch
// and the analog/gun channels, honouring reverse on each axis; an
// off-screen result zeroes both channels instead.
func ApplyLightgun(res LightgunResult, router Router, rmX, rmY ResolvedMapping, gunIndex int, sink Sink) {
	sink.SetOffScreen(gunIndex, res.OffScreen)

	if res.OffScreen {
		writeGunAxis(router, rmX, 0, sink)
		writeGunAxis(router, rmY, 0, sink)
		return
	}

	x := ApplyReverse(res.X, rmX.Reverse)
	y := ApplyReverse(res.Y, rmY.Reverse)
	writeGunAxis(router, rmX, x, sink)
	writeGunAxis(router, rmY, y, sink)
}

func writeGunAxis(router Router, rm ResolvedMapping, scaled float64, sink Sink) {
	channel, bits, ok := router.Analogue(rm.JVSInput, rm.JVSPlayer)
	if !ok {
		return
	}
	rest := restBits(bits)
	// v is a bits-wide raw value; the protocol engine applies restBits
	// itself to left-align it within the 16-bit wire field on read.
	v := uint16(scaled * float64(uint32(1)<<uint(16-rest)-1))
	sink.SetAnalogue(channel, v)
	sink.SetGun(rm.JVSPlayer-1, gunAxis(rm.JVSInput), v)
}
