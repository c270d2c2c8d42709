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

package ffb

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/jvsemu/errors"
)

// SDLHaptic adapts an *sdl.Haptic to the Haptic interface, translating
// device-agnostic EffectDescriptors into sdl.HapticEffect structures.
type SDLHaptic struct {
	h *sdl.Haptic
}

// OpenSDLHaptic probes joystick index for haptic support, returning nil
// (not an error) if the device advertises no FFB capability at all.
func OpenSDLHaptic(joystickIndex int) (*SDLHaptic, error) {
	joy := sdl.JoystickOpen(joystickIndex)
	if joy == nil {
		return nil, errors.Errorf(errors.DeviceOpen, "no such joystick")
	}
	h := sdl.HapticOpenFromJoystick(joy)
	if h == nil {
		return nil, nil
	}
	return &SDLHaptic{h: h}, nil
}

// Capabilities implements Haptic.
func (s *SDLHaptic) Capabilities() Capabilities {
	q := s.h.Query()
	return Capabilities{
		Constant: q&sdl.HAPTIC_CONSTANT != 0,
		Spring:   q&sdl.HAPTIC_SPRING != 0,
		Damper:   q&sdl.HAPTIC_DAMPER != 0,
		Rumble:   q&sdl.HAPTIC_SINE != 0,
	}
}

// Upload implements Haptic.
func (s *SDLHaptic) Upload(d EffectDescriptor) (int, error) {
	effect := sdl.HapticEffect{}

	switch d.Type {
	case CmdConstant:
		effect.Type = sdl.HAPTIC_CONSTANT
		effect.Constant = &sdl.HapticConstant{
			Type:      sdl.HAPTIC_CONSTANT,
			Direction: sdl.HapticDirection{Type: sdl.HAPTIC_POLAR, Dir: [3]int32{int32(d.Direction)}},
			Length:    d.ReplayLength,
			Level:     d.Level,
		}
	case CmdSpring:
		effect.Type = sdl.HAPTIC_SPRING
		effect.Condition = &sdl.HapticCondition{
			Type:       sdl.HAPTIC_SPRING,
			Length:     d.ReplayLength,
			RightSat:   [3]uint16{0x7FFF},
			LeftSat:    [3]uint16{0x7FFF},
			RightCoeff: [3]int16{int16(d.RightCoeff)},
			LeftCoeff:  [3]int16{int16(d.LeftCoeff)},
		}
	case CmdDamper:
		effect.Type = sdl.HAPTIC_DAMPER
		effect.Condition = &sdl.HapticCondition{
			Type:       sdl.HAPTIC_DAMPER,
			Length:     d.ReplayLength,
			RightSat:   [3]uint16{0x7FFF},
			LeftSat:    [3]uint16{0x7FFF},
			RightCoeff: [3]int16{int16(d.RightCoeff)},
			LeftCoeff:  [3]int16{int16(d.LeftCoeff)},
		}
	case CmdRumble:
		effect.Type = sdl.HAPTIC_LEFTRIGHT
		effect.Leftright = &sdl.HapticLeftRight{
			Type:            sdl.HAPTIC_LEFTRIGHT,
			Length:          uint32(d.ReplayLength),
			LargeMagnitude:  d.StrongMagnitude,
			SmallMagnitude:  d.WeakMagnitude,
		}
	}

	id, err := s.h.NewEffect(&effect)
	if err != nil {
		return 0, errors.Errorf(errors.FFBError, err)
	}
	return int(id), nil
}

// Play implements Haptic.
func (s *SDLHaptic) Play(id int) error {
	if err := s.h.RunEffect(int32(id), 1); err != nil {
		return errors.Errorf(errors.FFBError, err)
	}
	return nil
}

// Destroy implements Haptic.
func (s *SDLHaptic) Destroy(id int) error {
	s.h.DestroyEffect(int32(id))
	return nil
}

// StopAll implements Haptic.
func (s *SDLHaptic) StopAll() error {
	if err := s.h.StopEffects(); err != nil {
		return errors.Errorf(errors.FFBError, err)
	}
	return nil
}

// Close releases the underlying SDL haptic handle.
func (s *SDLHaptic) Close() {
	s.h.Close()
}
