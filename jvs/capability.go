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

package jvs

// capability tags, written as 4-byte records [tag, arg0, arg1, arg2] and
// terminated by capEnd.
const (
	capPlayers    = 0x01
	capCoins      = 0x02
	capAnalogIn   = 0x03
	capRotary     = 0x04
	capKeypad     = 0x05
	capLightgun   = 0x06
	capGPI        = 0x07
	capCard       = 0x10
	capHopper     = 0x11
	capGPO        = 0x12
	capAnalogOut  = 0x13
	capDisplay    = 0x14
	capBackup     = 0x20
	capEnd        = 0x00
)

// writeCapabilities appends the capability report (excluding the leading
// REPORT_SUCCESS byte, which the caller has already written) to resp,
// then the terminator.
func writeCapabilities(resp *responseBuilder, caps Capabilities) error {
	feature := func(tag, a0, a1, a2 byte) error {
		return resp.append(tag, a0, a1, a2)
	}

	if caps.Players > 0 {
		if err := feature(capPlayers, byte(caps.Players), byte(caps.SwitchesPerPlayer), 0x00); err != nil {
			return err
		}
	}
	if caps.CoinSlots > 0 {
		if err := feature(capCoins, byte(caps.CoinSlots), 0x00, 0x00); err != nil {
			return err
		}
	}
	if caps.AnalogueInChannels > 0 {
		if err := feature(capAnalogIn, byte(caps.AnalogueInChannels), byte(caps.AnalogueInBits), 0x00); err != nil {
			return err
		}
	}
	if caps.RotaryChannels > 0 {
		if err := feature(capRotary, byte(caps.RotaryChannels), 0x00, 0x00); err != nil {
			return err
		}
	}
	if caps.Keypad {
		if err := feature(capKeypad, 0x00, 0x00, 0x00); err != nil {
			return err
		}
	}
	if caps.GunChannels > 0 {
		if err := feature(capLightgun, byte(caps.GunXBits), byte(caps.GunYBits), byte(caps.GunChannels)); err != nil {
			return err
		}
	}
	if caps.GeneralPurposeInputs > 0 {
		if err := feature(capGPI, 0x00, byte(caps.GeneralPurposeInputs), 0x00); err != nil {
			return err
		}
	}
	if caps.CardSlots > 0 {
		if err := feature(capCard, byte(caps.CardSlots), 0x00, 0x00); err != nil {
			return err
		}
	}
	if caps.Hoppers > 0 {
		if err := feature(capHopper, byte(caps.Hoppers), 0x00, 0x00); err != nil {
			return err
		}
	}
	if caps.GeneralPurposeOutputs > 0 {
		if err := feature(capGPO, byte(caps.GeneralPurposeOutputs), 0x00, 0x00); err != nil {
			return err
		}
	}
	if caps.AnalogueOutChannels > 0 {
		if err := feature(capAnalogOut, byte(caps.AnalogueOutChannels), 0x00, 0x00); err != nil {
			return err
		}
	}
	if caps.DisplayOutColumns > 0 {
		if err := feature(capDisplay, byte(caps.DisplayOutColumns), byte(caps.DisplayOutRows), byte(caps.DisplayOutEncodings)); err != nil {
			return err
		}
	}
	if caps.Backup {
		if err := feature(capBackup, 0x00, 0x00, 0x00); err != nil {
			return err
		}
	}

	return resp.appendByte(capEnd)
}
