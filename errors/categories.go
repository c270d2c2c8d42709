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

package errors

// curated message formats used throughout the emulator, grouped by the
// component that raises them. Matches the error taxonomy in the design
// notes (transport/framing, device, configuration, input, force-feedback).
const (
	// transport / framing (jvs protocol engine)
	Timeout         = "timeout: %v"
	Checksum        = "checksum error: %v"
	WriteFail       = "write failed: %v"
	NotForUs        = "packet not for us"
	BufferOverflow  = "response buffer overflow: %v"
	UnknownCommand  = "unknown command: %#02x"
	MalformedPacket = "malformed packet: %v"

	// device (serial + gpio)
	DeviceOpen  = "device open: %v"
	DeviceClose = "device close: %v"
	SenseLine   = "sense line: %v"

	// configuration
	ConfigNotFound = "config not found: %v"
	ConfigParse    = "config parse error: %v [line %d]"

	// input engine
	InputError         = "input error: %v"
	EnumerationError   = "device enumeration error: %v"
	MappingNotFound    = "no mapping for device: %v"
	MappingDisabled    = "mapping disabled: %v"
	UnhandledEventKind = "unhandled event kind: %v"

	// force-feedback engine
	FFBError        = "ffb error: %v"
	FFBNoCapability = "ffb: device does not support effect type %v"
	FFBQueueFull    = "ffb: command queue full, dropped oldest"

	// general
	Malloc = "allocation error: %v"
)
