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

import "sync/atomic"

// Capabilities describes a single emulated board's fixed feature set, as
// reported by CMD_CAPABILITIES and consulted to size every read/write
// response. A zero count disables the corresponding feature.
type Capabilities struct {
	Name string // display name
	ID   string // identification string, NUL-terminated on the wire, <=100 bytes

	CommandVersion byte
	JVSVersion     byte
	CommsVersion   byte

	Players        int
	SwitchesPerPlayer int

	CoinSlots int

	AnalogueInChannels int
	AnalogueInBits     int // [0,16]

	RotaryChannels int

	Keypad bool

	GunChannels int
	GunXBits    int
	GunYBits    int

	GeneralPurposeInputs int

	CardSlots             int
	Hoppers               int
	GeneralPurposeOutputs int
	AnalogueOutChannels   int
	DisplayOutRows        int
	DisplayOutColumns     int
	DisplayOutEncodings   int

	Backup bool

	// RightAlign, when set, right-aligns analog/gun values inside the
	// 16-bit wire field instead of the default left-align.
	RightAlign bool
}

// restBits returns 16-advertisedBits, used to left-align (or, when
// RightAlign is set, leave alone) a value inside a 16-bit field.
func restBits(bits int) int {
	r := 16 - bits
	if r < 0 {
		return 0
	}
	if r > 16 {
		return 16
	}
	return r
}

// State is the live, mutable state of one emulated board. Switch words,
// analog/gun/rotary channels are written by input-engine readers and
// sampled by the protocol engine; coin counters are written by both and
// must go through AddCoin/SubCoin to preserve the saturation invariant.
type State struct {
	// Switches[0] is the global/system switch byte; Switches[1..Players]
	// are per-player switch words, packed MSB-first.
	Switches []uint32

	coins []int32 // atomic, [0,16383]

	// Analogue, Gun and Rotary channels are written with single-word
	// stores so concurrent reads never see a torn value.
	Analogue []uint32
	Gun      []uint32 // X0,Y0,X1,Y1,...
	Rotary   []uint32 // 16-bit signed accumulators stored as uint32

	OffScreen []uint32 // one flag per gun, 0 or 1
}

// NewState allocates live state sized to match caps.
func NewState(caps Capabilities) *State {
	players := caps.Players
	if players < 1 {
		players = 1
	}
	return &State{
		Switches:  make([]uint32, players+1),
		coins:     make([]int32, maxInt(caps.CoinSlots, 1)),
		Analogue:  make([]uint32, maxInt(caps.AnalogueInChannels, 1)),
		Gun:       make([]uint32, maxInt(caps.GunChannels, 1)*2),
		Rotary:    make([]uint32, maxInt(caps.RotaryChannels, 1)),
		OffScreen: make([]uint32, maxInt(caps.GunChannels, 1)),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

const maxCoin = 16383

// AddCoin clamp-adds delta coins to slot, saturating at 16383.
func (s *State) AddCoin(slot int, delta int) {
	for {
		old := atomic.LoadInt32(&s.coins[slot])
		next := int32(delta) + old
		if next > maxCoin {
			next = maxCoin
		}
		if next < 0 {
			next = 0
		}
		if atomic.CompareAndSwapInt32(&s.coins[slot], old, next) {
			return
		}
	}
}

// SubCoin clamp-subtracts delta coins from slot, saturating at 0.
func (s *State) SubCoin(slot int, delta int) {
	s.AddCoin(slot, -delta)
}

// Coin returns the current count for slot.
func (s *State) Coin(slot int) int {
	return int(atomic.LoadInt32(&s.coins[slot]))
}

// SetSwitch sets or clears bit within word idx (0 = system word).
func (s *State) SetSwitch(word int, bit uint, value bool) {
	for {
		old := atomic.LoadUint32(&s.Switches[word])
		var next uint32
		if value {
			next = old | (1 << bit)
		} else {
			next = old &^ (1 << bit)
		}
		if atomic.CompareAndSwapUint32(&s.Switches[word], old, next) {
			return
		}
	}
}

// SetAnalogue stores the raw (unshifted) channel value.
func (s *State) SetAnalogue(channel int, value uint16) {
	atomic.StoreUint32(&s.Analogue[channel], uint32(value))
}

// SetGun stores the raw (unshifted) value for gun channel axis (0=X,1=Y)
// of gun index idx.
func (s *State) SetGun(idx int, axis int, value uint16) {
	atomic.StoreUint32(&s.Gun[idx*2+axis], uint32(value))
}

// SetOffScreen marks gun idx as off-screen (true) or on-screen (false).
func (s *State) SetOffScreen(idx int, offScreen bool) {
	v := uint32(0)
	if offScreen {
		v = 1
	}
	atomic.StoreUint32(&s.OffScreen[idx], v)
}

// AddRotary accumulates delta into channel's 16-bit signed accumulator,
// wrapping modulo 2^16.
func (s *State) AddRotary(channel int, delta int32) {
	for {
		old := atomic.LoadUint32(&s.Rotary[channel])
		next := (old + uint32(delta)) & 0xFFFF
		if atomic.CompareAndSwapUint32(&s.Rotary[channel], old, next) {
			return
		}
	}
}

// Node represents one emulated board in a daisy chain. The chain is a
// singly linked, head-to-tail list with length fixed at startup; Next is
// nil for the last node. The protocol engine owns every node; input and
// FFB workers hold only a *State handle plus the player index they
// write to.
type Node struct {
	DeviceID     int32 // atomic; -1 = unassigned
	Capabilities Capabilities
	State        *State
	Next         *Node
}

// NewNode allocates a node with capabilities caps, unassigned.
func NewNode(caps Capabilities) *Node {
	return &Node{
		DeviceID:     -1,
		Capabilities: caps,
		State:        NewState(caps),
	}
}

func (n *Node) assigned() bool {
	return atomic.LoadInt32(&n.DeviceID) != -1
}

// restBitsFor returns the rest-bits for analog, gun X and gun Y channels
// given this node's capabilities, honouring RightAlign.
func (n *Node) restBitsFor() (analogue, gunX, gunY int) {
	if n.Capabilities.RightAlign {
		return 0, 0, 0
	}
	return restBits(n.Capabilities.AnalogueInBits), restBits(n.Capabilities.GunXBits), restBits(n.Capabilities.GunYBits)
}
