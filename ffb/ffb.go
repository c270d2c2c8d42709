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

// Package ffb is the force-feedback engine: one worker per bound
// controller, a bounded command queue, a bounded effect ring, and an
// emulation-mode fallback for controllers with no haptic device.
package ffb

import (
	"sync"
	"time"

	"github.com/jetsetilly/jvsemu/errors"
	"github.com/jetsetilly/jvsemu/logger"
)

const (
	queueSize = 64
	ringSize  = 16
)

// Command types, decoded from the raw bytes of a WRITE_GPO protocol
// command.
const (
	CmdStopAll  = 0x00
	CmdConstant = 0x01
	CmdSpring   = 0x02
	CmdDamper   = 0x03
	CmdRumble   = 0x04

	// NAMCO wheel sub-commands, used in emulation mode.
	CmdWheelReset  = 0x30
	CmdWheelTarget = 0x31
)

// Command is a single decoded force-feedback instruction.
type Command struct {
	Type     byte
	Strength byte // 0-255
	Degrees  int  // direction, CONSTANT only
	Duration time.Duration
	Raw      []byte // up to 16 bytes, preserved for emulation-mode tracking
}

// Haptic is the capability-gated effect device a Controller binds to. A
// real implementation wraps a go-sdl2 *sdl.Haptic; tests use a stub.
type Haptic interface {
	Capabilities() Capabilities
	Upload(e EffectDescriptor) (int, error)
	Play(id int) error
	Destroy(id int) error
	StopAll() error
}

// Capabilities mirrors the four effect families the protocol can request.
type Capabilities struct {
	Constant bool
	Spring   bool
	Damper   bool
	Rumble   bool
}

func (c Capabilities) supports(cmdType byte) bool {
	switch cmdType {
	case CmdConstant:
		return c.Constant
	case CmdSpring:
		return c.Spring
	case CmdDamper:
		return c.Damper
	case CmdRumble:
		return c.Rumble
	}
	return false
}

// EffectDescriptor is the device-agnostic parameter set derived from a
// Command, ready for a Haptic implementation to translate into its native
// effect structure.
type EffectDescriptor struct {
	Type          byte
	Level         int16  // CONSTANT signed magnitude
	Direction     uint16 // CONSTANT direction, degrees * 0xFFFF/360
	LeftCoeff     uint16 // SPRING/DAMPER
	RightCoeff    uint16
	StrongMagnitude uint16 // RUMBLE
	WeakMagnitude   uint16
	ReplayLength  uint16 // ms, 0 => 1000
}

// NewEffectDescriptor converts cmd into device-agnostic parameters per the
// fixed scaling rules.
func NewEffectDescriptor(cmd Command) EffectDescriptor {
	d := EffectDescriptor{Type: cmd.Type}
	d.ReplayLength = uint16(cmd.Duration / time.Millisecond)
	if d.ReplayLength == 0 {
		d.ReplayLength = 1000
	}

	switch cmd.Type {
	case CmdConstant:
		d.Level = int16(int(cmd.Strength) * 32767 / 255)
		d.Direction = uint16(cmd.Degrees * 0xFFFF / 360)
	case CmdSpring, CmdDamper:
		coeff := uint16(int(cmd.Strength) * 0x7FFF / 255)
		d.LeftCoeff = coeff
		d.RightCoeff = coeff
	case CmdRumble:
		d.StrongMagnitude = uint16(int(cmd.Strength) * 0xFFFF / 255)
		d.WeakMagnitude = d.StrongMagnitude
	}
	return d
}

// effectRing is a bounded FIFO of live effect ids, evicting (and
// destroying on the device) the oldest entry on overflow.
type effectRing struct {
	ids []int
}

func (r *effectRing) push(h Haptic, id int) {
	if len(r.ids) >= ringSize {
		oldest := r.ids[0]
		r.ids = r.ids[1:]
		_ = h.Destroy(oldest)
	}
	r.ids = append(r.ids, id)
}

// commandQueue is a bounded, mutex-protected ring that drops the oldest
// command on overflow.
type commandQueue struct {
	mu    sync.Mutex
	items []Command
}

func (q *commandQueue) push(c Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= queueSize {
		q.items = q.items[1:]
	}
	q.items = append(q.items, c)
}

func (q *commandQueue) pop() (Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Command{}, false
	}
	c := q.items[0]
	q.items = q.items[1:]
	return c, true
}

// emulation tracks the software wheel model used when no haptic device is
// bound: position and target in [-100, 100], integrating at 1 unit/ms.
type emulation struct {
	mu          sync.Mutex
	position    float64
	target      float64
	lastCommand time.Time
	lastUpdate  time.Time
	lastBytes   []byte
}

func (e *emulation) apply(cmd Command, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)
	e.lastCommand = now
	e.lastBytes = cmd.Raw

	if len(cmd.Raw) == 0 {
		return
	}
	switch cmd.Raw[0] {
	case CmdWheelReset:
		e.position = 0
		e.target = 0
	case CmdWheelTarget:
		if len(cmd.Raw) < 2 {
			return
		}
		p := cmd.Raw[1]
		switch {
		case p == 0x00 || p == 0x80:
			e.target = 0
		case p < 0x80:
			t := -50 - float64(p)/2
			if t < -100 {
				t = -100
			}
			e.target = t
		default:
			t := 50 + float64(p-0x80)/2
			if t > 100 {
				t = 100
			}
			e.target = t
		}
	}
}

// advance integrates position toward target at 1 unit/ms over the time
// elapsed since the previous advance. Caller must hold e.mu.
func (e *emulation) advance(now time.Time) {
	last := e.lastUpdate
	e.lastUpdate = now
	if last.IsZero() {
		return
	}
	delta := float64(now.Sub(last)) / float64(time.Millisecond)
	if delta <= 0 {
		return
	}
	if e.position < e.target {
		e.position += delta
		if e.position > e.target {
			e.position = e.target
		}
	} else if e.position > e.target {
		e.position -= delta
		if e.position < e.target {
			e.position = e.target
		}
	}
	if e.position > 100 {
		e.position = 100
	}
	if e.position < -100 {
		e.position = -100
	}
}

// Status returns the 5-byte motor status response (excluding the leading
// REPORT_SUCCESS the caller has already written): motor-status byte,
// position big-endian, torque.
func (e *emulation) Status(now time.Time) [4]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(now)

	moving := e.position != e.target
	age := now.Sub(e.lastCommand)
	busy := byte(0x00)
	if moving && age < 500*time.Millisecond {
		busy = 0x01
	}

	encoded := uint16(0x8000 + int32(e.position*327))
	return [4]byte{busy, byte(encoded >> 8), byte(encoded), 0x40}
}

// Controller is one force-feedback endpoint: a command queue, an effect
// ring, and either a bound Haptic device or emulation-mode state.
type Controller struct {
	queue commandQueue
	ring  effectRing
	emu   emulation

	haptic Haptic // nil => emulation mode
	stop   chan struct{}
}

// NewController creates an unbound (emulation-mode) controller.
func NewController() *Controller {
	return &Controller{stop: make(chan struct{})}
}

// Bind attaches a probed haptic device. If h is nil the controller stays
// in emulation mode.
func (c *Controller) Bind(h Haptic) {
	c.haptic = h
}

// Enqueue decodes raw into a Command and queues it for this controller. It
// takes no player index; cmd/jvsemu's ffbRouter implements jvs.FFBSink and
// picks the Controller for each player.
func (c *Controller) Enqueue(raw []byte) {
	if len(raw) == 0 {
		return
	}
	cmd := Command{Type: raw[0], Raw: append([]byte(nil), raw...)}
	if len(cmd.Raw) > 16 {
		cmd.Raw = cmd.Raw[:16]
	}
	if len(raw) > 1 {
		cmd.Strength = raw[1]
	}
	if len(raw) > 2 {
		cmd.Degrees = int(raw[2]) * 360 / 255
	}
	c.queue.push(cmd)
}

// Run drains the command queue until stopped, sleeping 10ms between polls
// when the queue is empty.
func (c *Controller) Run() {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			for {
				cmd, ok := c.queue.pop()
				if !ok {
					break
				}
				c.handle(cmd)
			}
		}
	}
}

// Stop signals Run to exit at its next tick.
func (c *Controller) Stop() {
	close(c.stop)
}

func (c *Controller) handle(cmd Command) {
	if c.haptic == nil {
		c.emu.apply(cmd, time.Now())
		return
	}

	if cmd.Type == CmdStopAll {
		if err := c.haptic.StopAll(); err != nil {
			logger.Logf(logger.Allow, "ffb", "stop all: %v", err)
		}
		return
	}

	caps := c.haptic.Capabilities()
	if !caps.supports(cmd.Type) {
		logger.Log(logger.Allow, "ffb", errors.Errorf(errors.FFBNoCapability, cmd.Type))
		return
	}

	id, err := c.haptic.Upload(NewEffectDescriptor(cmd))
	if err != nil {
		logger.Logf(logger.Allow, "ffb", "upload: %v", err)
		return
	}
	c.ring.push(c.haptic, id)
	if err := c.haptic.Play(id); err != nil {
		logger.Logf(logger.Allow, "ffb", "play: %v", err)
	}
}

// Status returns the emulation-mode motor status. While a haptic device is
// bound, commands go to the device and the emulated wheel is not updated.
func (c *Controller) Status() [4]byte {
	return c.emu.Status(time.Now())
}

// Bound reports whether a haptic device is attached.
func (c *Controller) Bound() bool {
	return c.haptic != nil
}
