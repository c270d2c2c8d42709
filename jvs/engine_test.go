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

import (
	"bytes"
	"testing"
)

// pipeDevice is an in-memory Reader/Writer pair driving the engine from a
// preloaded request stream, capturing every response written.
type pipeDevice struct {
	*byteReader
	responses [][]byte
}

func (p *pipeDevice) Write(b []byte) (int, error) {
	cp := make([]byte, len(b))
	copy(cp, b)
	p.responses = append(p.responses, cp)
	return len(b), nil
}

func headCaps() Capabilities {
	return Capabilities{
		Name:               "jvsemu test board",
		ID:                 "jvsemu;test;v1.0",
		CommandVersion:     0x13,
		JVSVersion:         0x30,
		CommsVersion:       0x10,
		Players:            1,
		SwitchesPerPlayer:  8,
		CoinSlots:          1,
		AnalogueInChannels: 2,
		AnalogueInBits:     10,
	}
}

func TestEngineResetAndAssignAddr(t *testing.T) {
	head := NewNode(headCaps())
	dev := &pipeDevice{byteReader: &byteReader{b: []byte{
		0xE0, 0xFF, 0x03, 0xF0, 0xD9, 0xCB, // RESET
		0xE0, 0xFF, 0x03, 0xF1, 0x01, 0xF4, // ASSIGN_ADDR(1)
	}}}
	e := NewEngine(head, dev, nil)

	if err := e.ProcessPacket(); err != nil {
		t.Fatalf("reset: unexpected error: %v", err)
	}
	if err := e.ProcessPacket(); err != nil {
		t.Fatalf("assign: unexpected error: %v", err)
	}

	if head.DeviceID != 1 {
		t.Fatalf("head.DeviceID = %d, want 1", head.DeviceID)
	}
	if len(dev.responses) != 1 {
		t.Fatalf("expected exactly one response (RESET has none), got %d", len(dev.responses))
	}
	want := []byte{0xE0, 0x00, 0x03, 0x01, 0x01, 0x05}
	if !bytes.Equal(dev.responses[0], want) {
		t.Fatalf("got % x, want % x", dev.responses[0], want)
	}
}

func TestEngineReadSwitches(t *testing.T) {
	head := NewNode(headCaps())
	head.DeviceID = 1
	head.State.SetSwitch(0, 7, true)  // system/test bit, 0x80
	head.State.SetSwitch(1, 15, true) // player-1 start bit, upper byte

	dev := &pipeDevice{byteReader: &byteReader{b: []byte{
		0xE0, 0x01, 0x04, 0x20, 0x01, 0x02, 0x28,
	}}}
	e := NewEngine(head, dev, nil)
	if err := e.ProcessPacket(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dev.responses) != 1 {
		t.Fatalf("expected one response, got %d", len(dev.responses))
	}
	r := &byteReader{b: dev.responses[0]}
	pkt, err := ReadPacket(r)
	if err != nil {
		t.Fatalf("could not parse response: %v", err)
	}
	// payload: STATUS_SUCCESS, REPORT_SUCCESS, system=0x80, player1 hi=0x80, player1 lo=0x00
	want := []byte{0x01, 0x01, 0x80, 0x80, 0x00}
	for i, w := range want {
		if pkt.Data[i] != w {
			t.Fatalf("payload[%d] = %#02x, want %#02x", i, pkt.Data[i], w)
		}
	}
}

func TestEngineCoinSaturation(t *testing.T) {
	head := NewNode(headCaps())
	head.DeviceID = 1
	head.State.AddCoin(0, 16380)

	// WRITE_COINS slot=1 amount=100: cmd=0x35,0x01,0x00,0x64
	req := &Packet{Destination: 1, Length: 5}
	req.Data[0] = cmdWriteCoins
	req.Data[1] = 0x01
	req.Data[2] = 0x00
	req.Data[3] = 0x64

	w := &bufWriter{}
	if err := WritePacket(w, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dev := &pipeDevice{byteReader: &byteReader{b: w.Bytes()}}
	e := NewEngine(head, dev, nil)
	if err := e.ProcessPacket(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if head.State.Coin(0) != maxCoin {
		t.Fatalf("coin(0) = %d, want %d", head.State.Coin(0), maxCoin)
	}
}

func TestEngineRetransmit(t *testing.T) {
	head := NewNode(headCaps())
	head.DeviceID = 1

	idReq := &Packet{Destination: 1, Length: 2}
	idReq.Data[0] = cmdRequestID
	w1 := &bufWriter{}
	if err := WritePacket(w1, idReq); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	retransReq := &Packet{Destination: 1, Length: 2}
	retransReq.Data[0] = cmdRetransmit
	w2 := &bufWriter{}
	if err := WritePacket(w2, retransReq); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stream := append(append([]byte{}, w1.Bytes()...), w2.Bytes()...)
	dev := &pipeDevice{byteReader: &byteReader{b: stream}}
	e := NewEngine(head, dev, nil)

	if err := e.ProcessPacket(); err != nil {
		t.Fatalf("id query: unexpected error: %v", err)
	}
	if err := e.ProcessPacket(); err != nil {
		t.Fatalf("retransmit: unexpected error: %v", err)
	}

	if len(dev.responses) != 2 {
		t.Fatalf("expected two responses, got %d", len(dev.responses))
	}
	if !bytes.Equal(dev.responses[0], dev.responses[1]) {
		t.Fatalf("retransmit differs from original response:\n%x\n%x", dev.responses[0], dev.responses[1])
	}
}

func TestEngineNotForUs(t *testing.T) {
	head := NewNode(headCaps())
	head.DeviceID = 1

	req := &Packet{Destination: 2, Length: 2}
	req.Data[0] = cmdRequestID
	w := &bufWriter{}
	if err := WritePacket(w, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dev := &pipeDevice{byteReader: &byteReader{b: w.Bytes()}}
	e := NewEngine(head, dev, nil)
	if err := e.ProcessPacket(); err == nil {
		t.Fatalf("expected not-for-us error")
	}
	if len(dev.responses) != 0 {
		t.Fatalf("expected no response, got %d", len(dev.responses))
	}
}

type stubFFBStatus struct {
	status [4]byte
}

func (s *stubFFBStatus) Enqueue(player int, raw []byte) {}
func (s *stubFFBStatus) Status(player int) [4]byte      { return s.status }

func TestEngineNamcoMotorStatus(t *testing.T) {
	head := NewNode(headCaps())
	head.DeviceID = 1

	req := &Packet{Destination: 1, Length: 3}
	req.Data[0] = cmdNamcoSpecific
	req.Data[1] = 0x21
	w := &bufWriter{}
	if err := WritePacket(w, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dev := &pipeDevice{byteReader: &byteReader{b: w.Bytes()}}
	e := NewEngine(head, dev, nil)
	e.FFB = &stubFFBStatus{status: [4]byte{0x01, 0x80, 0x10, 0x40}}

	if err := e.ProcessPacket(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.responses) != 1 {
		t.Fatalf("expected one response, got %d", len(dev.responses))
	}

	pkt, err := ReadPacket(&byteReader{b: dev.responses[0]})
	if err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	got := pkt.Data[:6]
	want := []byte{reportSuccess, reportSuccess, 0x01, 0x80, 0x10, 0x40}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}
