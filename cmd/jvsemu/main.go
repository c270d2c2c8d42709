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

// Command jvsemu runs the JVS I/O board emulator: it binds a serial link
// and GPIO sense line to a fixed daisy chain of emulated boards, spawns a
// reader goroutine per enumerated input device, and drives any bound
// force-feedback controllers, all under one cancellable supervisor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jetsetilly/jvsemu/config"
	"github.com/jetsetilly/jvsemu/device"
	"github.com/jetsetilly/jvsemu/errors"
	"github.com/jetsetilly/jvsemu/ffb"
	"github.com/jetsetilly/jvsemu/input"
	"github.com/jetsetilly/jvsemu/jvs"
	"github.com/jetsetilly/jvsemu/logger"
	"github.com/jetsetilly/jvsemu/paths"
)

func main() {
	serialPath := flag.String("serial", "/dev/ttyUSB0", "RS-485 serial device")
	sensePath := flag.String("sense", "", "GPIO sense-line node (empty disables it)")
	configPath := flag.String("config", "", "main config file (defaults to the resolved .jvsemu path)")
	gameName := flag.String("game", "", "output mapping name to load from the games directory")
	flag.Parse()

	if err := run(*serialPath, *sensePath, *configPath, *gameName); err != nil {
		fmt.Fprintln(os.Stderr, "jvsemu:", err)
		os.Exit(1)
	}
}

func run(serialPath, sensePath, configPath, gameName string) error {
	if configPath == "" {
		p, err := paths.ResourcePath("", "config.main")
		if err != nil {
			return err
		}
		configPath = p
	}
	main, err := config.LoadMain(configPath)
	if err != nil {
		return err
	}

	if gameName == "" {
		return errors.Errorf(errors.ConfigParse, "-game is required")
	}
	gamePath, err := paths.GameMappingPath(gameName)
	if err != nil {
		return err
	}
	outputMapping, err := config.LoadOutputMapping(gamePath)
	if err != nil {
		return err
	}

	head := buildChain()

	dev, err := device.OpenSerial(serialPath)
	if err != nil {
		return err
	}
	defer dev.Close()

	var sense jvs.SenseLine
	if sensePath != "" {
		mode := device.FloatingInput
		if main.SenseLineType == "switched" {
			mode = device.SwitchedOutput
		}
		gpio, err := device.OpenSenseLine(sensePath, mode)
		if err != nil {
			return err
		}
		defer gpio.Close()
		sense = gpio
	} else {
		sense = noopSenseLine{}
	}

	router := buildRouter(head)

	ffbByPlayer := bindHaptics(head.Capabilities.Players, main.Emulate)
	engine := jvs.NewEngine(head, dev, sense)
	engine.FFB = ffbRouter{controllers: ffbByPlayer}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)

	for _, c := range ffbByPlayer {
		c := c
		g.Go(func() error {
			c.Run()
			return nil
		})
	}

	devices, err := input.Enumerate("")
	if err != nil {
		return err
	}

	mappings := make(map[string]config.DeviceMapping, len(devices))
	fixedPlayer := make(map[string]int)
	for _, d := range devices {
		dm, err := input.ResolveOrFallback(mappingDir(), d, genericByKind(), true)
		if err != nil {
			logger.Logf(logger.Allow, "input", "%s: %v", d.Name, err)
			continue
		}
		mappings[d.Name] = dm
		if dm.Player >= 0 {
			fixedPlayer[d.Name] = dm.Player
		}
	}

	assignments := input.AssignPlayers(devices, fixedPlayer)

	loops := make([]*input.DeviceLoop, 0, len(assignments))
	for _, a := range assignments {
		dm, ok := mappings[a.Device.Name]
		if !ok {
			continue
		}
		table := input.Resolve(dm, outputMapping, a.Player)
		loop := input.NewDeviceLoop(a.Device, table, router, head.State, main.Deadzone)
		loop.Prime()
		loops = append(loops, loop)
	}

	for _, l := range loops {
		l := l
		g.Go(func() error {
			return l.Run()
		})
	}

	g.Go(func() error {
		return protocolLoop(ctx, engine)
	})

	g.Go(func() error {
		return watchdog(ctx, head, loops)
	})

	// device loops and FFB workers watch their own stop signals, not ctx,
	// so stop them as soon as the group's context ends.
	g.Go(func() error {
		<-ctx.Done()
		for _, l := range loops {
			l.Stop()
		}
		for _, c := range ffbByPlayer {
			c.Stop()
		}
		return nil
	})

	return g.Wait()
}

// protocolLoop runs the single-threaded JVS request/response cycle until
// ctx is cancelled; a read timeout is not an error and simply loops.
func protocolLoop(ctx context.Context, engine *jvs.Engine) error {
	for ctx.Err() == nil {
		if err := engine.ProcessPacket(); err != nil {
			if errors.Is(err, errors.Timeout) {
				continue
			}
			logger.Logf(logger.Allow, "jvs", "%v", err)
		}
	}
	return ctx.Err()
}

// watchdog wakes once a second until ctx is cancelled and logs a change
// in len(loops). loops is fixed before the watchdog starts, so the count
// never changes; rotary positions are not sampled, and the watchdog never
// ends the run itself.
func watchdog(ctx context.Context, head *jvs.Node, loops []*input.DeviceLoop) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastDeviceCount := len(loops)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if len(loops) != lastDeviceCount {
				logger.Logf(logger.Allow, "watchdog", "device count changed: %d -> %d", lastDeviceCount, len(loops))
				lastDeviceCount = len(loops)
			}
		}
	}
}

type noopSenseLine struct{}

func (noopSenseLine) SetSenseLine(asserted bool) error { return nil }

type ffbRouter struct {
	controllers []*ffb.Controller
}

func (r ffbRouter) Enqueue(player int, raw []byte) {
	if player < 0 || player >= len(r.controllers) {
		return
	}
	r.controllers[player].Enqueue(raw)
}

// Status implements jvs.FFBStatusSource.
func (r ffbRouter) Status(player int) [4]byte {
	if player < 0 || player >= len(r.controllers) {
		return [4]byte{0x00, 0x80, 0x00, 0x40}
	}
	return r.controllers[player].Status()
}

func bindHaptics(players int, forceEmulate bool) []*ffb.Controller {
	if players < 1 {
		players = 1
	}
	controllers := make([]*ffb.Controller, players)
	for i := range controllers {
		c := ffb.NewController()
		if !forceEmulate {
			if h, err := ffb.OpenSDLHaptic(i); err == nil && h != nil {
				c.Bind(h)
			}
		}
		controllers[i] = c
	}
	return controllers
}

func mappingDir() string {
	p, _ := paths.ResourcePath("mappings", "")
	return p
}

func genericByKind() map[input.Kind]string {
	return map[input.Kind]string{
		input.KindKeyboard: "generic-keyboard",
		input.KindMouse:    "generic-mouse",
		input.KindJoystick: "generic-joystick",
	}
}
