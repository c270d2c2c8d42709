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

// Package config parses the four line-oriented, whitespace-tokenized,
// '#'-commented text dialects that configure a running emulator: the main
// config, per-device input mapping, per-game output mapping, and the
// rotary map. None of these are part of the protocol core; they are
// supporting glue consumed at startup.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/jvsemu/errors"
)

// Main holds the top-level keys recognised in the main config file.
type Main struct {
	SenseLineType string
	Emulate       bool
	DebugMode     bool
	Deadzone      [4]float64 // ANALOG_DEADZONE_PLAYER_{1..4}, clamped to [0, 0.49]
}

// LoadMain parses path, recursing into any INCLUDE directive.
func LoadMain(path string) (Main, error) {
	m := Main{}
	if err := loadMainInto(&m, path, 0); err != nil {
		return Main{}, err
	}
	return m, nil
}

func loadMainInto(m *Main, path string, depth int) error {
	if depth > 8 {
		return errors.Errorf(errors.ConfigParse, "INCLUDE nesting too deep", 0)
	}

	lines, err := readLines(path)
	if err != nil {
		return err
	}

	for lineNo, fields := range lines {
		key := strings.ToUpper(fields[0])
		switch {
		case key == "INCLUDE" && len(fields) >= 2:
			if err := loadMainInto(m, fields[1], depth+1); err != nil {
				return err
			}
		case key == "SENSE_LINE_TYPE" && len(fields) >= 2:
			m.SenseLineType = fields[1]
		case key == "EMULATE" && len(fields) >= 2:
			m.Emulate = truthy(fields[1])
		case key == "DEBUG_MODE" && len(fields) >= 2:
			m.DebugMode = truthy(fields[1])
		case strings.HasPrefix(key, "ANALOG_DEADZONE_PLAYER_") && len(fields) >= 2:
			n, err := strconv.Atoi(strings.TrimPrefix(key, "ANALOG_DEADZONE_PLAYER_"))
			if err != nil || n < 1 || n > 4 {
				return errors.Errorf(errors.ConfigParse, "bad player index", lineNo)
			}
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return errors.Errorf(errors.ConfigParse, err, lineNo)
			}
			m.Deadzone[n-1] = clampDeadzone(v)
		}
	}
	return nil
}

func clampDeadzone(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 0.49 {
		return 0.49
	}
	return v
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// InputMapping is one line of a device input-mapping file: an event code
// mapped to a controller input, with optional modifiers.
type InputMapping struct {
	EventCode  int
	Kind       byte // 'K'=key/button, 'A'=analog/hat, 'R'=rotary, 'M'=card
	Input      string
	Reverse    bool
	Sensitivity float64
}

// DeviceMapping is a parsed device input-mapping file.
type DeviceMapping struct {
	Player   int // -1 = assign next free slot
	Mappings []InputMapping
}

// LoadDeviceMapping parses a device input-mapping file.
func LoadDeviceMapping(path string) (DeviceMapping, error) {
	dm := DeviceMapping{Player: -1, Mappings: nil}

	lines, err := readLines(path)
	if err != nil {
		return DeviceMapping{}, err
	}

	for lineNo, fields := range lines {
		if strings.EqualFold(fields[0], "PLAYER") && len(fields) >= 2 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return DeviceMapping{}, errors.Errorf(errors.ConfigParse, err, lineNo)
			}
			dm.Player = n
			continue
		}

		code, err := strconv.Atoi(fields[0])
		if err != nil {
			continue // not an event-code line; a stray token elsewhere
		}
		if len(fields) < 2 {
			return DeviceMapping{}, errors.Errorf(errors.ConfigParse, "missing controller input", lineNo)
		}

		mp := InputMapping{EventCode: code, Input: fields[1], Sensitivity: 1}
		mp.Kind = mapKindPrefix(fields[1])
		for _, tok := range fields[2:] {
			switch strings.ToUpper(tok) {
			case "REVERSE":
				mp.Reverse = true
			}
		}
		for i := 2; i < len(fields)-1; i++ {
			if strings.EqualFold(fields[i], "SENSITIVITY") {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return DeviceMapping{}, errors.Errorf(errors.ConfigParse, err, lineNo)
				}
				mp.Sensitivity = v
			}
		}
		dm.Mappings = append(dm.Mappings, mp)
	}
	return dm, nil
}

func mapKindPrefix(input string) byte {
	if len(input) == 0 {
		return 'K'
	}
	switch input[0] {
	case 'K', 'B', 'C':
		return 'K'
	case 'A':
		return 'A'
	case 'R':
		return 'R'
	case 'M':
		return 'M'
	}
	return 'K'
}

// OutputRule is one line of a game output-mapping file.
type OutputRule struct {
	ControllerInput  string
	ControllerPlayer int
	JVSInput         string
	JVSPlayer        int
	SecondaryJVS     string
	Digital          bool
	SecondaryIO      bool
}

// OutputMapping is a parsed game output-mapping file. Resolve looks rules
// up last-write-wins.
type OutputMapping struct {
	Rules []OutputRule
}

// LoadOutputMapping parses a game output-mapping file.
func LoadOutputMapping(path string) (OutputMapping, error) {
	lines, err := readLines(path)
	if err != nil {
		return OutputMapping{}, err
	}

	var om OutputMapping
	for lineNo, fields := range lines {
		toks := fields
		var rule OutputRule
		for len(toks) > 0 {
			switch strings.ToUpper(toks[0]) {
			case "DIGITAL":
				rule.Digital = true
				toks = toks[1:]
				continue
			case "SECONDARY":
				rule.SecondaryIO = true
				toks = toks[1:]
				continue
			}
			break
		}
		if len(toks) < 4 {
			return OutputMapping{}, errors.Errorf(errors.ConfigParse, "short output rule", lineNo)
		}
		rule.ControllerInput = toks[0]
		cp, err := strconv.Atoi(toks[1])
		if err != nil {
			return OutputMapping{}, errors.Errorf(errors.ConfigParse, err, lineNo)
		}
		rule.ControllerPlayer = cp
		rule.JVSInput = toks[2]
		jp, err := strconv.Atoi(toks[3])
		if err != nil {
			return OutputMapping{}, errors.Errorf(errors.ConfigParse, err, lineNo)
		}
		rule.JVSPlayer = jp
		if len(toks) >= 5 && !strings.EqualFold(toks[4], "REVERSE") {
			rule.SecondaryJVS = toks[4]
		}
		om.Rules = append(om.Rules, rule)
	}
	return om, nil
}

// Resolve looks up the rule for (controllerInput, controllerPlayer) by
// walking the rule list from the end and returning the first match
// (last-write-wins).
func (om OutputMapping) Resolve(controllerInput string, controllerPlayer int) (OutputRule, bool) {
	for i := len(om.Rules) - 1; i >= 0; i-- {
		r := om.Rules[i]
		if r.ControllerInput == controllerInput && r.ControllerPlayer == controllerPlayer {
			return r, true
		}
	}
	return OutputRule{}, false
}

// RotaryMap names up to 16 output-mapping files, one per rotary position.
type RotaryMap struct {
	GameMappingFiles []string
}

// LoadRotaryMap parses the rotary map.
func LoadRotaryMap(path string) (RotaryMap, error) {
	lines, err := readLines(path)
	if err != nil {
		return RotaryMap{}, err
	}
	var rm RotaryMap
	for lineNo, fields := range lines {
		if len(rm.GameMappingFiles) >= 16 {
			return RotaryMap{}, errors.Errorf(errors.ConfigParse, "too many rotary entries", lineNo)
		}
		rm.GameMappingFiles = append(rm.GameMappingFiles, fields[0])
	}
	return rm, nil
}

// readLines opens path, strips comments and blank lines, and tokenizes
// each remaining line on whitespace.
func readLines(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf(errors.ConfigNotFound, err)
	}
	defer f.Close()

	var out [][]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf(errors.ConfigParse, err, 0)
	}
	return out, nil
}
