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

// Package paths resolves the on-disk locations of configuration and
// mapping files: the main config, per-device input mappings, per-game
// output mappings and rotary maps.
package paths

import "path/filepath"

// baseDir is the directory name, relative to the working/install root,
// under which all config and mapping files live.
const baseDir = ".jvsemu"

// ResourcePath joins subPath and fileName onto the base config directory.
// Either argument may be empty.
func ResourcePath(subPath, fileName string) (string, error) {
	p := baseDir
	if subPath != "" {
		p = filepath.Join(p, subPath)
	}
	if fileName != "" {
		p = filepath.Join(p, fileName)
	}
	return p, nil
}

// MappingPath resolves the file for a named device input mapping.
func MappingPath(name string) (string, error) {
	return ResourcePath("mappings", name+".map")
}

// GameMappingPath resolves the file for a named game output mapping.
func GameMappingPath(name string) (string, error) {
	return ResourcePath("games", name+".game")
}

// RotaryMapPath resolves the rotary-encoder map selector file.
func RotaryMapPath() (string, error) {
	return ResourcePath("", "rotary.map")
}
