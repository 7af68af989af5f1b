// Package pattern handles file patterns like "/home/user/tiles/{z}/{x}/{y}.png".
package pattern

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/eak1mov/go-metatile/tile"
)

var ErrInvalidPattern = errors.New("metatile: invalid file pattern")

var placeholders = []string{"{x}", "{y}", "{z}"}

func Validate(pattern string) error {
	for _, p := range placeholders {
		if !strings.Contains(pattern, p) {
			return fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, p)
		}
	}
	return nil
}

func Format(pattern string, tileID tile.ID) string {
	return strings.NewReplacer(
		"{x}", strconv.FormatUint(uint64(tileID.X), 10),
		"{y}", strconv.FormatUint(uint64(tileID.Y), 10),
		"{z}", strconv.FormatUint(uint64(tileID.Z), 10),
	).Replace(pattern)
}

// Matcher extracts tile coordinates from paths produced by Format.
type Matcher struct {
	root   string
	regexp *regexp.Regexp
}

func NewMatcher(pattern string) (*Matcher, error) {
	if err := Validate(pattern); err != nil {
		return nil, err
	}

	regexPattern := regexp.QuoteMeta(filepath.Clean(pattern))
	for _, p := range placeholders {
		name := p[1:2]
		regexPattern = strings.ReplaceAll(regexPattern, regexp.QuoteMeta(p), "(?P<"+name+">\\d+)")
	}
	pathRegexp, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	// The deepest directory shared by every formatted path.
	path0 := Format(pattern, tile.ID{X: 0, Y: 0, Z: 0})
	path1 := Format(pattern, tile.ID{X: 1, Y: 1, Z: 1})
	for path0 != path1 {
		path0 = filepath.Dir(path0)
		path1 = filepath.Dir(path1)
	}

	return &Matcher{root: path0, regexp: pathRegexp}, nil
}

// Root returns the directory to walk when listing matching files.
func (m *Matcher) Root() string {
	return m.root
}

func (m *Matcher) Match(filePath string) (tile.ID, bool) {
	matches := m.regexp.FindStringSubmatch(filepath.Clean(filePath))
	if matches == nil {
		return tile.ID{}, false
	}

	var coords [3]uint32
	for i, name := range []string{"x", "y", "z"} {
		value, err := strconv.ParseUint(matches[m.regexp.SubexpIndex(name)], 10, 32)
		if err != nil {
			return tile.ID{}, false
		}
		coords[i] = uint32(value)
	}

	return tile.ID{X: coords[0], Y: coords[1], Z: coords[2]}, true
}
