package tui

import (
	"strings"
	"sync"
)

// Terminal apps can't change the user's font. Instead we choose between Unicode and ASCII
// glyph sets for tree connectors and toolbar affordances.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func parseGlyphSet(s string) glyphSet {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii":
		return glyphSetASCII
	default:
		return glyphSetUnicode
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

// connectorSet holds the runes used to draw tree lines at one weight.
type connectorSet struct {
	vertical string
	branch   string
	last     string
	horiz    string
}

// connectors returns the connector runes for a configured line width: 1 is light, 2-3
// heavy and 4 and up double. ASCII has a single weight.
func connectors(lineWidth int) connectorSet {
	if glyphs() == glyphSetASCII {
		return connectorSet{vertical: "|", branch: "+", last: "`", horiz: "-"}
	}
	switch {
	case lineWidth >= 4:
		return connectorSet{vertical: "║", branch: "╠", last: "╚", horiz: "═"}
	case lineWidth >= 2:
		return connectorSet{vertical: "┃", branch: "┣", last: "┗", horiz: "━"}
	default:
		return connectorSet{vertical: "│", branch: "├", last: "└", horiz: "─"}
	}
}

func glyphRootBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "●"
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

func glyphMoveLeft() string {
	if glyphs() == glyphSetASCII {
		return "<<"
	}
	return "«"
}

func glyphMoveRight() string {
	if glyphs() == glyphSetASCII {
		return ">>"
	}
	return "»"
}

func glyphDelete() string {
	if glyphs() == glyphSetASCII {
		return "x"
	}
	return "×"
}

func glyphEdit() string {
	if glyphs() == glyphSetASCII {
		return "~"
	}
	return "✎"
}

func glyphCrumbSep() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}
