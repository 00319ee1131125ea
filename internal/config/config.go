package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"nodetree/internal/session"
)

// EnvConfigDir overrides the config directory (keeps tests away from the real one).
const EnvConfigDir = "NODETREE_CONFIG_DIR"

const (
	DefaultLineColor = "#666666"
	DefaultLineWidth = 1
	DefaultGutter    = 5

	MinLineWidth = 1
	MaxLineWidth = 10
	MinGutter    = 1
	MaxGutter    = 10
)

type Config struct {
	Appearance Appearance `json:"appearance"`
	Delete     Delete     `json:"delete"`
}

// Appearance holds the tree view display parameters. They never affect the tree.
type Appearance struct {
	// LineColor is the connector color as #rgb or #rrggbb.
	LineColor string `json:"lineColor,omitempty"`
	// LineWidth is the connector thickness, 1..10. Terminals render 1 as a light line,
	// 2-3 as heavy and 4+ as a double line.
	LineWidth int `json:"lineWidth,omitempty"`
	// Gutter is the horizontal indent per level in cells, 1..10.
	Gutter int `json:"gutter,omitempty"`
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

type Delete struct {
	Confirm      bool `json:"confirm"`
	ProtectRoots bool `json:"protectRoots"`
}

// Policy returns the controller delete policy.
func (d Delete) Policy() session.Policy {
	return session.Policy{ConfirmDelete: d.Confirm, ProtectRoots: d.ProtectRoots}
}

func Default() Config {
	return Config{
		Appearance: Appearance{
			LineColor: DefaultLineColor,
			LineWidth: DefaultLineWidth,
			Gutter:    DefaultGutter,
			Glyphs:    "unicode",
		},
	}
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Normalize fills unset fields with defaults and clamps out-of-range values.
func (c *Config) Normalize() {
	a := &c.Appearance
	a.LineColor = strings.TrimSpace(a.LineColor)
	if !hexColor.MatchString(a.LineColor) {
		a.LineColor = DefaultLineColor
	}
	if a.LineWidth == 0 {
		a.LineWidth = DefaultLineWidth
	}
	a.LineWidth = clamp(a.LineWidth, MinLineWidth, MaxLineWidth)
	if a.Gutter == 0 {
		a.Gutter = DefaultGutter
	}
	a.Gutter = clamp(a.Gutter, MinGutter, MaxGutter)
	switch strings.ToLower(strings.TrimSpace(a.Glyphs)) {
	case "ascii":
		a.Glyphs = "ascii"
	default:
		a.Glyphs = "unicode"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigDir)); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "nodetree"), nil
}

// Path returns the config file inside dir, or inside Dir() when dir is empty.
func Path(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		d, err := Dir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from dir (see Path). A missing file yields the defaults.
func Load(dir string) (Config, error) {
	path, err := Path(dir)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to dir (see Path), normalized.
func Save(dir string, cfg Config) error {
	path, err := Path(dir)
	if err != nil {
		return err
	}
	cfg.Normalize()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, append(b, '\n'), 0o600)
}

// writeFileAtomic replaces path with b via a synced temp file in the same directory, so
// readers never see a partial config.
func writeFileAtomic(path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	_, err = f.Write(b)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Keys lists the settable keys.
var Keys = []string{
	"appearance.lineColor",
	"appearance.lineWidth",
	"appearance.gutter",
	"appearance.glyphs",
	"delete.confirm",
	"delete.protectRoots",
}

type UnknownKeyError struct {
	Key string
}

func (e UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown config key %q (want one of: %s)", e.Key, strings.Join(Keys, ", "))
}

// Set assigns a single key from its string form. Out-of-range values are clamped.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "appearance.lineColor":
		if !hexColor.MatchString(value) {
			return fmt.Errorf("%s: invalid color %q (want #rgb or #rrggbb)", key, value)
		}
		c.Appearance.LineColor = value
	case "appearance.lineWidth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Appearance.LineWidth = clamp(n, MinLineWidth, MaxLineWidth)
	case "appearance.gutter":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Appearance.Gutter = clamp(n, MinGutter, MaxGutter)
	case "appearance.glyphs":
		switch value {
		case "unicode", "ascii":
			c.Appearance.Glyphs = value
		default:
			return fmt.Errorf("%s: invalid glyph set %q (want unicode or ascii)", key, value)
		}
	case "delete.confirm":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Delete.Confirm = b
	case "delete.protectRoots":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Delete.ProtectRoots = b
	default:
		return UnknownKeyError{Key: key}
	}
	return nil
}
