package config

import (
	"strconv"
	"time"
)

// Output formats accepted in Preferences.Format and by --format
const (
	FormatDetailed = "detailed"
	FormatCompact  = "compact"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// OutputFormats lists every supported output format
var OutputFormats = []string{FormatDetailed, FormatCompact, FormatJSON, FormatYAML}

// Registry represents the entire user configuration file.
// It stores user-defined metadata for data loggers and application preferences.
type Registry struct {
	Version     int                  `yaml:"version"`
	Inverters   map[string]*Inverter `yaml:"inverters,omitempty"` // Keyed by logger serial number (decimal)
	Preferences *Preferences         `yaml:"preferences,omitempty"`

	path string // File the registry was loaded from and saves to
}

// Inverter represents user-defined and observed metadata for one data logger.
type Inverter struct {
	Nickname       string    `yaml:"nickname,omitempty"`
	LastSeen       time.Time `yaml:"last_seen,omitempty"`
	LastRemoteAddr string    `yaml:"last_remote_addr,omitempty"`
	FramesSeen     int       `yaml:"frames_seen,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Format         string `yaml:"format"`          // Default --format value
	TrackInverters bool   `yaml:"track_inverters"` // Record loggers seen during replay
}

func defaultPreferences() *Preferences {
	return &Preferences{
		Format:         FormatDetailed,
		TrackInverters: false,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Inverters:   make(map[string]*Inverter),
		Preferences: defaultPreferences(),
	}
}

// Path returns the file the registry saves to
func (r *Registry) Path() string {
	return r.path
}

func serialKey(serial uint32) string {
	return strconv.FormatUint(uint64(serial), 10)
}

// GetInverter retrieves logger metadata by serial number.
// Returns nil if the logger is not in the registry.
func (r *Registry) GetInverter(serial uint32) *Inverter {
	return r.Inverters[serialKey(serial)]
}

// EnsureInverter returns the entry for serial, creating an empty one if needed.
func (r *Registry) EnsureInverter(serial uint32) *Inverter {
	if r.Inverters == nil {
		r.Inverters = make(map[string]*Inverter)
	}

	key := serialKey(serial)
	if inv, exists := r.Inverters[key]; exists {
		return inv
	}

	inv := &Inverter{}
	r.Inverters[key] = inv
	return inv
}

// SetNickname sets a user-friendly nickname for a logger.
func (r *Registry) SetNickname(serial uint32, nickname string) {
	r.EnsureInverter(serial).Nickname = nickname
}

// Touch records that a frame from serial was seen at the given time.
func (r *Registry) Touch(serial uint32, remoteAddr string, at time.Time) {
	inv := r.EnsureInverter(serial)
	inv.FramesSeen++
	if at.After(inv.LastSeen) {
		inv.LastSeen = at
	}
	if remoteAddr != "" {
		inv.LastRemoteAddr = remoteAddr
	}
}

// DisplayName returns the nickname for serial, or the decimal serial when
// none is set.
func (r *Registry) DisplayName(serial uint32) string {
	if inv := r.GetInverter(serial); inv != nil && inv.Nickname != "" {
		return inv.Nickname
	}
	return serialKey(serial)
}

// ValidFormat reports whether f is a supported output format
func ValidFormat(f string) bool {
	for _, known := range OutputFormats {
		if f == known {
			return true
		}
	}
	return false
}
