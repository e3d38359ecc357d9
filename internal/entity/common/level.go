package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AccountLevel is the coarse role attached to a user. Posts reuse the numeric value
// as their visibility tag.
type AccountLevel int

const (
	LevelDefault AccountLevel = 0
	LevelAdmin   AccountLevel = 1
)

// String returns the wire name of the level; unknown values read as Default.
func (l AccountLevel) String() string {
	if l == LevelAdmin {
		return "Admin"
	}
	return "Default"
}

func (l AccountLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *AccountLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "Admin":
		*l = LevelAdmin
	case "Default":
		*l = LevelDefault
	default:
		return fmt.Errorf("unknown account level %q", name)
	}
	return nil
}

// ParseLevel accepts the wire names (case-insensitive) used by the admin tooling.
func ParseLevel(name string) (AccountLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin", "1":
		return LevelAdmin, nil
	case "default", "0":
		return LevelDefault, nil
	default:
		return 0, fmt.Errorf("unknown account level %q", name)
	}
}
