package lead

import (
	"fmt"
	"strings"
)

// ColorLabel is a lead's priority: Red is hot, Green warm, Black cold.
type ColorLabel uint8

const (
	LabelRed ColorLabel = iota
	LabelGreen
	LabelBlack
)

// DefaultLabel is applied to new records that don't choose one.
const DefaultLabel = LabelRed

var labelNames = [...]string{
	LabelRed:   "Red",
	LabelGreen: "Green",
	LabelBlack: "Black",
}

// Labels lists every ColorLabel in display order.
func Labels() []ColorLabel {
	return []ColorLabel{LabelRed, LabelGreen, LabelBlack}
}

// ParseColorLabel parses a label name case-insensitively.
func ParseColorLabel(s string) (ColorLabel, error) {
	s = strings.TrimSpace(s)
	for i, name := range labelNames {
		if strings.EqualFold(name, s) {
			return ColorLabel(i), nil
		}
	}
	return LabelRed, fmt.Errorf("unknown color label: %q", s)
}

func (l ColorLabel) Valid() bool { return int(l) < len(labelNames) }

func (l ColorLabel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("ColorLabel(%d)", uint8(l))
	}
	return labelNames[l]
}

func (l ColorLabel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid color label: %d", uint8(l))
	}
	return []byte(l.String()), nil
}

func (l *ColorLabel) UnmarshalText(b []byte) error {
	parsed, err := ParseColorLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
