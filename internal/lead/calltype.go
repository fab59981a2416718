package lead

import (
	"fmt"
	"strings"
)

// CallType is the kind of a call as reported by the device.
type CallType uint8

const (
	CallUnknown CallType = iota
	CallIncoming
	CallOutgoing
	CallMissed
	CallRejected
	CallVoicemail
	CallBlocked
)

var callTypeNames = map[CallType]string{
	CallUnknown:   "UNKNOWN",
	CallIncoming:  "INCOMING",
	CallOutgoing:  "OUTGOING",
	CallMissed:    "MISSED",
	CallRejected:  "REJECTED",
	CallVoicemail: "VOICEMAIL",
	CallBlocked:   "BLOCKED",
}

// ParseCallType maps a device call type name to a CallType.
func ParseCallType(s string) (CallType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for ct, name := range callTypeNames {
		if name == s {
			return ct, nil
		}
	}
	return CallUnknown, fmt.Errorf("unknown call type: %q", s)
}

// Tracked reports whether calls of this type are kept in a caller's history.
func (c CallType) Tracked() bool {
	switch c {
	case CallIncoming, CallOutgoing, CallMissed:
		return true
	default:
		return false
	}
}

func (c CallType) String() string {
	if name, ok := callTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CallType(%d)", uint8(c))
}

func (c CallType) MarshalText() ([]byte, error) {
	if _, ok := callTypeNames[c]; !ok {
		return nil, fmt.Errorf("invalid call type: %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *CallType) UnmarshalText(b []byte) error {
	ct, err := ParseCallType(string(b))
	if err != nil {
		return err
	}
	*c = ct
	return nil
}
