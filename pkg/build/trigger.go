package build

import "strings"

// Trigger records why a build pass is happening. The zero value is a
// brand-new tree build, which never reuses.
type Trigger uint8

const (
	TriggerNewTree     Trigger = 0
	TriggerStateUpdate Trigger = 1 << 0
	TriggerPropsUpdate Trigger = 1 << 1
)

// Has reports whether every bit of other is set in t.
func (t Trigger) Has(other Trigger) bool {
	return other != 0 && t&other == other
}

// String returns "new_tree", "state_update", "props_update" or
// "state_update|props_update".
func (t Trigger) String() string {
	if t == TriggerNewTree {
		return "new_tree"
	}
	var parts []string
	if t.Has(TriggerStateUpdate) {
		parts = append(parts, "state_update")
	}
	if t.Has(TriggerPropsUpdate) {
		parts = append(parts, "props_update")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// ParseTrigger parses the output of Trigger.String. "state" and "props" are
// accepted as short forms.
func ParseTrigger(s string) (Trigger, bool) {
	var t Trigger
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(part) {
		case "new_tree", "new", "":
		case "state_update", "state":
			t |= TriggerStateUpdate
		case "props_update", "props":
			t |= TriggerPropsUpdate
		default:
			return 0, false
		}
	}
	return t, true
}
