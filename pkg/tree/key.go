package tree

import "fmt"

// Key locates a node among its siblings. Type is the component type name,
// Name the optional user supplied key, and Occurrence the number of earlier
// siblings with the same Type and Name.
type Key struct {
	Type       string
	Name       string
	Occurrence int
}

// String returns a readable form such as "Button#submit[1]".
func (k Key) String() string {
	s := k.Type
	if k.Name != "" {
		s += "#" + k.Name
	}
	if k.Occurrence > 0 {
		s += fmt.Sprintf("[%d]", k.Occurrence)
	}
	return s
}

type keyBase struct {
	typ  string
	name string
}
