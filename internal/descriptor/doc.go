// Package descriptor decodes JSON component descriptors into components.
//
// The CLI and the inspector build trees from a descriptor file instead of
// Go code:
//
//	{
//	  "type": "stack", "name": "App",
//	  "children": [
//	    {"type": "render", "name": "Counter", "state": 0,
//	     "child": {"type": "leaf", "name": "Label"}},
//	    {"type": "layoutChildren", "name": "List", "memo": true, "props": {"rows": 2},
//	     "children": [{"type": "leaf", "name": "Row"}, {"type": "leaf", "name": "Row"}]}
//	  ]
//	}
//
// Types map to component shapes: leaf, node (one child), stack (ordered
// children), render, layout (one computed child) and layoutChildren
// (ordered computed children). Render-style components return their
// decoded child from every render call.
package descriptor
