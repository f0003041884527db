// Package treetest provides fixture components and assertions for testing
// build passes.
//
// # Fixtures
//
// Every fixture is a pointer type with a Name (its type name for keying), an
// optional Key, an Initial state and, when Memo is set, props comparison
// through Props:
//
//	counter := &treetest.Render{Name: "Counter", Initial: 0,
//	    Fn: func(state any) component.Component {
//	        return &treetest.Leaf{Name: "Label", Props: state}
//	    },
//	}
//	app := &treetest.Stack{Name: "App", Items: []component.Component{counter}}
//
// Render fixtures count calls to their render method in Renders.
//
// # Assertions
//
//	n := treetest.Find(t, res.Root, "App", "Counter")
//	treetest.ExpectKeys(t, n, "Label")
//	fmt.Println(treetest.Dump(res.Root))
package treetest
