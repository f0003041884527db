package build

// UnifyConfig selects between the tree representations.
type UnifyConfig struct {
	// Enable keeps the state of every stateful component on its tree node.
	// When disabled, only render-style components keep state on the node;
	// other components keep it in the generation's scope table.
	Enable bool `json:"enable"`

	// UseSingleChildNodeForComposite builds WithChild components into a
	// single-slot node instead of a general WithChildren node.
	UseSingleChildNodeForComposite bool `json:"useSingleChildNodeForComposite"`

	// UseRenderNodes builds Render components into KindRender nodes instead
	// of KindWithChild nodes.
	UseRenderNodes bool `json:"useRenderNodes"`

	// UseVector indexes children with an ordered scan instead of a hash map.
	UseVector bool `json:"useVector"`
}

// Config holds the behavioral switches of a build pass. It is resolved once
// at the start of a pass and never read again mid-pass.
type Config struct {
	Unify UnifyConfig `json:"unify"`

	// AlwaysBuildRenderTree builds the tree even when no render-style
	// component is reachable from the root.
	AlwaysBuildRenderTree bool `json:"alwaysBuildRenderTree"`

	// AlwaysBuildRenderTreeInDebug is AlwaysBuildRenderTree for Debug
	// builds only.
	AlwaysBuildRenderTreeInDebug bool `json:"alwaysBuildRenderTreeInDebug"`

	// Debug marks a development build.
	Debug bool `json:"debug"`

	// EnableLayoutCacheInRender carries the cached layout of reused
	// render-style components into the new generation.
	EnableLayoutCacheInRender bool `json:"enableLayoutCacheInRender"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		AlwaysBuildRenderTreeInDebug: true,
	}
}

// ShouldAlwaysBuildRenderTree reports whether the tree is built regardless
// of whether the descriptors contain a render-style component.
func (c Config) ShouldAlwaysBuildRenderTree() bool {
	return c.AlwaysBuildRenderTree || (c.Debug && c.AlwaysBuildRenderTreeInDebug)
}
