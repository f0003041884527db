package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	DocURL   string
}

// Sentinels for errors.Is comparisons.
var (
	ErrIDCollision        = &TreeError{Code: "T001"}
	ErrNilComponent       = &TreeError{Code: "T002"}
	ErrGenerationMismatch = &TreeError{Code: "T003"}
	ErrNilParent          = &TreeError{Code: "T004"}
	ErrUnknownShape       = &TreeError{Code: "T005"}
	ErrSealed             = &TreeError{Code: "T006"}
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Precondition Errors (T001-T099)
	// ============================================

	"T001": {
		Category: CategoryPrecondition,
		Message:  "Tree node identifier collision",
		DocURL:   "https://vango.dev/docs/errors/T001",
	},
	"T002": {
		Category: CategoryPrecondition,
		Message:  "Nil component",
		DocURL:   "https://vango.dev/docs/errors/T002",
	},
	"T003": {
		Category: CategoryPrecondition,
		Message:  "Parent and previous parent belong to mismatched generations",
		DocURL:   "https://vango.dev/docs/errors/T003",
	},
	"T004": {
		Category: CategoryPrecondition,
		Message:  "Nil parent tree node",
		DocURL:   "https://vango.dev/docs/errors/T004",
	},
	"T005": {
		Category: CategoryPrecondition,
		Message:  "Component has no known shape",
		DocURL:   "https://vango.dev/docs/errors/T005",
	},
	"T006": {
		Category: CategoryPrecondition,
		Message:  "Mutation of a sealed generation",
		DocURL:   "https://vango.dev/docs/errors/T006",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		DocURL:   "https://vango.dev/docs/errors/C001",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		DocURL:   "https://vango.dev/docs/errors/C002",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   "https://vango.dev/docs/errors/C003",
	},
	"C004": {
		Category: CategoryConfig,
		Message:  "Invalid descriptor file",
		DocURL:   "https://vango.dev/docs/errors/C004",
	},

	// ============================================
	// Snapshot Errors (S001-S099)
	// ============================================

	"S001": {
		Category: CategorySnapshot,
		Message:  "Failed to encode generation",
		DocURL:   "https://vango.dev/docs/errors/S001",
	},
	"S002": {
		Category: CategorySnapshot,
		Message:  "Failed to write snapshot",
		DocURL:   "https://vango.dev/docs/errors/S002",
	},
	"S003": {
		Category: CategorySnapshot,
		Message:  "Invalid snapshot target",
		DocURL:   "https://vango.dev/docs/errors/S003",
	},

	// ============================================
	// CLI Errors (X001-X099)
	// ============================================

	"X001": {
		Category: CategoryCLI,
		Message:  "Unknown component name",
		DocURL:   "https://vango.dev/docs/errors/X001",
	},
	"X002": {
		Category: CategoryCLI,
		Message:  "Invalid build trigger",
		DocURL:   "https://vango.dev/docs/errors/X002",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
