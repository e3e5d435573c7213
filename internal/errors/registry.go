package errors

// Registered error codes.
const (
	CodeMissingContext   = "SC001"
	CodeInvalidContexts  = "SC002"
	CodeIncompatibleProp = "SC003"
	CodeMissingFunc      = "SC004"

	CodeConfigRead    = "SC100"
	CodeConfigParse   = "SC101"
	CodeConfigInvalid = "SC102"

	CodeUnknownScenario = "SC140"
	CodeRenderFailed    = "SC141"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (SC001)
	// ============================================

	CodeMissingContext: {
		Category:   CategoryRuntime,
		Message:    "Context consumed outside of its provider",
		Suggestion: "Render the consumer under the context's Provider, or pass OnError when creating the context",
	},

	// ============================================
	// Contract Errors (SC002-SC009)
	// ============================================

	CodeInvalidContexts: {
		Category:   CategoryContract,
		Message:    "Invalid context map",
		Suggestion: "Every entry needs a unique, non-empty key and a non-nil source",
	},
	CodeIncompatibleProp: {
		Category:   CategoryContract,
		Message:    "Injected prop is incompatible with the target",
		Suggestion: "Change the projection or the prop type on the target",
	},
	CodeMissingFunc: {
		Category:   CategoryContract,
		Message:    "Missing projection or target component",
	},

	// ============================================
	// Config Errors (SC100-SC119)
	// ============================================

	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Cannot read configuration file",
	},
	CodeConfigParse: {
		Category:   CategoryConfig,
		Message:    "Invalid JSON in configuration file",
		Suggestion: "Check safecontext.json for trailing commas or unquoted keys",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// CLI Errors (SC140-SC159)
	// ============================================

	CodeUnknownScenario: {
		Category:   CategoryCLI,
		Message:    "Unknown scenario",
		Suggestion: "Run `safecontext render --list` to see the available scenarios",
	},
	CodeRenderFailed: {
		Category: CategoryCLI,
		Message:  "Rendering failed",
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
