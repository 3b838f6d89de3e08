package errors

import "sort"

// Registered codes.
const (
	CodeKindMismatch      = "OBS001"
	CodeUninitialized     = "OBS002"
	CodeIncompatibleBind  = "OBS003"
	CodeDepthExceeded     = "OBS004"
	CodeUnknownSubject    = "OBS005"
	CodeInvalidValue      = "OBS006"
	CodeSnapshotDecode    = "OBS007"
	CodeTargetDeleted     = "OBS008"
	CodeDuplicateSubject  = "OBS009"
	CodeConfigInvalid     = "OBS010"
	CodeConfigNotFound    = "OBS011"
	CodeSnapshotStore     = "OBS012"
	CodeInspectorDispatch = "OBS013"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Engine (OBS001-OBS008)
	// ============================================

	CodeKindMismatch: {
		Category: CategoryRuntime,
		Message:  "Subject kind mismatch",
		Detail:   "The accessor does not match the kind the subject was initialized with. The call was ignored and a default value returned.",
	},
	CodeUninitialized: {
		Category: CategoryRuntime,
		Message:  "Subject not initialized",
		Detail:   "Observers can only be added to a subject after one of its Init methods ran. The registration was refused.",
	},
	CodeIncompatibleBind: {
		Category: CategoryBinding,
		Message:  "Incompatible subject kind for binding",
		Detail:   "The binding adapter only works with some subject kinds. No observer was created.",
	},
	CodeDepthExceeded: {
		Category: CategoryRuntime,
		Message:  "Notify depth exceeded",
		Detail:   "A subject was notified again from inside its own notification too many times. This usually means two subjects set each other to ever-changing values. The nested notification was dropped.",
	},
	CodeTargetDeleted: {
		Category: CategoryBinding,
		Message:  "Observer target already deleted",
		Detail:   "A deleted object cannot carry the delete hook that removes the observer, so the registration was refused.",
	},

	// ============================================
	// Inspector and snapshots (OBS005-OBS013)
	// ============================================

	CodeUnknownSubject: {
		Category: CategoryInspector,
		Message:  "Unknown subject",
		Detail:   "No subject is registered under this name.",
	},
	CodeInvalidValue: {
		Category: CategoryInspector,
		Message:  "Invalid value literal",
		Detail:   "The literal cannot be parsed for the subject's kind. Integers and floats use Go syntax, colors use #rrggbb.",
	},
	CodeSnapshotDecode: {
		Category: CategorySnapshot,
		Message:  "Snapshot decode failed",
		Detail:   "The stored snapshot could not be decoded with the configured format.",
	},
	CodeDuplicateSubject: {
		Category: CategoryInspector,
		Message:  "Subject name already registered",
		Detail:   "Each subject can be registered under one unique name.",
	},
	CodeSnapshotStore: {
		Category: CategorySnapshot,
		Message:  "Snapshot store failed",
		Detail:   "The snapshot store could not read or write the object.",
	},
	CodeInspectorDispatch: {
		Category: CategoryInspector,
		Message:  "UI loop unavailable",
		Detail:   "The request could not be handed to the UI loop before its deadline.",
	},

	// ============================================
	// Config (OBS010-OBS011)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file could not be parsed or failed validation.",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "Neither observer.json nor observer.yaml exists in the directory.",
	},
}

// GetAllCodes returns every registered code in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a template. Intended for init-time use.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
