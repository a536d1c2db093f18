package rootcause

import "github.com/knersus/faultline/internal/model"

// patternEntry is one entry of the known-failure catalogue.
type patternEntry struct {
	id       model.Pattern
	name     string
	keywords []string // matched case-insensitively against the context
}

// patternCatalogue is the ordered known-failure catalogue. Order matters:
// the first entry with a matching keyword wins, so broader signatures
// (IllegalStateException) sit below more specific ones.
var patternCatalogue = []patternEntry{
	{
		id:       model.PatternUninitializedLateinit,
		name:     "Uninitialized lateinit property",
		keywords: []string{"UninitializedPropertyAccessException", "lateinit property"},
	},
	{
		id:       model.PatternNullPointer,
		name:     "Null pointer dereference",
		keywords: []string{"NullPointerException", "null object reference"},
	},
	{
		id:       model.PatternOutOfMemory,
		name:     "Out of memory",
		keywords: []string{"OutOfMemoryError", "Failed to allocate"},
	},
	{
		id:       model.PatternResourceNotFound,
		name:     "Missing resource",
		keywords: []string{"Resources$NotFoundException", "Resource ID"},
	},
	{
		id:       model.PatternConcurrentModification,
		name:     "Concurrent modification during iteration",
		keywords: []string{"ConcurrentModificationException"},
	},
	{
		id:       model.PatternLifecycleError,
		name:     "Lifecycle state error",
		keywords: []string{"IllegalStateException", "Can not perform this action after onSaveInstanceState"},
	},
}

const unknownPatternName = "Unknown failure pattern"

// fixSuggestions maps a pattern to its ordered suggestion list (at most
// three entries). Patterns without an entry fall back to the generic
// suggestion, as does UNKNOWN.
var fixSuggestions = map[model.Pattern][]string{
	model.PatternUninitializedLateinit: {
		"Guard access with ::property.isInitialized",
		"Initialize the property in the constructor or an init block",
		"Consider a nullable type instead of lateinit",
	},
	model.PatternNullPointer: {
		"Use the safe-call operator ?.",
		"Null-check the receiver before access",
		"Provide a default with the Elvis operator",
	},
	model.PatternOutOfMemory: {
		"Check for memory leaks",
		"Downsample image loads with inSampleSize",
		"Release resources that are no longer used",
	},
	model.PatternResourceNotFound: {
		"Verify the resource ID is correct",
		"Confirm the resource exists for every configuration",
	},
	model.PatternLifecycleError: {
		"Use commitAllowingStateLoss() instead of commit()",
		"Run fragment transactions in a safe lifecycle state",
	},
}

var genericSuggestion = []string{"Inspect the full stack trace to locate the failing code"}

// thirdPartyTokens mark a stack-frame class path as belonging to a bundled
// third-party library.
var thirdPartyTokens = []string{"okhttp", "retrofit", "glide", "gson", "kotlinx"}
