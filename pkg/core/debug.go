package core

// DebugMode controls whether the default error renderer shows failing
// components. When true a failed render is replaced by a <pre> element
// holding the error message; when false it renders nothing.
var DebugMode = false

// SetDebugMode enables or disables debug mode for the engine.
func SetDebugMode(debug bool) {
	DebugMode = debug
}
