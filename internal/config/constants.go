// Package config holds process-wide constants shared across the interpreter,
// the reference group/writer implementations, and the CLI.
package config

// Version is the current strtmpl version.
// Set at build time via -ldflags, or left at this default.
var Version = "0.1.0"

const GroupFileExt = ".stg"

// GroupFileExtensions are all recognized group-file extensions.
var GroupFileExtensions = []string{".stg", ".st"}

// TrimGroupExt removes any recognized group-file extension from a name.
// Returns the original string if no extension matches.
func TrimGroupExt(name string) string {
	for _, ext := range GroupFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasGroupExt reports whether path ends with a recognized group-file extension.
func HasGroupExt(path string) bool {
	for _, ext := range GroupFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// DefaultStackCapacity is the operand stack's pre-allocated capacity.
const DefaultStackCapacity = 100

// NumOptions is the fixed number of positional write-option slots.
const NumOptions = 5
