// Package formdef exposes module-level metadata.
package formdef

const Version = "v0.1.0"
