// Package lineage holds module-wide constants.
package lineage

// Version is the module release.
const Version = "0.1.0"
