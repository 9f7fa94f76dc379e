// Package vouch holds shared metadata for the vouch installation verifier.
package vouch

// Version is the current vouch release.
const Version = "0.3.0"
