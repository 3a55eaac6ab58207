// Package satchel holds module-wide metadata.
package satchel

// Version is the satchel release version.
const Version = "0.3.0"
