// Package types defines the Store and Backend interfaces, entity types,
// and standard error values for the Satchel storage system.
package types
