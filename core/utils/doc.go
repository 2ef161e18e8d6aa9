// Package utils provides common utility functions for the transease application.
// It includes helper functions for type conversion between settings file text and
// Go values, and other shared logic that doesn't fit into domain-specific packages.
package utils
