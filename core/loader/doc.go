// Package loader provides the feature loading system of the admin API.
//
// Each feature implements the Feature interface, which defines its name, whether it is
// enabled and its route registration.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registry of features. Register adds one; LoadAll loads the
// enabled ones in registration order. Optional features such as session history and
// log archiving report themselves disabled when their backing service is not configured.
package loader
