// Package middleware contains HTTP middleware for the admin API.
//
// # Components
//
//   - auth: API key validation for every admin route except the documentation.
//   - rayid: a unique request ID (RayID) stored in the context and echoed in the
//     X-Ray-ID response header for tracing.
//
// RayID is registered first so every log line of a request carries it.
package middleware
