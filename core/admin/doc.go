// Package admin holds the configuration of the HTTP admin API.
//
// The admin API exposes the controls of the TransEase desktop panel:
// server status and toggling, settings editing, the live log view and event stream.
// It is served by Fiber and protected by the API key middleware.
package admin
