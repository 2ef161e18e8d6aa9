package server

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Permission letters granted to the anonymous user.
const (
	PermChangeDir = 'e'
	PermList      = 'l'
	PermRead      = 'r'
	PermAppend    = 'a'
	PermDelete    = 'd'
	PermRename    = 'f'
	PermMkdir     = 'm'
	PermWrite     = 'w'
	PermChmod     = 'M'
)

// DefaultPermissions grants change-dir, list, read, append, delete, rename, mkdir,
// write and chmod.
const DefaultPermissions = "elradfmwM"

// anonymousUsers are the login names accepted for the anonymous principal.
var anonymousUsers = []string{"anonymous", "ftp"}

// Authorizer exposes one directory tree to anonymous clients with a fixed permission set.
type Authorizer struct {
	Root        string `json:"root"`
	Permissions string `json:"permissions"`
}

// Allows reports whether perm is part of the permission set.
func (a Authorizer) Allows(perm byte) bool {
	return strings.IndexByte(a.Permissions, perm) >= 0
}

// AllowsUser reports whether user may log in as the anonymous principal.
func (a Authorizer) AllowsUser(user string) bool {
	for _, u := range anonymousUsers {
		if strings.EqualFold(u, user) {
			return true
		}
	}
	return false
}

// Codec converts between wire bytes and text for one server instance.
type Codec interface {
	Name() string
	Decode(raw []byte) string
	Encode(text string) []byte
}

// Handler is the per-instance configuration handed to an Engine. It does not change
// while the instance runs.
type Handler struct {
	Codec      Codec
	Timeout    time.Duration
	Authorizer Authorizer
	Banner     string
	Logger     *zap.Logger
	// OnConnections is called with the new client count after every connect and
	// disconnect.
	OnConnections func(n int)
}

// Engine is the transfer-protocol server run by a worker.
type Engine interface {
	// Bind opens the listening socket.
	Bind(addr string) error
	// SetMaxConnections limits concurrent clients.
	SetMaxConnections(n int)
	// Serve accepts clients until StopAll is called. It blocks.
	Serve() error
	// StopAll closes every client connection and the listening socket.
	StopAll() error
	// Connections returns the number of connected clients.
	Connections() int
}

// EngineFactory builds an Engine for one instance.
type EngineFactory func(h Handler) (Engine, error)
