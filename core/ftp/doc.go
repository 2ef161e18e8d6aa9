// Package ftp adapts ftpserverlib to the server.Engine contract.
//
// An Engine serves the handler root to anonymous clients only. The root is confined
// with afero.BasePathFs and wrapped by two layers:
//
//   - a permission layer refusing operations whose letter is missing from the
//     authorizer (e change dir, l list, r read, a append, d delete, f rename,
//     m mkdir, w write, M chmod);
//   - a codec layer decoding client paths into UTF-8 and encoding names sent back
//     in listings, so clients using GB18030 or another legacy encoding see their
//     native file names.
//
// The engine enforces the connection limit in ClientConnected and reports every
// change in the client count through Handler.OnConnections. TLS is not offered.
//
// # Usage
//
//	sup := server.New(cfg.Server, store, bus, ftp.NewEngine)
package ftp
