// Package codec converts between the bytes a transfer client sends and the text the
// server works with.
//
// FTP clients on legacy desktops frequently send file names in a regional code page
// (GB18030 on Chinese Windows, Shift_JIS on Japanese Windows) rather than UTF-8. The
// Adapter decodes those bytes with the configured encoding and falls back to latin1,
// which maps every byte to a rune, whenever the configured encoding cannot represent
// the input. Neither direction ever returns an error.
//
// # Supported Encodings
//
//   - gb18030 (default), gbk, big5, shift_jis
//   - utf-8
//   - latin1 (ISO-8859-1)
//
// # Usage
//
//	adapter, err := codec.New("gb18030")
//	name := adapter.Decode(raw)
//	wire := adapter.Encode(name)
//
// An Adapter is immutable; a server instance keeps the one it was started with.
package codec
