package ftp

import (
	"os"
	"time"

	"transease/core/server"

	"github.com/spf13/afero"
)

// permFs refuses operations whose permission letter is not granted.
type permFs struct {
	afero.Fs
	auth server.Authorizer
}

func newPermFs(base afero.Fs, auth server.Authorizer) afero.Fs {
	return &permFs{Fs: base, auth: auth}
}

func (p *permFs) check(op, name string, perm byte) error {
	if p.auth.Allows(perm) {
		return nil
	}
	return &os.PathError{Op: op, Path: name, Err: os.ErrPermission}
}

// readPerm is 'l' for directories and 'r' for files.
func (p *permFs) readPerm(name string) byte {
	if info, err := p.Fs.Stat(name); err == nil && info.IsDir() {
		return server.PermList
	}
	return server.PermRead
}

func (p *permFs) Create(name string) (afero.File, error) {
	if err := p.check("create", name, server.PermWrite); err != nil {
		return nil, err
	}
	return p.Fs.Create(name)
}

func (p *permFs) Mkdir(name string, perm os.FileMode) error {
	if err := p.check("mkdir", name, server.PermMkdir); err != nil {
		return err
	}
	return p.Fs.Mkdir(name, perm)
}

func (p *permFs) MkdirAll(path string, perm os.FileMode) error {
	if err := p.check("mkdir", path, server.PermMkdir); err != nil {
		return err
	}
	return p.Fs.MkdirAll(path, perm)
}

func (p *permFs) Open(name string) (afero.File, error) {
	if err := p.check("open", name, p.readPerm(name)); err != nil {
		return nil, err
	}
	return p.Fs.Open(name)
}

func (p *permFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	need := p.readPerm(name)
	switch {
	case flag&os.O_APPEND != 0:
		need = server.PermAppend
	case flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC) != 0:
		need = server.PermWrite
	}
	if err := p.check("open", name, need); err != nil {
		return nil, err
	}
	return p.Fs.OpenFile(name, flag, perm)
}

func (p *permFs) Remove(name string) error {
	if err := p.check("remove", name, server.PermDelete); err != nil {
		return err
	}
	return p.Fs.Remove(name)
}

func (p *permFs) RemoveAll(path string) error {
	if err := p.check("remove", path, server.PermDelete); err != nil {
		return err
	}
	return p.Fs.RemoveAll(path)
}

func (p *permFs) Rename(oldname, newname string) error {
	if err := p.check("rename", oldname, server.PermRename); err != nil {
		return err
	}
	return p.Fs.Rename(oldname, newname)
}

func (p *permFs) Chmod(name string, mode os.FileMode) error {
	if err := p.check("chmod", name, server.PermChmod); err != nil {
		return err
	}
	return p.Fs.Chmod(name, mode)
}

// Chown has no permission letter and is always refused.
func (p *permFs) Chown(name string, _, _ int) error {
	return &os.PathError{Op: "chown", Path: name, Err: os.ErrPermission}
}

// Chtimes has no permission letter and is always refused.
func (p *permFs) Chtimes(name string, _, _ time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: os.ErrPermission}
}

func (p *permFs) Name() string {
	return "permFs"
}

// codecFs translates names between the client encoding and UTF-8. Paths arriving from
// the client are decoded; names leaving through Stat and directory listings are encoded.
type codecFs struct {
	afero.Fs
	codec server.Codec
}

func newCodecFs(base afero.Fs, c server.Codec) afero.Fs {
	return &codecFs{Fs: base, codec: c}
}

func (c *codecFs) in(name string) string {
	return c.codec.Decode([]byte(name))
}

func (c *codecFs) out(name string) string {
	return string(c.codec.Encode(name))
}

func (c *codecFs) wrap(f afero.File, err error) (afero.File, error) {
	if err != nil {
		return nil, err
	}
	return &codecFile{File: f, fs: c}, nil
}

func (c *codecFs) Create(name string) (afero.File, error) {
	return c.wrap(c.Fs.Create(c.in(name)))
}

func (c *codecFs) Mkdir(name string, perm os.FileMode) error {
	return c.Fs.Mkdir(c.in(name), perm)
}

func (c *codecFs) MkdirAll(path string, perm os.FileMode) error {
	return c.Fs.MkdirAll(c.in(path), perm)
}

func (c *codecFs) Open(name string) (afero.File, error) {
	return c.wrap(c.Fs.Open(c.in(name)))
}

func (c *codecFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return c.wrap(c.Fs.OpenFile(c.in(name), flag, perm))
}

func (c *codecFs) Remove(name string) error {
	return c.Fs.Remove(c.in(name))
}

func (c *codecFs) RemoveAll(path string) error {
	return c.Fs.RemoveAll(c.in(path))
}

func (c *codecFs) Rename(oldname, newname string) error {
	return c.Fs.Rename(c.in(oldname), c.in(newname))
}

func (c *codecFs) Stat(name string) (os.FileInfo, error) {
	info, err := c.Fs.Stat(c.in(name))
	if err != nil {
		return nil, err
	}
	return c.info(info), nil
}

func (c *codecFs) Chmod(name string, mode os.FileMode) error {
	return c.Fs.Chmod(c.in(name), mode)
}

func (c *codecFs) Chown(name string, uid, gid int) error {
	return c.Fs.Chown(c.in(name), uid, gid)
}

func (c *codecFs) Chtimes(name string, atime, mtime time.Time) error {
	return c.Fs.Chtimes(c.in(name), atime, mtime)
}

func (c *codecFs) Name() string {
	return "codecFs(" + c.codec.Name() + ")"
}

func (c *codecFs) info(info os.FileInfo) os.FileInfo {
	return encodedInfo{FileInfo: info, name: c.out(info.Name())}
}

type encodedInfo struct {
	os.FileInfo
	name string
}

func (i encodedInfo) Name() string {
	return i.name
}

type codecFile struct {
	afero.File
	fs *codecFs
}

func (f *codecFile) Readdir(count int) ([]os.FileInfo, error) {
	infos, err := f.File.Readdir(count)
	for i, info := range infos {
		infos[i] = f.fs.info(info)
	}
	return infos, err
}

func (f *codecFile) Readdirnames(n int) ([]string, error) {
	names, err := f.File.Readdirnames(n)
	for i, name := range names {
		names[i] = f.fs.out(name)
	}
	return names, err
}

func (f *codecFile) Stat() (os.FileInfo, error) {
	info, err := f.File.Stat()
	if err != nil {
		return nil, err
	}
	return f.fs.info(info), nil
}
