package ftp

import (
	"os"
	"testing"

	"transease/core/codec"
	"transease/core/server"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermFs(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/pub", 0o755))
	require.NoError(t, afero.WriteFile(base, "/pub/a.txt", []byte("hello"), 0o644))

	tests := []struct {
		name  string
		perms string
		op    func(afero.Fs) error
		ok    bool
	}{
		{"ReadAllowed", "r", func(fs afero.Fs) error { _, err := fs.Open("/pub/a.txt"); return err }, true},
		{"ReadDenied", "l", func(fs afero.Fs) error { _, err := fs.Open("/pub/a.txt"); return err }, false},
		{"ListAllowed", "l", func(fs afero.Fs) error { _, err := fs.Open("/pub"); return err }, true},
		{"ListDenied", "r", func(fs afero.Fs) error { _, err := fs.Open("/pub"); return err }, false},
		{"WriteAllowed", "w", func(fs afero.Fs) error { _, err := fs.Create("/pub/b.txt"); return err }, true},
		{"WriteDenied", "elr", func(fs afero.Fs) error { _, err := fs.Create("/pub/b.txt"); return err }, false},
		{"AppendNeedsA", "w", func(fs afero.Fs) error {
			_, err := fs.OpenFile("/pub/a.txt", os.O_WRONLY|os.O_APPEND, 0o644)
			return err
		}, false},
		{"AppendAllowed", "a", func(fs afero.Fs) error {
			_, err := fs.OpenFile("/pub/a.txt", os.O_WRONLY|os.O_APPEND, 0o644)
			return err
		}, true},
		{"DeleteDenied", "elrw", func(fs afero.Fs) error { return fs.Remove("/pub/a.txt") }, false},
		{"RenameDenied", "elrw", func(fs afero.Fs) error { return fs.Rename("/pub/a.txt", "/pub/c.txt") }, false},
		{"MkdirAllowed", "m", func(fs afero.Fs) error { return fs.Mkdir("/pub/sub", 0o755) }, true},
		{"ChmodAllowed", "M", func(fs afero.Fs) error { return fs.Chmod("/pub/a.txt", 0o600) }, true},
		{"ChownAlwaysDenied", server.DefaultPermissions, func(fs afero.Fs) error { return fs.Chown("/pub/a.txt", 0, 0) }, false},
		{"StatAlwaysAllowed", "", func(fs afero.Fs) error { _, err := fs.Stat("/pub/a.txt"); return err }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newPermFs(afero.NewCopyOnWriteFs(base, afero.NewMemMapFs()), server.Authorizer{Root: "/", Permissions: tt.perms})
			err := tt.op(fs)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, os.ErrPermission)
			}
		})
	}
}

func TestCodecFs(t *testing.T) {
	gb, err := codec.New(codec.GB18030)
	require.NoError(t, err)

	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/中文.txt", []byte("data"), 0o644))
	fs := newCodecFs(base, gb)

	wire := string([]byte{0xD6, 0xD0, 0xCE, 0xC4}) + ".txt"

	t.Run("StatDecodesAndEncodes", func(t *testing.T) {
		info, err := fs.Stat("/" + wire)
		require.NoError(t, err)
		assert.Equal(t, wire, info.Name())
	})

	t.Run("ReaddirEncodesNames", func(t *testing.T) {
		dir, err := fs.Open("/")
		require.NoError(t, err)
		defer dir.Close()

		infos, err := dir.Readdir(-1)
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, wire, infos[0].Name())
	})

	t.Run("ReaddirnamesEncodesNames", func(t *testing.T) {
		dir, err := fs.Open("/")
		require.NoError(t, err)
		defer dir.Close()

		names, err := dir.Readdirnames(-1)
		require.NoError(t, err)
		assert.Equal(t, []string{wire}, names)
	})

	t.Run("CreateDecodesName", func(t *testing.T) {
		f, err := fs.Create("/" + string([]byte{0xCE, 0xC4}) + ".bin")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		ok, err := afero.Exists(base, "/文.bin")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("RenameDecodesBothNames", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(base, "/old.txt", nil, 0o644))
		require.NoError(t, fs.Rename("/old.txt", "/"+wire+".bak"))

		ok, err := afero.Exists(base, "/中文.txt.bak")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("UTF8IsIdentity", func(t *testing.T) {
		u, err := codec.New(codec.UTF8)
		require.NoError(t, err)
		info, err := newCodecFs(base, u).Stat("/中文.txt")
		require.NoError(t, err)
		assert.Equal(t, "中文.txt", info.Name())
	})
}
