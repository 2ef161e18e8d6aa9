package codec_test

import (
	"testing"

	"transease/core/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"GB18030", "gb18030", codec.GB18030, false},
		{"UpperCase", "UTF-8", codec.UTF8, false},
		{"Alias", "utf8", codec.UTF8, false},
		{"Latin1Alias", "ISO-8859-1", codec.Latin1, false},
		{"Unknown", "ebcdic", "", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := codec.New(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, codec.ErrUnsupported)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Name())
		})
	}
}

func TestAdapter_DecodeGB18030(t *testing.T) {
	a, err := codec.New(codec.GB18030)
	require.NoError(t, err)

	assert.Equal(t, "中文", a.Decode([]byte{0xD6, 0xD0, 0xCE, 0xC4}))
	assert.Equal(t, "readme.txt", a.Decode([]byte("readme.txt")))
}

func TestAdapter_DecodeInvalidFallsBack(t *testing.T) {
	invalid := []byte{0xFF, 0xFE, 0x81}

	for _, name := range codec.Supported() {
		t.Run(name, func(t *testing.T) {
			a, err := codec.New(name)
			require.NoError(t, err)

			assert.NotPanics(t, func() {
				text := a.Decode(invalid)
				assert.NotEmpty(t, text)
			})
		})
	}

	t.Run("Latin1PreservesBytes", func(t *testing.T) {
		a, err := codec.New(codec.UTF8)
		require.NoError(t, err)

		text := a.Decode(invalid)
		assert.Equal(t, "ÿþ\u0081", text)

		l, err := codec.New(codec.Latin1)
		require.NoError(t, err)
		assert.Equal(t, invalid, l.Encode(text))
	})
}

func TestAdapter_Encode(t *testing.T) {
	gb, err := codec.New(codec.GB18030)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD6, 0xD0, 0xCE, 0xC4}, gb.Encode("中文"))

	utf, err := codec.New(codec.UTF8)
	require.NoError(t, err)
	assert.Equal(t, []byte("中文"), utf.Encode("中文"))

	t.Run("UnrepresentableNeverFails", func(t *testing.T) {
		latin, err := codec.New(codec.Latin1)
		require.NoError(t, err)

		var out []byte
		assert.NotPanics(t, func() { out = latin.Encode("中文 ok") })
		assert.Len(t, out, 5)
		assert.Equal(t, []byte(" ok"), out[2:])
	})

	t.Run("InvalidUTF8Input", func(t *testing.T) {
		for _, name := range codec.Supported() {
			a, err := codec.New(name)
			require.NoError(t, err)
			assert.NotPanics(t, func() { _ = a.Encode(string([]byte{0xC3, 0x28})) }, name)
		}
	})
}

func TestIsSupported(t *testing.T) {
	assert.True(t, codec.IsSupported("GB18030"))
	assert.True(t, codec.IsSupported("latin1"))
	assert.False(t, codec.IsSupported("klingon"))
	assert.Contains(t, codec.Supported(), codec.GB18030)
}
