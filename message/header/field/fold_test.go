package field_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/mimedit/message/header/field"
)

func TestNewFoldEncoding(t *testing.T) {
	t.Parallel()

	_, err := field.NewFoldEncoding("", 0, 0)
	assert.ErrorIs(t, err, field.ErrFoldIndentTooShort)

	_, err = field.NewFoldEncoding(" x", 0, 0)
	assert.ErrorIs(t, err, field.ErrFoldIndentSpace)

	_, err = field.NewFoldEncoding("     ", 0, 0)
	assert.ErrorIs(t, err, field.ErrFoldIndentTooLong)

	_, err = field.NewFoldEncoding(field.DefaultFoldIndent, field.DoNotFold, 1000)
	assert.ErrorIs(t, err, field.ErrDoNotFold)

	_, err = field.NewFoldEncoding(field.DefaultFoldIndent, 80, field.DoNotFold)
	assert.ErrorIs(t, err, field.ErrDoNotFold)

	vf, err := field.NewFoldEncoding(field.DefaultFoldIndent, field.DoNotFold, field.DoNotFold)
	assert.NoError(t, err)
	assert.NotNil(t, vf)

	vf, err = field.NewFoldEncoding("\t\t", field.DefaultPreferredFoldLength, field.DefaultForcedFoldLength)
	assert.NoError(t, err)
	assert.NotNil(t, vf)

	_, err = field.NewFoldEncoding(field.DefaultFoldIndent, 1000, 80)
	assert.ErrorIs(t, err, field.ErrFoldLengthTooLong)

	_, err = field.NewFoldEncoding(field.DefaultFoldIndent, 2, 1000)
	assert.ErrorIs(t, err, field.ErrFoldLengthTooShort)
}

func TestUnfold(t *testing.T) {
	t.Parallel()

	uf := field.DefaultFoldEncoding.Unfold([]byte("a\r\n b\n\tc\n d\n"))
	assert.Equal(t, []byte("a b\tc d"), uf)
}

func TestFoldEncoding_Fold(t *testing.T) {
	t.Parallel()

	vf, err := field.NewFoldEncoding(field.DefaultFoldIndent, 10, 20)
	assert.NoError(t, err)

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"short", "a b c d", "a b c d\n"},
		{"at space", "aaaaa bbbbb", "aaaaa\n bbbbb\n"},
		{"forced", "aaaaabbbbbcccccdddddeeeeefffff", "aaaaabbbb\n bcccccddd\n ddeeeeefffff\n"},
		{"after colon", "Subject: aaaaaaaaaaaa bb", "Subject: aaaaaaaaaaaa\n bb\n"},
	}

	for _, tt := range tests {
		buf := &bytes.Buffer{}
		n, err := vf.Fold(buf, []byte(tt.in), field.Break("\n"))
		assert.NoError(t, err, tt.name)
		assert.Equal(t, tt.out, buf.String(), tt.name)
		assert.Equal(t, int64(len(tt.out)), n, tt.name)
	}

	buf := &bytes.Buffer{}
	_, err = field.DoNotFoldEncoding.Fold(buf, bytes.Repeat([]byte("x "), 100), field.Break("\r\n"))
	assert.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\r\n")))
}
