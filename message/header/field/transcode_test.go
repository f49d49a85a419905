package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/mimedit/message/header/field"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	s := field.Encode("⚀⚁⚂⚃⚄⚅")
	assert.Equal(t, "=?utf-8?b?4pqA4pqB4pqC4pqD4pqE4pqF?=", s)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	s, err := field.Decode("=?utf-8?b?4pqA4pqB4pqC4pqD4pqE4pqF?=")
	assert.NoError(t, err)
	assert.Equal(t, "⚀⚁⚂⚃⚄⚅", s)
}

func TestDecode_Charset(t *testing.T) {
	t.Parallel()

	// Λογος in ISO-8859-7
	s, err := field.Decode("=?iso-8859-7?q?=CB=EF=E3=EF=F2?=")
	assert.NoError(t, err)
	assert.Equal(t, "Λογος", s)

	s, err = field.Decode("plain text")
	assert.NoError(t, err)
	assert.Equal(t, "plain text", s)
}
