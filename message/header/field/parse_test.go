package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message/header/field"
)

func TestParseLines(t *testing.T) {
	t.Parallel()

	lines, err := field.ParseLines([]byte("A: 1\nB: 2\n  continued\nC: 3\n\n"), []byte("\n"))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, field.Line("B: 2\n  continued\n"), lines[1])
}

func TestParseLines_BadStart(t *testing.T) {
	t.Parallel()

	lines, err := field.ParseLines([]byte("junk\n more\nA: 1\n"), []byte("\n"))
	require.Error(t, err)

	var bse *field.BadStartError
	require.ErrorAs(t, err, &bse)
	assert.Equal(t, []byte("junk\n more\n"), bse.BadStart)
	assert.Len(t, lines, 1)
}

func TestParse(t *testing.T) {
	t.Parallel()

	f := field.Parse(field.Line("Subject: =?utf-8?q?caf=C3=A9?=\r\n  au lait\r\n"), []byte("\r\n"))
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "café  au lait", f.Body())
	assert.Equal(t, "Subject: =?utf-8?q?caf=C3=A9?=\r\n  au lait", f.String())
	assert.Equal(t, "Subject", f.Raw().Name())
	assert.Equal(t, " =?utf-8?q?caf=C3=A9?=\r\n  au lait", f.Raw().Body())
}
