package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcarvalho/divvy/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := `{"name":"Férias em São Miguel","currency":"€"}`

	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM should be stripped so json.Decoder does not choke on it.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte(`{"name":"Trip"}`)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(append(bom, content...)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	content := `{"name":"Trip"}`

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})

	for _, r := range content {
		buf.WriteByte(byte(r))
		buf.WriteByte(0x00)
	}

	r, err := encoding.NewUTF8Reader(&buf)
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// Windows-1252 encoded "São" (ã = 0xE3).
	input := []byte{'{', '"', 'n', 'a', 'm', 'e', '"', ':', '"', 'S', 0xE3, 'o', '"', '}'}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"São"}`, string(got))
}
