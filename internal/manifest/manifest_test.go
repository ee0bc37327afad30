package manifest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/pkparse/internal/manifest"
	"github.com/ossyrian/pkparse/internal/parser"
	"github.com/ossyrian/pkparse/internal/pkzip"
	"github.com/ossyrian/pkparse/internal/pkzip/ziptest"
)

func TestManifest(t *testing.T) {
	data, layout := ziptest.Archive{
		Entries: []ziptest.Entry{
			{Name: "a.txt", Data: []byte("hi")},
			{Name: "b.bin", Data: []byte{1, 2, 3}, Method: pkzip.MethodDeflate, Flags: pkzip.FlagEncrypted, Comment: "b"},
		},
		Comment: "manifest test",
	}.Build()

	archive, err := parser.Open(bytes.NewReader(data), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	m := manifest.New("test.zip", archive)
	assert.Equal(t, "test.zip", m.Source)
	assert.Equal(t, layout.EOCDOffset, m.EOCDOffset)
	assert.Equal(t, uint32(layout.CDOffset), m.CDOffset)
	assert.Equal(t, "manifest test", m.Comment)
	require.Len(t, m.Entries, 2)

	assert.Equal(t, "a.txt", m.Entries[0].Name)
	assert.Equal(t, "store", m.Entries[0].Method)
	assert.Equal(t, "d8932aac", m.Entries[0].CRC32)
	assert.False(t, m.Entries[0].Encrypted)

	assert.Equal(t, "deflate", m.Entries[1].Method)
	assert.True(t, m.Entries[1].Encrypted)
	assert.Equal(t, uint32(layout.LocalHeaderOffsets[1]), m.Entries[1].LocalHeaderOffset)
	assert.Equal(t, "b", m.Entries[1].Comment)

	buf := new(bytes.Buffer)
	require.NoError(t, m.Write(buf))

	var decoded manifest.Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, m.Entries[1].Name, decoded.Entries[1].Name)
	assert.Equal(t, m.CDCount, decoded.CDCount)
}
