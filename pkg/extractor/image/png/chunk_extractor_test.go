package png

import (
	"os"
	"path/filepath"
	"testing"

	"PNGProbe/pkg/extractor"
	pngcore "PNGProbe/pkg/png"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(tag string, payload []byte) pngcore.Chunk {
	ct, err := pngcore.ParseChunkType(tag)
	if err != nil {
		panic(err)
	}
	return pngcore.Chunk{Type: ct, Payload: payload}
}

func writeFixture(t *testing.T) string {
	t.Helper()
	data := pngcore.Encode([]pngcore.Chunk{
		mk("IHDR", []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 0, 0, 0, 0}),
		mk("stEg", []byte("hidden one")),
		mk("tEXt", []byte("k\x00v")),
		mk("stEg", []byte("hidden two")),
		mk("IEND", nil),
	})
	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExtractNonStandard(t *testing.T) {
	path := writeFixture(t)
	out := t.TempDir()

	e := NewChunkExtractor(nil, 0)
	var _ extractor.DataExtractor = e
	assert.True(t, e.CanExtract("png"))

	res, err := e.Extract(path, extractor.ExtractionOptions{OutputDir: out})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Chunks, 2)
	assert.Equal(t, 20, res.DataSize)
	assert.Equal(t, "stEg", res.Chunks[0].Type)
	assert.Equal(t, 33, res.Chunks[0].Offset)
	assert.Equal(t, filepath.Join(out, "cover_001_stEg_0x21.bin"), res.Chunks[0].Path)

	got, err := os.ReadFile(res.Chunks[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "hidden two", string(got))
}

func TestExtractByType(t *testing.T) {
	path := writeFixture(t)
	out := t.TempDir()

	res, err := NewChunkExtractor(nil, 0).Extract(path, extractor.ExtractionOptions{
		OutputDir:  out,
		ChunkTypes: []string{"tEXt", "IEND"},
	})
	require.NoError(t, err)
	require.Len(t, res.Chunks, 2)
	assert.Equal(t, "tEXt", res.Chunks[0].Type)
	assert.Equal(t, "IEND", res.Chunks[1].Type)
	assert.EqualValues(t, 0, res.Chunks[1].Length)
	assert.FileExists(t, res.Chunks[1].Path)
}

func TestExtractNothingSelected(t *testing.T) {
	path := writeFixture(t)
	res, err := NewChunkExtractor(nil, 0).Extract(path, extractor.ExtractionOptions{
		OutputDir:  t.TempDir(),
		ChunkTypes: []string{"zTXt"},
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.OutputFiles)
}

func TestExtractErrors(t *testing.T) {
	e := NewChunkExtractor(nil, 0)
	_, err := e.Extract("x.png", extractor.ExtractionOptions{})
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0644))
	_, err = e.Extract(bad, extractor.ExtractionOptions{OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, pngcore.ErrInvalidFormat)
}

func TestSafeName(t *testing.T) {
	ct := pngcore.ChunkType{'a', '/', 0x00, 'Z'}
	assert.Equal(t, "a__Z", safeName(ct))
}

func TestExtractWithPrefix(t *testing.T) {
	path := writeFixture(t)
	out := t.TempDir()

	res, err := NewChunkExtractor(nil, 0).Extract(path, extractor.ExtractionOptions{
		OutputDir:  out,
		Prefix:     "cover_2",
		ChunkTypes: []string{"IHDR"},
	})
	require.NoError(t, err)
	require.Len(t, res.Chunks, 1)
	assert.Equal(t, filepath.Join(out, "cover_2_000_IHDR_0x8.bin"), res.Chunks[0].Path)
}
