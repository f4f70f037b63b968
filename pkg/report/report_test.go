package report

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"PNGProbe/pkg/models"
	"PNGProbe/pkg/png"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, chunks ...png.Chunk) []png.Chunk {
	t.Helper()
	res, err := png.NewParser(png.Options{}).Parse(png.Encode(chunks))
	require.NoError(t, err)
	require.NoError(t, res.Warning)
	return res.Chunks
}

func mk(tag string, payload []byte) png.Chunk {
	ct, err := png.ParseChunkType(tag)
	if err != nil {
		panic(err)
	}
	return png.Chunk{Type: ct, Payload: payload}
}

func header(w, h uint32) []byte {
	b := binary.BigEndian.AppendUint32(nil, w)
	b = binary.BigEndian.AppendUint32(b, h)
	return append(b, 8, 6, 0, 0, 1)
}

func TestRecords(t *testing.T) {
	chunks := parse(t,
		mk("IHDR", header(640, 480)),
		mk("tEXt", []byte("Author\x00Jane Doe")),
		mk("IEND", nil),
	)

	recs := Records("in.png", chunks, 0)
	require.Len(t, recs, 3)
	assert.Equal(t, models.ChunkRecord{
		InputFile:  "in.png",
		ChunkType:  "tEXt",
		Offset:     33,
		Length:     15,
		CRCValid:   true,
		IsStandard: true,
		Data:       `Author="Jane Doe"`,
	}, recs[1])
	assert.Equal(t, "width=640 height=480 bit_depth=8 color_type=6 compression=0 filter_method=0 interlace=1", recs[0].Data)
	assert.Equal(t, "", recs[2].Data)
}

func TestRecordsTruncateData(t *testing.T) {
	long := strings.Repeat("é", 600)
	chunks := parse(t, mk("tEXt", []byte("k\x00"+long)))

	recs := Records("x.png", chunks, 500)
	assert.Equal(t, 500, len([]rune(recs[0].Data)))

	recs = Records("x.png", chunks, 10)
	assert.Equal(t, `k="`+strings.Repeat("é", 7), recs[0].Data)
	assert.Equal(t, 10, len([]rune(recs[0].Data)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}

func TestSummarize(t *testing.T) {
	data := png.Encode([]png.Chunk{
		mk("IHDR", header(100, 50)),
		mk("teSt", []byte("x")),
		mk("IDAT", []byte{1, 2, 3}),
		mk("IHDR", header(1, 1)),
		mk("IEND", nil),
	})
	// corrupt the IDAT payload
	data[8+25+13+8] ^= 0xFF

	res, err := png.NewParser(png.Options{}).Parse(data)
	require.NoError(t, err)

	s := Summarize(res.Chunks)
	assert.Equal(t, 5, s.TotalChunks)
	assert.Equal(t, 1, s.InvalidCRCs)
	assert.Equal(t, 1, s.NonStandard)
	assert.Equal(t, []models.ChunkRef{{Type: "IDAT", Offset: 46}}, s.InvalidCRCChunks)
	assert.Equal(t, []models.ChunkRef{{Type: "teSt", Offset: 33}}, s.NonStandardChunks)
	require.NotNil(t, s.Header)
	assert.Equal(t, models.HeaderFields{Width: 100, Height: 50, BitDepth: 8, ColorType: 6, InterlaceMethod: 1}, *s.Header)
}

func TestSummarizeMalformedFirstIHDR(t *testing.T) {
	s := Summarize(parse(t, mk("IHDR", []byte{1, 2, 3}), mk("IHDR", header(9, 9))))
	assert.Nil(t, s.Header)
	assert.Equal(t, 2, s.TotalChunks)
}

func TestWriteCSV(t *testing.T) {
	recs := Records("a.png", parse(t, mk("IHDR", header(2, 3)), mk("zzZz", []byte("a,b"))), 0)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"a.png", "IHDR", "8", "13", "True", "True", recs[0].Data}, rows[1])
	assert.Equal(t, []string{"a.png", "zzZz", "33", "3", "True", "False", "612c62"}, rows[2])
}

func TestWriteJSON(t *testing.T) {
	chunks := parse(t, mk("IHDR", header(2, 3)))
	results := []*models.AnalysisResult{{
		FileType: "png",
		Filename: "a.png",
		Records:  Records("a.png", chunks, 0),
		Summary:  Summarize(chunks),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, results))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a.png", decoded[0]["filename"])
	summary := decoded[0]["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["total_chunks"])
	assert.EqualValues(t, 2, summary["ihdr"].(map[string]any)["width"])
}

func TestWriteSummary(t *testing.T) {
	data := png.Encode([]png.Chunk{mk("IHDR", header(100, 50)), mk("evIL", []byte("x")), mk("IEND", nil)})
	data[len(data)-1] ^= 0xFF // IEND CRC

	res, err := png.NewParser(png.Options{}).Parse(data)
	require.NoError(t, err)
	r := &models.AnalysisResult{Filename: "a.png", Summary: Summarize(res.Chunks), Warning: "truncated"}

	var buf bytes.Buffer
	when := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	require.NoError(t, WriteSummary(&buf, when, []*models.AnalysisResult{r}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "PNGProbe Summary Report - 2026-10-19T12:00:00Z\n"))
	assert.Contains(t, out, "Total Chunks: 3\n")
	assert.Contains(t, out, "Invalid CRCs: 1\n")
	assert.Contains(t, out, "Non-Standard Chunks: 1\n")
	assert.Contains(t, out, "  Width: 100\n  Height: 50\n")
	assert.Contains(t, out, "Invalid CRC Chunks:\n  IEND at offset 0x2e\n")
	assert.Contains(t, out, "Non-Standard Chunks:\n  evIL at offset 0x21\n")
	assert.Contains(t, out, "Warning: truncated\n")
	assert.NotContains(t, out, "File: ")

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, when, []*models.AnalysisResult{r, r}))
	assert.Equal(t, 2, strings.Count(buf.String(), "File: a.png\n"))
}

func TestRenderTable(t *testing.T) {
	recs := Records("a.png", parse(t, mk("tEXt", []byte("Comment\x00"+strings.Repeat("z", 200)))), 0)

	var buf bytes.Buffer
	RenderTable(&buf, recs, 20)
	out := buf.String()
	assert.Contains(t, out, "tEXt")
	assert.Contains(t, out, "0x8")
	assert.Contains(t, out, `Comment="zzzzzzzzzzz...`)
}
