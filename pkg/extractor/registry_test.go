package extractor

import (
	"testing"

	"PNGProbe/pkg/models"

	"github.com/stretchr/testify/assert"
)

type stubExtractor struct {
	BaseExtractor
}

func (s *stubExtractor) Extract(string, ExtractionOptions) (*models.ExtractionResult, error) {
	return &models.ExtractionResult{}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := &stubExtractor{NewBaseExtractor("a", []string{"png", "apng"})}
	b := &stubExtractor{NewBaseExtractor("b", []string{"png"})}
	r.Register(a)
	r.Register(b)

	assert.Equal(t, []string{"apng", "png"}, r.GetSupportedFormats())
	assert.Len(t, r.GetExtractorsForFormat("png"), 2)
	assert.Empty(t, r.GetExtractorsForFormat("gif"))
	assert.Same(t, a, r.GetExtractorsForFormat("png")[0])
	assert.True(t, a.CanExtract("apng"))
	assert.False(t, b.CanExtract("apng"))
}
