package printing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperSizeDimensions(t *testing.T) {
	w, h := PaperA4.Dimensions()
	assert.Equal(t, 210.0, w)
	assert.Equal(t, 297.0, h)

	w, h = PaperLetter.Dimensions()
	assert.Equal(t, 215.9, w)
	assert.Equal(t, 279.4, h)
}

func TestPaperSizeIsValid(t *testing.T) {
	assert.True(t, PaperA4.IsValid())
	assert.True(t, PaperLetter.IsValid())
	assert.False(t, PaperSize("A5").IsValid())
	assert.False(t, PaperSize("").IsValid())
}

func TestRenderRequestValidation(t *testing.T) {
	renderer, err := NewChromedpRenderer(&ChromedpConfig{})
	require.NoError(t, err)
	defer renderer.Close()

	ctx := context.Background()

	_, err = renderer.Render(ctx, nil)
	assertRenderCode(t, err, ErrCodeInvalidHTML)

	_, err = renderer.Render(ctx, &RenderRequest{HTML: "   ", PaperSize: PaperA4})
	assertRenderCode(t, err, ErrCodeInvalidHTML)

	_, err = renderer.Render(ctx, &RenderRequest{HTML: "<p>hi</p>", PaperSize: "B5"})
	assertRenderCode(t, err, ErrCodeInvalidPaperSize)
}

func assertRenderCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	renderErr, ok := err.(*RenderError)
	require.True(t, ok)
	assert.Equal(t, code, renderErr.Code)
}

func TestBuildCompleteHTMLWrapsFragments(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	html := r.buildCompleteHTML(&RenderRequest{HTML: "<p>body</p>", Title: "Report"})
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<title>Report</title>")
	assert.Contains(t, html, "<p>body</p>")

	full := "<!DOCTYPE html><html><body>done</body></html>"
	assert.Equal(t, full, r.buildCompleteHTML(&RenderRequest{HTML: full}))
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("/Type /Pages /Type /Page /Type /Page /Type /Page")
	assert.Equal(t, 3, estimatePageCount(pdf))

	assert.Equal(t, 1, estimatePageCount([]byte("no markers")))
}

func TestRenderErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	err := NewRenderError(ErrCodeRenderTimeout, "timed out", cause)

	assert.Equal(t, "timed out: "+cause.Error(), err.Error())
	assert.Equal(t, cause, err.Unwrap())
}
