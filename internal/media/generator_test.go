package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/pkg/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeProvider struct {
	data []byte
	mime string
	err  error
	wait time.Duration
	got  Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Render(ctx context.Context, req Request) ([]byte, string, error) {
	f.got = req
	if f.wait > 0 {
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(f.wait):
		}
	}
	return f.data, f.mime, f.err
}

func newGenerator(p Provider, timeout time.Duration) *Generator {
	return NewGenerator(p, config.ImageConfig{
		StylePrefix: "Flat illustration: ",
		SeedChars:   10,
		Timeout:     timeout,
	}, nil, logger.Nop())
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "style: hello", BuildPrompt("style: ", "hello", 180))
	assert.Equal(t, "p:abc", BuildPrompt("p:", "abcdef", 3))
	// counts characters, not bytes
	assert.Equal(t, "ééé", BuildPrompt("", "éééé", 3))

	long := strings.Repeat("x", 500)
	assert.Len(t, BuildPrompt("", long, 180), 180)
}

func TestGenerate_Success(t *testing.T) {
	p := &fakeProvider{data: pngHeader, mime: "image/png"}
	res := newGenerator(p, time.Second).Generate(t.Context(), "Conversion rose 12% after the test")

	img, ok := res.(Image)
	require.True(t, ok, "expected Image, got %T", res)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.True(t, strings.HasPrefix(img.DataURI, "data:image/png;base64,"))
	assert.Equal(t, "Flat illustration: Conversion", p.got.Prompt)
	assert.Equal(t, "Conversion", p.got.Seed)
}

func TestGenerate_SniffsMissingContentType(t *testing.T) {
	p := &fakeProvider{data: pngHeader, mime: "application/octet-stream"}
	res := newGenerator(p, time.Second).Generate(t.Context(), "post")

	img, ok := res.(Image)
	require.True(t, ok)
	assert.Equal(t, "image/png", img.MIMEType)
}

func TestGenerate_FailureBecomesNoImage(t *testing.T) {
	p := &fakeProvider{err: errors.New("model loading")}
	res := newGenerator(p, time.Second).Generate(t.Context(), "post")

	none, ok := res.(NoImage)
	require.True(t, ok)
	assert.True(t, errors.Is(none.Err, ErrImageGeneration))
	assert.Contains(t, none.Reason, "model loading")
}

func TestGenerate_NonImageBodyBecomesNoImage(t *testing.T) {
	p := &fakeProvider{data: []byte(`{"error":"busy"}`), mime: "application/json"}
	res := newGenerator(p, time.Second).Generate(t.Context(), "post")

	_, ok := res.(NoImage)
	assert.True(t, ok)
}

func TestGenerate_Timeout(t *testing.T) {
	p := &fakeProvider{data: pngHeader, wait: 2 * time.Second}
	res := newGenerator(p, 50*time.Millisecond).Generate(t.Context(), "post")

	none, ok := res.(NoImage)
	require.True(t, ok)
	assert.True(t, errors.Is(none.Err, ErrImageGeneration))
}

func TestResolveMIME(t *testing.T) {
	assert.Equal(t, "image/jpeg", ResolveMIME("image/JPEG; charset=binary", nil))
	assert.Equal(t, "image/png", ResolveMIME("", pngHeader))
	assert.True(t, strings.HasPrefix(ResolveMIME("", []byte("hello")), "text/plain"))
}
