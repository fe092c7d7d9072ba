package client

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/polli"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image")

func serveImage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png; charset=binary")
	_, _ = w.Write(pngBytes)
}

func TestImageURL(t *testing.T) {
	c, _, rec := newTestClient(t, serveImage, func(cfg *Config) {
		cfg.Auth = Auth{Referrer: "app", Token: "tok"}
	})
	base := c.Config().ImagePromptBase

	got, err := c.ImageURL("a cat", polli.WithImageSeed(42))
	require.NoError(t, err)
	assert.Equal(t, base+"/a%20cat?height=512&model=flux&nologo=true&referrer=app&safe=false&seed=42&token=tok&width=512", got)

	got, err = c.ImageURL("a cat", polli.WithImageSeed(1), polli.WithImageSize(1024, 768),
		polli.WithImageModel("turbo"), polli.WithNoLogo(false), polli.WithEnhance(), polli.WithImagePrivate(true))
	require.NoError(t, err)
	assert.Contains(t, got, "width=1024")
	assert.Contains(t, got, "height=768")
	assert.Contains(t, got, "model=turbo")
	assert.Contains(t, got, "nologo=false")
	assert.Contains(t, got, "enhance=true")
	assert.Contains(t, got, "private=true")

	_, err = c.ImageURL("")
	assert.ErrorIs(t, err, polli.ErrEmptyPrompt)
	assert.Empty(t, rec.all())
}

func TestGenerateImage(t *testing.T) {
	c, _, rec := newTestClient(t, serveImage)

	img, err := c.GenerateImage(context.Background(), "a red fox", polli.WithImageSeed(7))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, 7, img.Seed)

	got := rec.last(t)
	assert.Equal(t, "/prompt/a red fox", got.Path)
	assert.Equal(t, "7", got.Query.Get("seed"))
	assert.Equal(t, "false", got.Query.Get("safe"))
	assert.Equal(t, "flux", got.Query.Get("model"))
}

func TestGenerateImageRandomSeed(t *testing.T) {
	c, _, _ := newTestClient(t, serveImage)
	img, err := c.GenerateImage(context.Background(), "x")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.Seed, 0)
	assert.Contains(t, img.URL, "seed=")
}

func TestGenerateImageToFile(t *testing.T) {
	c, _, _ := newTestClient(t, serveImage)
	path := filepath.Join(t.TempDir(), "out.png")

	got, err := c.GenerateImageToFile(context.Background(), "x", path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestSaveImageTimestamped(t *testing.T) {
	c, _, rec := newTestClient(t, serveImage)
	dir := filepath.Join(t.TempDir(), "nested", "images")

	path, err := c.SaveImageTimestamped(context.Background(), "a lighthouse",
		polli.WithImagesDir(dir), polli.WithFilename("pre_", "_suf"), polli.WithExt(".png"),
		polli.WithImageSeed(3))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, regexp.MustCompile(`^pre_\d{8}_\d{6}_suf\.png$`), filepath.Base(path))
	assert.Equal(t, "pre_20250314_150926_suf.png", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	// The fixed seed is ignored so repeated saves differ.
	assert.NotEqual(t, "3", rec.last(t).Query.Get("seed"))
}

func TestSaveImageTimestampedDefaultExt(t *testing.T) {
	c, _, _ := newTestClient(t, serveImage)
	path, err := c.SaveImageTimestamped(context.Background(), "x", polli.WithImagesDir(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, "20250314_150926.jpeg", filepath.Base(path))
}

func TestFetchImage(t *testing.T) {
	c, _, rec := newTestClient(t, serveImage)
	imageURL := c.Config().TextPromptBase + "/some/image.png"

	img, err := c.FetchImage(context.Background(), imageURL)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, imageURL, img.URL)
	assert.Equal(t, "/some/image.png", rec.last(t).Path)

	path := filepath.Join(t.TempDir(), "f.png")
	_, err = c.FetchImageToFile(context.Background(), imageURL, path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = c.FetchImage(context.Background(), " ")
	assert.True(t, polli.IsUserInput(err))
}

func TestDownloadFailureLeavesNoFile(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "gone")
	})
	path := filepath.Join(t.TempDir(), "missing.png")

	_, err := c.GenerateImageToFile(context.Background(), "x", path)
	var httpErr *polli.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.NoFileExists(t, path)
}
