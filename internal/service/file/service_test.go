package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x + y), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadPunchPhoto_StoresJPEG(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewFileService(store)
	ctx := context.Background()

	date := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	path, err := svc.UploadPunchPhoto(ctx, "EMP/001", date, bytes.NewReader(testPNG(t, 64, 48)), "selfie.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "attendance/2024-05-01/EMP_001-"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	rc, err := svc.OpenPunchPhoto(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)

	_, err = jpeg.Decode(bytes.NewReader(content))
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteFile(ctx, path))
	_, err = svc.OpenPunchPhoto(ctx, path)
	assert.Error(t, err)
}

func TestUploadPunchPhoto_RejectsExtension(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = NewFileService(store).UploadPunchPhoto(context.Background(), "EMP001", time.Now(), strings.NewReader("x"), "notes.txt")
	assert.ErrorIs(t, err, ErrInvalidPhotoType)
}

func TestResizeImage_KeepsAspectRatio(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4000, 2000))
	out := resizeImage(src, 1280)
	assert.Equal(t, 1280, out.Bounds().Dx())
	assert.Equal(t, 640, out.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	assert.Equal(t, small, resizeImage(small, 1280))
}
