package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxPhotoSize bounds the raw upload accepted from a punch form.
	MaxPhotoSize = 10 << 20

	photoMaxBytes = 150 * 1024
	photoMinBytes = 50 * 1024
	photoMaxEdge  = 1280
)

var (
	ErrInvalidPhotoType = errors.New("invalid file type: only jpg, jpeg, png allowed")
	ErrPhotoTooLarge    = errors.New("photo must not exceed 10MB")
)

type FileService interface {
	// UploadPunchPhoto stores compressed JPEG evidence and returns its storage path.
	UploadPunchPhoto(ctx context.Context, employeeCode string, date time.Time, file io.Reader, filename string) (string, error)
	OpenPunchPhoto(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// IsAllowedPhoto reports whether filename carries an accepted image extension.
func IsAllowedPhoto(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// UploadPunchPhoto implements FileService.
func (s *fileServiceImpl) UploadPunchPhoto(ctx context.Context, employeeCode string, date time.Time, file io.Reader, filename string) (string, error) {
	if !IsAllowedPhoto(filename) {
		return "", ErrInvalidPhotoType
	}

	buffer, err := io.ReadAll(io.LimitReader(file, MaxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	if len(buffer) > MaxPhotoSize {
		return "", ErrPhotoTooLarge
	}

	compressed, err := compressImage(buffer, photoMaxBytes, photoMinBytes)
	if err != nil {
		return "", fmt.Errorf("failed to compress photo: %w", err)
	}

	// attendance/{date}/{employee}-{uuid}.jpg
	newFilename := fmt.Sprintf("%s-%s.jpg", safeSegment(employeeCode), uuid.New().String())
	path := filepath.Join("attendance", date.Format("2006-01-02"), newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload punch photo: %w", err)
	}
	return uploadedPath, nil
}

// OpenPunchPhoto implements FileService.
func (s *fileServiceImpl) OpenPunchPhoto(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, path)
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func safeSegment(v string) string {
	v = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, v)
	if v == "" {
		return "unknown"
	}
	return v
}

// compressImage re-encodes to JPEG, lowering quality and then downscaling
// until the result fits under maxSize. Inputs already in range are kept.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "jpeg" && len(buffer) <= maxSize {
		return buffer, nil
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	resized := resizeImage(img, photoMaxEdge)
	for quality := 80; quality >= 40; quality -= 10 {
		compressed, err = encodeJPEG(resized, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize || len(compressed) < minSize {
			break
		}
	}
	return compressed, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage scales src so its longest edge is at most maxEdge, keeping the aspect ratio.
func resizeImage(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
