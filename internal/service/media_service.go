package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "findhouse/internal/errors"
)

const (
	// MaxImageSize is the per-file upload limit.
	MaxImageSize = 5 * 1024 * 1024
	// MaxUploadFiles is the per-request upload limit, matching the listing
	// image cap.
	MaxUploadFiles = 10
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageInfo describes one stored image.
type ImageInfo struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	Mimetype     string `json:"mimetype"`
	URL          string `json:"url"`
}

// MediaService stores uploaded listing images on local disk under
// uuid-prefixed filenames.
type MediaService interface {
	SaveUpload(ctx context.Context, originalName, contentType string, size int64, r io.Reader) (*ImageInfo, error)
	ImagePath(filename string) (string, error)
	Info(filename string) (*ImageInfo, error)
	Delete(ctx context.Context, filename string) error
	DeleteByURL(ctx context.Context, url string) error
	List(ctx context.Context) ([]ImageInfo, error)
}

type mediaService struct {
	dir     string
	baseURL string
}

// NewMediaService creates the upload directory if needed.
func NewMediaService(dir, baseURL string) (MediaService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &mediaService{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// SaveUpload validates and stores one uploaded image.
func (s *mediaService) SaveUpload(ctx context.Context, originalName, contentType string, size int64, r io.Reader) (*ImageInfo, error) {
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return nil, apperrors.ErrUnsupportedImage
	}
	if size > MaxImageSize {
		return nil, apperrors.ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := mimeByExt[ext]; !ok {
		return nil, apperrors.ErrUnsupportedImage
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	// The declared size comes from the multipart header; cap the copy too so
	// a lying client cannot exceed the limit.
	written, err := io.Copy(dst, io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("write image file: %w", err)
	}
	if written > MaxImageSize {
		_ = os.Remove(dst.Name())
		return nil, apperrors.ErrImageTooLarge
	}

	return &ImageInfo{
		Filename:     filename,
		OriginalName: originalName,
		Size:         written,
		Mimetype:     strings.ToLower(contentType),
		URL:          s.imageURL(filename),
	}, nil
}

// ImagePath resolves a stored image to its on-disk path.
func (s *mediaService) ImagePath(filename string) (string, error) {
	if !safeFilename(filename) {
		return "", apperrors.ErrImageNotFound
	}
	p := filepath.Join(s.dir, filename)
	if _, err := os.Stat(p); err != nil {
		return "", apperrors.ErrImageNotFound
	}
	return p, nil
}

// Info returns metadata for a stored image.
func (s *mediaService) Info(filename string) (*ImageInfo, error) {
	p, err := s.ImagePath(filename)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(p)
	if err != nil {
		return nil, apperrors.ErrImageNotFound
	}
	return &ImageInfo{
		Filename:     filename,
		OriginalName: filename,
		Size:         stat.Size(),
		Mimetype:     mimeFromExt(filename),
		URL:          s.imageURL(filename),
	}, nil
}

// Delete removes a stored image.
func (s *mediaService) Delete(ctx context.Context, filename string) error {
	p, err := s.ImagePath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// DeleteByURL removes the stored image a listing image URL points at. Used
// by post deletion to clean up attached files.
func (s *mediaService) DeleteByURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return apperrors.ErrImageNotFound
	}
	return s.Delete(ctx, path.Base(u.Path))
}

// List returns metadata for every stored image.
func (s *mediaService) List(ctx context.Context) ([]ImageInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}
	images := make([]ImageInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := s.Info(entry.Name())
		if err != nil {
			continue
		}
		images = append(images, *info)
	}
	return images, nil
}

func (s *mediaService) imageURL(filename string) string {
	return s.baseURL + "/images/" + filename
}

func safeFilename(name string) bool {
	return name != "" && name == filepath.Base(name) && !strings.Contains(name, "..")
}

func mimeFromExt(filename string) string {
	if m, ok := mimeByExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return m
	}
	return "application/octet-stream"
}
