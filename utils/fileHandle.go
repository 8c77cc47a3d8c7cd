package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	UploadDir      = "uploads"
	MaxImageBytes  = 5 << 20
	uploadURLStart = "/uploads/"
)

var (
	ErrUnsupportedImage = errors.New("only jpg, jpeg, png and webp images are allowed")
	ErrImageTooLarge    = errors.New("image must be 5MB or smaller")
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// SaveUploadedImage stores an avatar or thumbnail under uploads/<folder>/ and returns its public URL
func SaveUploadedImage(file *multipart.FileHeader, folder string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return "", ErrUnsupportedImage
	}
	if file.Size > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	destDir := filepath.Join(UploadDir, folder)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	newFilename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return GetFileURL(folder + "/" + newFilename), nil
}

func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return uploadURLStart + filePath
}
