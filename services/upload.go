package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxUploadSize = 25 * 1024 * 1024 // 25MB
	// OrderFilePrefix is the storage prefix for order attachments
	OrderFilePrefix = "orders"
)

// allowedUploadTypes maps accepted extensions to their MIME types
var allowedUploadTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

var uploadNamePattern = regexp.MustCompile(`^order-\d+-\d+\.[a-z0-9]+$`)

// ValidateOrderUpload checks size, extension and sniffed content type of an order attachment
func ValidateOrderUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxUploadSize {
		return Invalid("file", "File size exceeds the maximum limit of 25MB")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed, ok := allowedUploadTypes[ext]
	if !ok {
		return Invalid("file", "Invalid file type. Only images, PDFs, and Word documents are allowed.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}
	for m := mt; m != nil; m = m.Parent() {
		for _, want := range allowed {
			if m.Is(want) {
				return nil
			}
		}
	}
	return Invalid("file", fmt.Sprintf("File content (%s) does not match its extension", mt.String()))
}

// GenerateOrderFileName returns order-<unix millis>-<random><ext>
func GenerateOrderFileName(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("order-%d-%d%s", time.Now().UnixMilli(), uuid.New().ID()%1_000_000_000, ext)
}

// OrderFileKey maps a generated file name to its storage key, rejecting anything else
func OrderFileKey(fileName string) (string, error) {
	if !uploadNamePattern.MatchString(fileName) {
		return "", Invalid("filename", "Invalid file name")
	}
	return path.Join(OrderFilePrefix, fileName), nil
}

// SaveOrderUpload validates and stores an order attachment
func SaveOrderUpload(ctx context.Context, storage StorageProvider, fileHeader *multipart.FileHeader) (*StorageResult, error) {
	if storage == nil || !storage.IsConfigured() {
		return nil, &StorageError{Op: "store upload", Err: errors.New("storage is not configured")}
	}
	if err := ValidateOrderUpload(fileHeader); err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	head := make([]byte, 3072)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	contentType := mimetype.Detect(head[:n]).String()
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to reset file pointer: %w", err)
	}

	fileName := GenerateOrderFileName(fileHeader.Filename)
	key, err := OrderFileKey(fileName)
	if err != nil {
		return nil, err
	}

	result, err := storage.UploadReader(ctx, src, key, contentType, fileHeader.Size)
	if err != nil {
		return nil, &StorageError{Op: "store upload", Err: err}
	}
	result.FileOriginalName = fileHeader.Filename
	return result, nil
}
