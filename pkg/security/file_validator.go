package security

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxResumeSize is the hard upload limit for resumes
const MaxResumeSize = 5 << 20

var (
	ErrFileEmpty         = errors.New("file is empty")
	ErrFileTooLarge      = errors.New("file exceeds the 5MB limit")
	ErrNoExtension       = errors.New("file has no extension")
	ErrExtensionRejected = errors.New("file extension not allowed")
	ErrContentMismatch   = errors.New("file content does not match extension")
	ErrMIMERejected      = errors.New("MIME type not allowed")
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Extension    string // Lowercase extension including the dot
	DetectedMIME string // MIME type detected from content
}

// Magic byte signatures for resume formats
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
}

// Accepted MIME types per extension. application/octet-stream is never accepted.
var allowedMIME = map[string]map[string]bool{
	".pdf": {"application/pdf": true},
	".doc": {
		"application/msword":        true,
		"application/x-ole-storage": true,
	},
	".docx": {
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"application/zip": true, // DOCX without [Content_Types].xml first in the archive
	},
}

// ValidateResume performs the resume gate:
// 1. Size limit
// 2. Extension whitelist (pdf, doc, docx)
// 3. Magic byte verification (content matches extension)
// 4. Detected MIME whitelist
func ValidateResume(filename string, data []byte, maxSize int64) (FileValidationResult, error) {
	var result FileValidationResult
	if maxSize <= 0 {
		maxSize = MaxResumeSize
	}

	if len(data) == 0 {
		return result, ErrFileEmpty
	}
	if int64(len(data)) > maxSize {
		return result, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return result, ErrNoExtension
	}
	result.Extension = ext

	if _, ok := magicBytes[ext]; !ok {
		return result, fmt.Errorf("%w: %s", ErrExtensionRejected, ext)
	}

	if !validateMagicBytes(ext, data) {
		return result, ErrContentMismatch
	}

	mime := mimetype.Detect(data)
	result.DetectedMIME = mime.String()
	if !mimeAllowed(ext, mime) {
		return result, fmt.Errorf("%w: %s", ErrMIMERejected, mime.String())
	}

	return result, nil
}

// mimeAllowed walks the detected type and its parents (docx -> zip)
func mimeAllowed(ext string, mime *mimetype.MIME) bool {
	allowed := allowedMIME[ext]
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("application/octet-stream") {
			return false
		}
		for candidate := range allowed {
			if m.Is(candidate) {
				return true
			}
		}
	}
	return false
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}

	for _, sig := range magicBytes[ext] {
		if len(data) >= len(sig) && bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// AllowedResumeExtensions lists the accepted extensions for error messages
func AllowedResumeExtensions() []string {
	return []string{".pdf", ".doc", ".docx"}
}
