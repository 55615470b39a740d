package security

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
)

// UploadKind selects the whitelist a file is checked against.
type UploadKind int

const (
	UploadCV UploadKind = iota
	UploadImage
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	// ContentType is the canonical MIME type for the extension, used when storing the file
	ContentType  string
	Error        string
}

// Magic byte signatures per lowercase extension
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}},
	".webp": {{0x52, 0x49, 0x46, 0x46}},
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},
	".docx": {{0x50, 0x4B, 0x03, 0x04}},
}

var allowedExtensions = map[UploadKind]map[string]bool{
	UploadCV: {
		".pdf":  true,
		".doc":  true,
		".docx": true,
	},
	UploadImage: {
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	},
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// application/octet-stream is never accepted on its own
var allowedMIMETypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/zip": true,
}

// ValidateFile checks extension whitelist, magic bytes and sniffed MIME type.
func ValidateFile(kind UploadKind, filename string, data []byte) FileValidationResult {
	detected := http.DetectContentType(data)
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	result := FileValidationResult{DetectedMIME: detected}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if !allowedExtensions[kind][ext] {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension"
		return result
	}

	if detected == "application/octet-stream" {
		// Legacy .doc files sniff as octet-stream; magic bytes were already verified
		if ext != ".doc" && ext != ".docx" {
			result.Error = "file type could not be determined"
			return result
		}
	} else if !allowedMIMETypes[detected] {
		result.Error = "MIME type not allowed: " + detected
		return result
	}

	result.ContentType = contentTypes[ext]
	result.Valid = true
	return result
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// AllowedExtensions lists the accepted extensions for a kind, for error messages.
func AllowedExtensions(kind UploadKind) []string {
	out := make([]string, 0, len(allowedExtensions[kind]))
	for ext := range allowedExtensions[kind] {
		out = append(out, ext)
	}
	return out
}
