package security_test

import (
	"context"
	"testing"

	"jobboard-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestValidateFile(t *testing.T) {
	pdf := append([]byte("%PDF-1.7\n"), make([]byte, 64)...)
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

	t.Run("Should accept a PDF CV", func(t *testing.T) {
		res := security.ValidateFile(security.UploadCV, "resume.PDF", pdf)
		assert.True(t, res.Valid, res.Error)
		assert.Equal(t, ".pdf", res.Extension)
		assert.Equal(t, "application/pdf", res.DetectedMIME)
		assert.Equal(t, "application/pdf", res.ContentType)
	})

	t.Run("Should reject an image uploaded as CV", func(t *testing.T) {
		res := security.ValidateFile(security.UploadCV, "photo.png", png)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "extension not allowed")
	})

	t.Run("Should reject spoofed content", func(t *testing.T) {
		res := security.ValidateFile(security.UploadCV, "resume.pdf", png)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "does not match")
	})

	t.Run("Should accept a PNG image", func(t *testing.T) {
		res := security.ValidateFile(security.UploadImage, "avatar.png", png)
		assert.True(t, res.Valid, res.Error)
	})

	t.Run("Should reject files without extension", func(t *testing.T) {
		res := security.ValidateFile(security.UploadImage, "avatar", png)
		assert.False(t, res.Valid)
	})
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", security.MaskEmail("jane@example.com"))
	assert.Equal(t, "***", security.MaskEmail("nope"))
	assert.Equal(t, "", security.MaskEmail(""))
}

func TestAuditLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	al := security.NewAuditLoggerWith(zap.New(core), "jobboard", "test")

	al.LogLoginFailed(context.Background(), "jane@example.com", "10.0.0.1", "req-1", "invalid_credentials")
	al.LogAdminDenied(context.Background(), "user-1", "10.0.0.1", "req-2", "/v1/admin/users")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "login_failed", entries[0].Message)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
		assert.Equal(t, "j***@example.com", entries[0].ContextMap()["subject_value"])
		assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	}
}
