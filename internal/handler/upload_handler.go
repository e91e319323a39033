package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const maxUploadSize = 5 * 1024 * 1024 // 5MB

type UploadHandler struct {
	uploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

// Upload accepts an image (≤5MB) and stores it under a content-hash name
// POST /api/v1/upload
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "No file uploaded"})
	}

	if fileHeader.Size > maxUploadSize {
		return c.Status(400).JSON(fiber.Map{"error": "File too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer file.Close()

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to read file"})
	}
	if len(buf) > maxUploadSize {
		return c.Status(400).JSON(fiber.Map{"error": "File too large"})
	}

	// MIME sniffed from content, not trusted from the client header
	if !strings.HasPrefix(http.DetectContentType(buf), "image/") {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid file type"})
	}

	sum := sha256.Sum256(buf)
	ext := filepath.Ext(fileHeader.Filename)
	filename := fmt.Sprintf("%s-%d%s", hex.EncodeToString(sum[:])[:8], time.Now().UnixMilli(), ext)

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save file"})
	}
	if err := os.WriteFile(filepath.Join(h.uploadDir, filename), buf, 0o644); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save file"})
	}

	return c.JSON(fiber.Map{"url": "/uploads/" + filename})
}
