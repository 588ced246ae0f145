package services

import (
	"log"
	"path/filepath"
	"strings"

	"gwc-community-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MediaService accepts image uploads from the admin forms and stores them on
// the CDN bucket, handing back the public URL the forms embed.
type MediaService struct{}

func NewMediaService() *MediaService {
	return &MediaService{}
}

// Upload takes a multipart form with a "file" part and an "upload_preset"
// field naming the collection the image belongs to (tournaments, blog,
// avatars). The preset becomes the key prefix.
func (s *MediaService) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "file is required"})
	}

	preset := slug.Make(c.FormValue("upload_preset"))
	if preset == "" {
		preset = "uploads"
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := "uploads/" + preset + "/" + uuid.NewString() + ext

	url, err := utils.UploadMedia(fileHeader, key)
	if err != nil {
		log.Printf("❌ media upload failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload file"})
	}

	return c.JSON(fiber.Map{"secure_url": url})
}
