package services

import (
	"errors"
	"strings"
	"time"

	"gwc-community-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type BlogService struct {
	DB  *gorm.DB
	Hub *LiveHub
}

func NewBlogService(db *gorm.DB, hub *LiveHub) *BlogService {
	return &BlogService{DB: db, Hub: hub}
}

// uniqueSlug slugifies the title and de-dupes against taken, suffixing a
// short random id when the plain slug is already in use.
func uniqueSlug(title string, taken func(s string) bool) string {
	base := slug.Make(title)
	if base == "" {
		base = "post"
	}
	if !taken(base) {
		return base
	}
	return base + "-" + uuid.NewString()[:8]
}

func (s *BlogService) slugTaken(slugStr string) bool {
	var count int64
	s.DB.Model(&models.BlogPost{}).Where("slug = ?", slugStr).Count(&count)
	return count > 0
}

type blogPostRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Excerpt    string     `json:"excerpt"`
	CoverImage string     `json:"cover_image"`
	Category   string     `json:"category"`
	Tags       []string   `json:"tags"`
	Published  bool       `json:"published"`
	PublishAt  *time.Time `json:"publish_at,omitempty"`
}

func (s *BlogService) CreatePost(c *fiber.Ctx) error {
	var req blogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title and content are required"})
	}
	if !models.ValidBlogCategory(req.Category) {
		return c.Status(400).JSON(fiber.Map{"error": "unknown category"})
	}
	if req.Published && req.PublishAt != nil {
		return c.Status(400).JSON(fiber.Map{"error": "publish_at only applies to unpublished posts"})
	}

	displayName, _ := c.Locals("display_name").(string)
	post := models.BlogPost{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Slug:       uniqueSlug(req.Title, s.slugTaken),
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		CoverImage: req.CoverImage,
		Category:   req.Category,
		Tags:       req.Tags,
		Author:     displayName,
		AuthorID:   userID(c),
		Published:  req.Published,
		PublishAt:  req.PublishAt,
	}
	if err := s.DB.Create(&post).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create post"})
	}

	s.Hub.Notify(TopicBlogPosts)
	return c.Status(201).JSON(post)
}

// GetAllPosts lists posts newest first. Unpublished posts only show up for
// admin sessions.
func (s *BlogService) GetAllPosts(c *fiber.Ctx) error {
	var posts []models.BlogPost
	q := s.DB.Order("created_at DESC")
	if !isAdmin(c) {
		q = q.Where("published = ?", true)
	}
	if err := q.Find(&posts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list posts"})
	}
	return c.JSON(posts)
}

func (s *BlogService) GetPostByID(c *fiber.Ctx) error {
	var post models.BlogPost
	id := c.Params("id")
	if err := s.DB.Where("id = ? OR slug = ?", id, id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "post not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load post"})
	}
	if !post.Published && !isAdmin(c) {
		return c.Status(404).JSON(fiber.Map{"error": "post not found"})
	}
	return c.JSON(post)
}

func (s *BlogService) UpdatePost(c *fiber.Ctx) error {
	var post models.BlogPost
	if err := s.DB.First(&post, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "post not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load post"})
	}

	var req blogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title and content are required"})
	}
	if !models.ValidBlogCategory(req.Category) {
		return c.Status(400).JSON(fiber.Map{"error": "unknown category"})
	}

	// Slug stays stable across edits; published links keep working.
	post.Title = req.Title
	post.Content = req.Content
	post.Excerpt = req.Excerpt
	post.CoverImage = req.CoverImage
	post.Category = req.Category
	post.Tags = req.Tags
	post.Published = req.Published
	post.PublishAt = req.PublishAt
	if post.Published {
		post.PublishAt = nil
	}

	if err := s.DB.Save(&post).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update post"})
	}

	s.Hub.Notify(TopicBlogPosts)
	return c.JSON(post)
}

func (s *BlogService) DeletePost(c *fiber.Ctx) error {
	if err := requireConfirm(c); err != nil {
		return err
	}

	postID := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.BlogPost{}, "id = ?", postID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		// Comments go with the post.
		return tx.Delete(&models.BlogComment{}, "post_id = ?", postID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "post not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete post"})
	}

	s.Hub.Notify(TopicBlogPosts)
	s.Hub.Notify(CommentTopic(postID))
	return c.JSON(fiber.Map{"deleted": true})
}

func (s *BlogService) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Comment) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "comment is required"})
	}

	postID := c.Params("id")
	var post models.BlogPost
	if err := s.DB.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "post not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load post"})
	}
	if !post.Published && !isAdmin(c) {
		return c.Status(404).JSON(fiber.Map{"error": "post not found"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID(c)).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load user"})
	}

	comment := models.BlogComment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		UserEmail: user.Email,
		Comment:   req.Comment,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create comment"})
	}

	s.Hub.Notify(CommentTopic(postID))
	return c.Status(201).JSON(comment)
}

func (s *BlogService) GetComments(c *fiber.Ctx) error {
	var comments []models.BlogComment
	if err := s.DB.Where("post_id = ?", c.Params("id")).
		Order("created_at DESC").Find(&comments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list comments"})
	}
	return c.JSON(comments)
}

// DeleteComment removes a comment. Allowed for the comment author and any
// admin; everyone else gets the same PermissionDenied as the other
// admin-gated mutations.
func (s *BlogService) DeleteComment(c *fiber.Ctx) error {
	if err := requireConfirm(c); err != nil {
		return err
	}

	var comment models.BlogComment
	if err := s.DB.First(&comment, "id = ?", c.Params("comment_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "comment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load comment"})
	}
	if comment.UserID != userID(c) && !isAdmin(c) {
		return c.Status(403).JSON(fiber.Map{"error": "permission_denied"})
	}

	if err := s.DB.Delete(&comment).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete comment"})
	}

	s.Hub.Notify(CommentTopic(comment.PostID))
	return c.JSON(fiber.Map{"deleted": true})
}
