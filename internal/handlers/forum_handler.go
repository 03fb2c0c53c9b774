package handlers

import (
	"errors"
	"log"

	"garrison/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ForumHandler handles HTTP requests for forum posts and site statistics.
type ForumHandler struct {
	service  *services.ForumService
	validate *validator.Validate
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(service *services.ForumService) *ForumHandler {
	return &ForumHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the forum routes.
func (h *ForumHandler) RegisterRoutes(router fiber.Router) {
	forumRoutes := router.Group("/forum")
	forumRoutes.Get("/posts", h.HandleListPosts)
	forumRoutes.Post("/create", h.HandleCreatePost)
	forumRoutes.Get("/stats", h.HandleGetStatistics)
	forumRoutes.Put("/stats", h.HandleSetStatistic)
}

// HandleListPosts returns posts, optionally filtered by ?type=.
func (h *ForumHandler) HandleListPosts(c *fiber.Ctx) error {
	postType := c.Query("type", "all")

	posts, err := h.service.ListPosts(postType)
	if err != nil {
		log.Printf("Error getting posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"posts": posts,
	})
}

// CreatePostRequest represents the request body for post creation.
type CreatePostRequest struct {
	AuthorID  string  `json:"author_id" validate:"required"`
	Title     string  `json:"title" validate:"required"`
	Content   string  `json:"content" validate:"required"`
	PostType  string  `json:"post_type"`
	FactionID *string `json:"faction_id"`
}

// HandleCreatePost creates a forum post.
func (h *ForumHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing post create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Author, title and content required",
		})
	}

	post, err := h.service.CreatePost(req.AuthorID, req.Title, req.Content, req.PostType, req.FactionID)
	if err != nil {
		if errors.Is(err, services.ErrMissingPostFields) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Author, title and content required",
			})
		}
		log.Printf("Error creating post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"id":      post.ID,
	})
}

// HandleGetStatistics returns every statistic counter.
func (h *ForumHandler) HandleGetStatistics(c *fiber.Ctx) error {
	stats, err := h.service.GetStatistics()
	if err != nil {
		log.Printf("Error getting statistics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"statistics": stats,
	})
}

// SetStatisticRequest represents the request body for a statistic upsert.
type SetStatisticRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// HandleSetStatistic upserts a statistic counter.
func (h *ForumHandler) HandleSetStatistic(c *fiber.Ctx) error {
	var req SetStatisticRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing statistic request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Key and value required",
		})
	}

	if err := h.service.SetStatistic(req.Key, req.Value); err != nil {
		if errors.Is(err, services.ErrMissingStatFields) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Key and value required",
			})
		}
		log.Printf("Error upserting statistic %s: %v", req.Key, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
