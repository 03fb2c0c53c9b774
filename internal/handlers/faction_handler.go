package handlers

import (
	"errors"
	"log"

	"garrison/internal/services"
	"garrison/internal/updates"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FactionHandler handles HTTP requests for factions.
type FactionHandler struct {
	service  *services.FactionService
	validate *validator.Validate
}

// NewFactionHandler creates a new FactionHandler.
func NewFactionHandler(service *services.FactionService) *FactionHandler {
	return &FactionHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the faction routes. moderationGate middleware, if
// any, runs before the faction update endpoint only.
func (h *FactionHandler) RegisterRoutes(router fiber.Router, moderationGate ...fiber.Handler) {
	factionRoutes := router.Group("/factions")
	factionRoutes.Get("/list", h.HandleListFactions)
	factionRoutes.Post("/create", h.HandleCreateFaction)

	updateChain := append(append([]fiber.Handler{}, moderationGate...), h.HandleUpdateFaction)
	factionRoutes.Put("/update", updateChain...)
}

// HandleListFactions returns every faction grouped by type, then name.
func (h *FactionHandler) HandleListFactions(c *fiber.Ctx) error {
	factions, err := h.service.ListFactions()
	if err != nil {
		log.Printf("Error getting all factions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"factions": factions,
	})
}

// CreateFactionRequest represents the request body for faction creation.
type CreateFactionRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type"`
	IsOpen      *bool  `json:"is_open"`
	Description string `json:"description"`
}

// HandleCreateFaction creates a new faction.
func (h *FactionHandler) HandleCreateFaction(c *fiber.Ctx) error {
	var req CreateFactionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing faction create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Faction name required",
		})
	}

	faction, err := h.service.CreateFaction(req.Name, req.Type, req.IsOpen, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrFactionNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Faction name required",
			})
		}
		log.Printf("Error creating faction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"id":      faction.ID,
	})
}

// UpdateFactionRequest represents the request body for faction updates.
type UpdateFactionRequest struct {
	FactionID string                 `json:"faction_id" validate:"required"`
	Updates   map[string]interface{} `json:"updates"`
}

// HandleUpdateFaction applies a whitelisted partial update to a faction.
func (h *FactionHandler) HandleUpdateFaction(c *fiber.Ctx) error {
	var req UpdateFactionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing faction update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Faction ID required",
		})
	}

	if err := h.service.UpdateFaction(req.FactionID, req.Updates); err != nil {
		if errors.Is(err, updates.ErrNoUpdates) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No updates provided",
			})
		}
		log.Printf("Error updating faction %s: %v", req.FactionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
