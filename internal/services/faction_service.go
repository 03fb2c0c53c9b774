package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"garrison/internal/models"
	"garrison/internal/repositories"
	"garrison/internal/updates"
)

// ErrFactionNameRequired is returned when a faction create has no name.
var ErrFactionNameRequired = errors.New("faction name required")

// FactionService handles listing, creating and reconfiguring factions.
type FactionService struct {
	factionRepo repositories.FactionRepository
	events      EventPublisher
}

// NewFactionService creates a new FactionService.
func NewFactionService(factionRepo repositories.FactionRepository, events EventPublisher) *FactionService {
	return &FactionService{
		factionRepo: factionRepo,
		events:      events,
	}
}

// ListFactions retrieves every faction grouped by type, then name.
func (s *FactionService) ListFactions() ([]models.Faction, error) {
	return s.factionRepo.GetAll()
}

// CreateFaction creates a faction. Type defaults to "open" and isOpen to
// true when the caller leaves them unset. Faction names are not checked for
// duplicates.
func (s *FactionService) CreateFaction(name, factionType string, isOpen *bool, description string) (*models.Faction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFactionNameRequired
	}
	if factionType == "" {
		factionType = "open"
	}
	open := true
	if isOpen != nil {
		open = *isOpen
	}

	faction := &models.Faction{
		Name:        name,
		Type:        factionType,
		IsOpen:      open,
		Description: description,
	}
	if err := s.factionRepo.Create(faction); err != nil {
		return nil, err
	}
	return faction, nil
}

// UpdateFaction applies a partial update to a faction, restricted to the
// configuration whitelist.
func (s *FactionService) UpdateFaction(factionID string, requested map[string]interface{}) error {
	fields, err := updates.FactionFields.Filter(requested)
	if err != nil {
		return err
	}

	if err := s.factionRepo.UpdateFields(factionID, fields); err != nil {
		return fmt.Errorf("failed to update faction: %w", err)
	}

	if s.events != nil {
		changed := make([]string, 0, len(fields))
		for field := range fields {
			changed = append(changed, field)
		}
		err := s.events.Publish("faction.updated", map[string]interface{}{
			"faction_id": factionID,
			"fields":     changed,
		})
		if err != nil {
			log.Printf("Failed to publish faction.updated event for faction %s: %v", factionID, err)
		}
	}
	return nil
}
