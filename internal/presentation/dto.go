package presentation

import (
	"github.com/zjrosen/kiln/internal/domain/registry"
)

// EntryDTO represents a registry entry for presentation
type EntryDTO struct {
	Key         string         `json:"key"`
	Library     string         `json:"library,omitempty"`
	Label       string         `json:"label,omitempty"`
	Description string         `json:"description,omitempty"`
	Defaults    map[string]any `json:"defaults,omitempty"`
}

// FromDomainEntry converts a domain entry to a DTO
func FromDomainEntry(entry *registry.Entry) EntryDTO {
	return EntryDTO{
		Key:         entry.Key(),
		Library:     entry.Library(),
		Label:       entry.Label(),
		Description: entry.Description(),
		Defaults:    entry.Defaults(),
	}
}

// FromDomainEntries converts a slice of domain entries to DTOs
func FromDomainEntries(entries []*registry.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = FromDomainEntry(entry)
	}
	return dtos
}
