package model

import (
	"time"
)

// SavedRequest is a named request snapshot kept in a collection
type SavedRequest struct {
	ID           string            `json:"id"`
	CollectionID string            `json:"collection_id"`
	Name         string            `json:"name"`
	Request      RequestDescriptor `json:"request"`
	SortOrder    int               `json:"sort_order"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Collection represents a group of saved requests
type Collection struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Requests  []SavedRequest `json:"requests"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Aliases maps an alias name to a base URL
type Aliases map[string]string
