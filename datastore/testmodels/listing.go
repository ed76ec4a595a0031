/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds entity types shared by store tests. Fields mirror
// generated API models: optional values are pointers and timestamps use strfmt.
package testmodels

import (
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/rediskv/registry"
)

// Listing is an item offered by a seller.
type Listing struct {
	// Required: true
	ID *string `json:"Id"`

	// Required: true
	Title *string `json:"Title"`

	PriceCents int64 `json:"PriceCents,omitempty"`

	Seller *Seller `json:"Seller,omitempty"`

	Labels []string `json:"Labels,omitempty"`

	// Format: date-time
	ListedAt *strfmt.DateTime `json:"ListedAt"`

	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"UpdatedAt,omitempty"`
}

// Seller owns listings.
type Seller struct {
	Name  string       `json:"Name"`
	Email strfmt.Email `json:"Email,omitempty"`
}

// ListingSettings stores listings under keyspace.
func ListingSettings(keyspace string, ttl time.Duration) registry.EntitySettings[Listing] {
	return registry.EntitySettings[Listing]{
		Keyspace:   keyspace,
		TimeToLive: ttl,
		IDOf: func(l Listing) string {
			if l.ID == nil {
				return ""
			}
			return *l.ID
		},
		SetID: func(l *Listing, id string) { l.ID = &id },
	}
}

// NewListing returns a listing with the required fields set.
func NewListing(id, title string, listedAt time.Time) Listing {
	at := strfmt.DateTime(listedAt)
	return Listing{ID: &id, Title: &title, ListedAt: &at}
}
