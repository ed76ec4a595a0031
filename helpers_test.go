/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rediskv

import (
	"testing"

	"github.com/suparena/rediskv/datastore/mock"
	"github.com/suparena/rediskv/registry"
)

// Test types
type TestUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TestProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func testMappingContext(t *testing.T) *registry.MappingContext {
	t.Helper()
	mc := registry.NewMappingContext()
	if err := registry.Register(mc, registry.EntitySettings[TestUser]{
		Keyspace: "users",
		IDOf:     func(u TestUser) string { return u.ID },
		SetID:    func(u *TestUser, id string) { u.ID = id },
	}); err != nil {
		t.Fatalf("register TestUser: %v", err)
	}
	if err := registry.Register(mc, registry.EntitySettings[TestProduct]{
		Keyspace: "products",
		IDOf:     func(p TestProduct) string { return p.ID },
	}); err != nil {
		t.Fatalf("register TestProduct: %v", err)
	}
	return mc
}

func newUserTemplate(t *testing.T) (*RedisKeyValueTemplate[TestUser], *mock.DataStore[TestUser]) {
	t.Helper()
	store := mock.New[TestUser]()
	tmpl, err := NewRedisKeyValueTemplate[TestUser](store, WithMappingContext(testMappingContext(t)))
	if err != nil {
		t.Fatalf("NewRedisKeyValueTemplate: %v", err)
	}
	return tmpl, store
}
