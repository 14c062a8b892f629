// Package testutil provides testing utilities for stereodb.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and generators for the
// synthetic entities used across the test suites.
//
// # Entities
//
//	rng := testutil.NewRNG(seed)
//	books := rng.Books(10)            // Book keyed by int
//	orders := rng.Orders(100, books)  // Order keyed by uuid.UUID
//	users := rng.Users(1000)          // User keyed by uuid.UUID
//
// Every entity implements ID(), so it satisfies stereodb.Entity.
// The same seed always yields the same entities, identifiers included.
package testutil
