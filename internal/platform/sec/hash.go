// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummySecret is hashed once per [Hasher] so unknown-user logins can pay for a real comparison.
const dummySecret = "vidora-dummy-secret-never-matches"

// Hasher hashes and verifies account secrets with bcrypt at a fixed cost.
type Hasher struct {
	cost      int
	dummyHash []byte
}

// NewHasher creates a [Hasher] for the given bcrypt cost.
//
// The dummy hash is produced at the same cost as real hashes, so comparing
// against it takes the same time as comparing against a stored hash.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("sec: bcrypt cost %d out of range", cost)
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummySecret), cost)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to prepare dummy hash: %w", err)
	}

	return &Hasher{cost: cost, dummyHash: dummyHash}, nil
}

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func (hasher *Hasher) HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func (hasher *Hasher) CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// CheckDummy runs one comparison against the dummy hash and always reports false.
func (hasher *Hasher) CheckDummy(plainTextPassword string) bool {
	_ = bcrypt.CompareHashAndPassword(hasher.dummyHash, []byte(plainTextPassword))
	return false
}
