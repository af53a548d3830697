// Package id generates short random identifiers for log correlation and album buffers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes used across the bot.
const (
	PrefixUpdate = "upd" // one incoming update, attached to its log lines
	PrefixAlbum  = "alb" // one buffered media group
)

// tokenAlphabet avoids characters that are awkward in logs and callback data.
const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// TokenLength is the length of the random part of an ID.
const TokenLength = 12

// Generate creates a prefixed ID such as "alb-3k9x0q1mz7ab".
func Generate(prefix string) (string, error) {
	token, err := gonanoid.Generate(tokenAlphabet, TokenLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + token, nil
}

// MustGenerate is like Generate but panics if the system has no entropy.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
