package util

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Cache keys for the resource kinds the client caches.
const (
	ProductPrefix       = "product:"
	IngredientsPrefix   = "ingredients:"
	IngredientsV0Prefix = "ingredients-v0:"
	PetaCrueltyFreeKey  = "peta:crueltyfree"
)

func ProductKey(barcode string) string { return ProductPrefix + barcode }

// JoinTokens is the comma-joined form used both in cache keys and request paths.
func JoinTokens(tokens []string) string { return strings.Join(tokens, ",") }

func IngredientsKey(tokens []string) string { return IngredientsPrefix + JoinTokens(tokens) }

func IngredientsV0Key(tokens []string) string { return IngredientsV0Prefix + JoinTokens(tokens) }

// ShortHash returns a short, stable digest of k for logs that must not carry
// user input verbatim.
func ShortHash(k string) string {
	sum := sha256.Sum256([]byte(k))
	return fmt.Sprintf("%x", sum[:8])
}
