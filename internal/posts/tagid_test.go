package posts

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagID_ContentAddressed(t *testing.T) {
	sum := sha256.Sum256([]byte("hiking"))
	want := hex.EncodeToString(sum[:])

	assert.Equal(t, want, TagID("hiking"))

	// Same text always maps to the same id, regardless of case or padding.
	assert.Equal(t, TagID("hiking"), TagID("Hiking"))
	assert.Equal(t, TagID("hiking"), TagID("  hiking  "))

	assert.NotEqual(t, TagID("hiking"), TagID("food"))
	assert.Len(t, TagID("food"), 64)
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "hiking", NormalizeTag(" Hiking "))
	assert.Equal(t, "", NormalizeTag("   "))
}
