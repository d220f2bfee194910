package order

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReference(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 123*int(time.Millisecond), time.UTC)

	t.Run("Format", func(t *testing.T) {
		ref := NewReference(at)
		assert.True(t, strings.HasPrefix(ref, "ORD-20260102-030405-123-"), ref)

		parts := strings.Split(ref, "-")
		if assert.Len(t, parts, 5) {
			assert.Len(t, parts[4], 4, "random part should be 4 digits")
		}
	})

	t.Run("NormalisesToUTC", func(t *testing.T) {
		local := at.In(time.FixedZone("UTC-5", -5*60*60))
		assert.True(t, strings.HasPrefix(NewReference(local), "ORD-20260102-030405-"))
	})
}
