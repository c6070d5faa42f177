package logs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestFields(t *testing.T) {
	fields := Request("/api/me", "user1")

	assert.Equal(t, "/api/me", fields["route"])
	assert.Equal(t, "user1", fields["userID"])

	// Les champs supplémentaires s'ajoutent sans écraser les communs
	fields["error"] = "boom"
	assert.Len(t, fields, 3)
}
