package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "sao paulo", Fold("São Paulo"))
	assert.Equal(t, "vitoria", Fold("VITÓRIA"))
	assert.Equal(t, "consolacao", Fold("Consolação"))
	assert.Equal(t, "100%_", Fold("100%_")) // metacharacters pass through untouched
	assert.Equal(t, "", Fold(""))
}
