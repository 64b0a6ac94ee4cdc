package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities_People(t *testing.T) {
	entities := ExtractEntities("This is Sarah, my coworker.")
	assert.Contains(t, entities.People, "Sarah")
}

func TestExtractEntities_Dates(t *testing.T) {
	entities := ExtractEntities("We're meeting tomorrow, then again next week.")
	assert.Contains(t, entities.Dates, "tomorrow")
	assert.Contains(t, entities.Dates, "next week")
}

func TestExtractEntities_DedupesCaseInsensitively(t *testing.T) {
	entities := ExtractEntities("I'm named Alex, everyone calls me Alex.")
	assert.Len(t, entities.People, 1)
}
