package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t, []string{"iOS", "iPhone"}, DedupeAndTrim([]string{"  iOS ", "iPhone", "iOS", "", "   "}))
	assert.Empty(t, DedupeAndTrim(nil))
}

func TestDedupeAndTrimKeepsCase(t *testing.T) {
	assert.Equal(t, []string{"iOS", "ios"}, DedupeAndTrim([]string{"iOS", "ios"}))
}

func TestDedupeAndTrimUpper(t *testing.T) {
	assert.Equal(t, []string{"US", "RU"}, DedupeAndTrimUpper([]string{" us", "RU", "Us", ""}))
}

func TestSet(t *testing.T) {
	s := Set([]string{"US", "RU"})
	_, hasUS := s["US"]
	_, hasDE := s["DE"]

	assert.True(t, hasUS)
	assert.False(t, hasDE)
	assert.Len(t, s, 2)
}
