package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextSeqID_SkipsTakenIDs(t *testing.T) {
	taken := map[string]bool{"PROD-002": true, "PROD-003": true}
	id := nextSeqID("PROD", 2, func(s string) bool { return taken[s] })
	assert.Equal(t, "PROD-004", id)
}

func TestNextSeqID_PadsToThreeDigits(t *testing.T) {
	assert.Equal(t, "CLI-001", nextSeqID("CLI", 1, func(string) bool { return false }))
	assert.Equal(t, "CLI-1000", nextSeqID("CLI", 1000, func(string) bool { return false }))
}

func TestNextMillisID_BumpsOnCollision(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	taken := map[string]bool{"VEN-1700000000000": true}
	id := nextMillisID("VEN", now, func(s string) bool { return taken[s] })
	assert.Equal(t, "VEN-1700000000001", id)
}
