package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	// Test case 1: Standard values
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursor(createdAt, "txn-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedAt, "Created at time should match after decode")
	assert.Equal(t, "txn-42", decodedID, "ID should match after decode")

	// Test case 2: Non-UTC input is normalised
	local := time.Date(2023, 5, 15, 16, 30, 45, 0, time.FixedZone("CAT", 2*60*60))
	decodedAt, _, err = DecodeCursor(EncodeCursor(local, "x"))
	assert.NoError(t, err)
	assert.True(t, local.Equal(decodedAt), "Instant should survive the round trip")

	// Test case 3: IDs containing the separator are kept whole
	_, decodedID, err = DecodeCursor(EncodeCursor(createdAt, "a|b"))
	assert.NoError(t, err)
	assert.Equal(t, "a|b", decodedID)
}

func TestDecodeCursorError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	_, _, err = DecodeCursor("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid date format: "notadate|id"
	_, _, err = DecodeCursor("bm90YWRhdGV8aWQ=")
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "created_at parse", "Error should mention date parsing issue")
}

func TestAfter(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, After(at.Add(-time.Second), "z", at, "a"), "older rows come later")
	assert.False(t, After(at.Add(time.Second), "a", at, "z"), "newer rows come earlier")
	assert.True(t, After(at, "a", at, "b"), "ties break on id descending")
	assert.False(t, After(at, "b", at, "b"), "the cursor row itself is excluded")
}
