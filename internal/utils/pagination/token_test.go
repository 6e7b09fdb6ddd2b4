package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeLineToken(t *testing.T) {
	date := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	lineID := "1f0c6c8e-7c2b-4b7e-9d64-0d7a8c3f7e21"

	token := EncodeLineToken(date, lineID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeLineToken(token)
	require.NoError(t, err)
	assert.Equal(t, date, decodedDate, "Date should match after decode")
	assert.Equal(t, lineID, decodedID, "Line ID should match after decode")

	// Zero time still round-trips
	zeroDate, zeroID, err := DecodeLineToken(EncodeLineToken(time.Time{}, "x"))
	require.NoError(t, err)
	assert.True(t, zeroDate.IsZero())
	assert.Equal(t, "x", zeroID)
}

func TestDecodeLineTokenError(t *testing.T) {
	_, _, err := DecodeLineToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, _, err = DecodeLineToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|line-1"))
	_, _, err = DecodeLineToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")
}

func TestEncodeMultiFieldToken(t *testing.T) {
	// Test with simple fields
	fields := []string{"field1", "field2", "field3"}
	token := EncodeMultiFieldToken(fields...)

	decodedFields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, fields, decodedFields, "Fields should match after decode")

	// When splitting an empty string with strings.Split, we get a slice with one empty string
	decodedEmpty, err := DecodeMultiFieldToken(EncodeMultiFieldToken())
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, decodedEmpty)

	specialFields := []string{"field|with|pipes", "field with spaces"}
	decodedSpecial, err := DecodeMultiFieldToken(EncodeMultiFieldToken(specialFields...))
	assert.NoError(t, err)
	assert.Len(t, decodedSpecial, 4, "Should split on all pipe characters")
}
