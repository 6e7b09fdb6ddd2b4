package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeLineToken creates a base64 encoded token from the matching date and ID of the last line
// on a page. Pages are ordered by (date, line ID), so the pair is a unique cursor.
func EncodeLineToken(date time.Time, lineID string) string {
	return EncodeMultiFieldToken(date.Format(timeFormat), lineID)
}

// DecodeLineToken parses a token created by EncodeLineToken.
func DecodeLineToken(token string) (time.Time, string, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, "", err
	}
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return date, parts[1], nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
