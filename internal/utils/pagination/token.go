package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// DayFormat matches the calendar day key used throughout the application.
const DayFormat = "2006-01-02"

// EncodeDayToken creates a base64 token from a day key for keyset pagination
// over day-ordered rows.
func EncodeDayToken(day string) string {
	return base64.StdEncoding.EncodeToString([]byte(day))
}

// DecodeDayToken parses a base64 day token back into its day key, validating
// the day format.
func DecodeDayToken(token string) (string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	day := string(decodedBytes)
	if _, err := time.Parse(DayFormat, day); err != nil {
		return "", fmt.Errorf("invalid pagination token format (day parse): %w", err)
	}
	return day, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields.
// This provides flexibility for different pagination strategies.
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
