package v1

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/duynhne/user-profile-service/internal/core/domain"
)

// parseProfileID accepts only a base-10 integer greater than zero.
func parseProfileID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidProfileID
	}
	return id, nil
}

// sanitizeBindError returns a user-friendly message for body decoding errors.
// Never expose raw decoder errors to clients (security + UX).
func sanitizeBindError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, io.EOF) {
		return "Request body is required"
	}
	msg := err.Error()
	if strings.Contains(msg, "cannot unmarshal") {
		return "Request body must be a JSON object"
	}
	return "Request body must be valid JSON"
}
