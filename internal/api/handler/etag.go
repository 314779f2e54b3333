package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
)

// GenerateETag generates an ETag for a resource based on its ID and updated_at timestamp.
// Format: "<resource_type>-<id>-<updated_at_unix_nano>"
func GenerateETag(resourceType, id string, updatedAt time.Time) string {
	return fmt.Sprintf(`"%s-%s-%d"`, resourceType, id, updatedAt.UnixNano())
}

// SetETagHeader sets the ETag header on the response.
func SetETagHeader(w http.ResponseWriter, resourceType, id string, updatedAt time.Time) {
	w.Header().Set("ETag", GenerateETag(resourceType, id, updatedAt))
}

// CheckIfMatch reports whether the request may proceed: either no If-Match
// header is present or it matches the current ETag.
func CheckIfMatch(r *http.Request, resourceType, id string, updatedAt time.Time) bool {
	ifMatch := r.Header.Get("If-Match")
	if ifMatch == "" {
		return true
	}
	return ifMatch == GenerateETag(resourceType, id, updatedAt)
}

// RespondPreconditionFailed writes a 412 Precondition Failed response.
func RespondPreconditionFailed(w http.ResponseWriter, resourceType, id string, updatedAt time.Time) {
	currentETag := GenerateETag(resourceType, id, updatedAt)
	respondStandardError(w, http.StatusPreconditionFailed, domain.ErrCodePreconditionFailed,
		"resource has been modified", "", map[string]any{
			"currentETag": currentETag,
		})
}

// Owner ETag helpers
func SetOwnerETag(w http.ResponseWriter, owner *domain.Owner) {
	SetETagHeader(w, "owner", owner.ID, owner.UpdatedAt)
}

func CheckOwnerIfMatch(r *http.Request, owner *domain.Owner) bool {
	return CheckIfMatch(r, "owner", owner.ID, owner.UpdatedAt)
}
