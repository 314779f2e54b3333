package handler

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bcnelson/styla-directory/internal/api/middleware"
	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdminKeyPrefix starts every issued admin key.
const AdminKeyPrefix = "sty_"

// AdminKeyHandler issues and revokes the keys that guard the admin API.
type AdminKeyHandler struct {
	store storage.Storage
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewAdminKeyHandler creates a new AdminKeyHandler.
func NewAdminKeyHandler(store storage.Storage, log logrus.FieldLogger) *AdminKeyHandler {
	return &AdminKeyHandler{store: store, log: log, now: time.Now}
}

// newAdminKey returns a plaintext key with its stored hash and display prefix.
func newAdminKey() (key, hash, prefix string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", "", fmt.Errorf("reading random bytes: %w", err)
	}
	key = AdminKeyPrefix + hex.EncodeToString(raw)
	sum := sha256.Sum256([]byte(key))
	return key, hex.EncodeToString(sum[:]), key[:len(AdminKeyPrefix)+8], nil
}

// Issue creates an admin key. Names are unique, ignoring case, so operators
// can tell keys apart in the listing.
func (h *AdminKeyHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAPIKeyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	existing, err := h.store.ListAPIKeys(ctx)
	if err != nil {
		handleError(w, h.log, err)
		return
	}
	for _, k := range existing {
		if strings.EqualFold(k.Name, req.Name) {
			respondStandardError(w, http.StatusConflict, domain.ErrCodeResourceAlreadyExists,
				"an admin key with this name already exists", "name", nil)
			return
		}
	}

	key, hash, prefix, err := newAdminKey()
	if err != nil {
		h.log.WithError(err).Error("generating admin key")
		respondError(w, http.StatusInternalServerError, "failed to generate admin key")
		return
	}

	adminKey := &domain.APIKey{
		ID:        uuid.New().String(),
		Name:      req.Name,
		KeyHash:   hash,
		KeyPrefix: prefix,
		CreatedAt: h.now(),
	}
	if err := h.store.CreateAPIKey(ctx, adminKey); err != nil {
		handleError(w, h.log, err)
		return
	}

	fields := logrus.Fields{"key_id": adminKey.ID, "name": adminKey.Name}
	if caller := middleware.GetAPIKeyFromContext(ctx); caller != nil {
		fields["issued_by"] = caller.ID
	}
	h.log.WithFields(fields).Info("admin key issued")

	respondJSON(w, http.StatusCreated, &domain.CreateAPIKeyResponse{
		ID:        adminKey.ID,
		Name:      adminKey.Name,
		Key:       key, // shown once
		KeyPrefix: adminKey.KeyPrefix,
		CreatedAt: adminKey.CreatedAt,
	})
}

// List returns admin keys, most recently used first; keys never used come
// last, oldest first. ?idle=720h keeps only keys unused for that long.
func (h *AdminKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	var idle time.Duration
	if v := r.URL.Query().Get("idle"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			respondStandardError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "idle must be a positive duration", "idle", nil)
			return
		}
		idle = d
	}

	keys, err := h.store.ListAPIKeys(r.Context())
	if err != nil {
		handleError(w, h.log, err)
		return
	}

	if idle > 0 {
		cutoff := h.now().Add(-idle)
		kept := make([]*domain.APIKey, 0, len(keys))
		for _, k := range keys {
			if k.LastUsedAt == nil || k.LastUsedAt.Before(cutoff) {
				kept = append(kept, k)
			}
		}
		keys = kept
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i].LastUsedAt, keys[j].LastUsedAt
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil || b != nil:
			return a != nil
		}
		return keys[i].CreatedAt.Before(keys[j].CreatedAt)
	})
	respondJSON(w, http.StatusOK, keys)
}

// Current returns the key the request authenticated with.
func (h *AdminKeyHandler) Current(w http.ResponseWriter, r *http.Request) {
	key := middleware.GetAPIKeyFromContext(r.Context())
	if key == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, key)
}

// Revoke deletes an admin key. A caller cannot revoke the key it is using.
func (h *AdminKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if caller := middleware.GetAPIKeyFromContext(r.Context()); caller != nil && caller.ID == id {
		respondStandardError(w, http.StatusConflict, domain.ErrCodeInvalidInput,
			"cannot revoke the key used for this request", "id", nil)
		return
	}

	if err := h.store.DeleteAPIKey(r.Context(), id); err != nil {
		handleError(w, h.log, err)
		return
	}
	h.log.WithField("key_id", id).Info("admin key revoked")
	w.WriteHeader(http.StatusNoContent)
}
