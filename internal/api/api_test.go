package api_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bcnelson/styla-directory/internal/api"
	"github.com/bcnelson/styla-directory/internal/directory"
	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/logging"
	"github.com/bcnelson/styla-directory/internal/service"
	"github.com/bcnelson/styla-directory/internal/storage/memory"
	"github.com/bcnelson/styla-directory/internal/tagstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer creates a test server with in-memory storage
type testServer struct {
	handler      http.Handler
	store        *memory.Store
	seeder       *service.Seeder
	bootstrapKey string
}

func newTestServer() *testServer {
	log := logging.Discard()
	store := memory.New()
	bootstrapKey := "test-bootstrap-key"

	tags := tagstore.New(store, log)
	cache := tagstore.NewCache(tags)
	usage := service.NewUsageService(store, cache, log, 5*time.Second, false)
	seeder := service.NewSeeder(store, cache, log)

	handler := api.NewRouter(api.Deps{
		Store:        store,
		Tags:         tags,
		Cache:        cache,
		Engine:       directory.New(store, tags, log),
		Seeder:       seeder,
		Usage:        usage,
		Profiles:     service.NewProfileService(store, log),
		OwnerTags:    service.NewOwnerTagService(store, tags, usage, log),
		TagService:   service.NewTagService(store, tags, cache, log),
		BootstrapKey: bootstrapKey,
		Log:          log,
	})

	return &testServer{
		handler:      handler,
		store:        store,
		seeder:       seeder,
		bootstrapKey: bootstrapKey,
	}
}

func (ts *testServer) seed(t *testing.T) {
	t.Helper()
	_, err := ts.seeder.SeedPredefined(context.Background())
	require.NoError(t, err)
}

func (ts *testServer) request(method, path string, body any, apiKey string) *httptest.ResponseRecorder {
	return ts.requestWithHeaders(method, path, body, apiKey, nil)
}

func (ts *testServer) requestWithHeaders(method, path string, body any, apiKey string, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (ts *testServer) createOwner(t *testing.T, name string, lat, long float64) domain.OwnerWithTags {
	t.Helper()
	req := domain.CreateOwnerRequest{
		BusinessProfile: domain.BusinessProfile{BusinessName: name, BusinessLat: lat, BusinessLong: long},
	}
	rr := ts.request("POST", "/api/v1/admin/owners", req, ts.bootstrapKey)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[domain.OwnerWithTags](t, rr)
}

func (ts *testServer) addTag(t *testing.T, ownerID, tagID string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.request("POST", "/api/v1/admin/owners/"+ownerID+"/tags", domain.AddOwnerTagRequest{TagID: tagID}, ts.bootstrapKey)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer()

	rr := ts.request("GET", "/health", nil, "")

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", resp["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer()

	// Request without auth header
	rr := ts.request("GET", "/api/v1/admin/keys", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}

	// Request with invalid auth header format
	req := httptest.NewRequest("GET", "/api/v1/admin/keys", nil)
	req.Header.Set("Authorization", "Basic invalid")
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}

	// Request with invalid API key
	rr = ts.request("GET", "/api/v1/admin/keys", nil, "invalid-key")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}

	resp := decode[domain.StandardErrorResponse](t, rr)
	assert.Equal(t, domain.ErrCodeUnauthorized, resp.Error.Code)
}

func TestPublicRoutesNeedNoAuth(t *testing.T) {
	ts := newTestServer()

	rr := ts.request("GET", "/api/v1/tags", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr = ts.request("GET", "/api/v1/owners", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAPIKeyLifecycle(t *testing.T) {
	ts := newTestServer()

	// Create API key using bootstrap key
	createReq := domain.CreateAPIKeyRequest{Name: "Test Key"}
	rr := ts.request("POST", "/api/v1/admin/keys", createReq, ts.bootstrapKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	createResp := decode[domain.CreateAPIKeyResponse](t, rr)
	require.NotEmpty(t, createResp.Key)
	assert.Equal(t, "Test Key", createResp.Name)

	// The bootstrap key stops working once a real key exists
	rr = ts.request("GET", "/api/v1/admin/keys", nil, ts.bootstrapKey)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request("GET", "/api/v1/admin/keys", nil, createResp.Key)
	require.Equal(t, http.StatusOK, rr.Code)
	keys := decode[[]*domain.APIKey](t, rr)
	assert.Len(t, keys, 1)

	rr = ts.request("GET", "/api/v1/admin/keys/current", nil, createResp.Key)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, createResp.ID, decode[domain.APIKey](t, rr).ID)
	assert.NotContains(t, rr.Body.String(), "key_hash")

	rr = ts.request("DELETE", "/api/v1/admin/keys/"+createResp.ID, nil, createResp.Key)
	assert.Equal(t, http.StatusConflict, rr.Code, "a key cannot revoke itself")

	rr = ts.request("POST", "/api/v1/admin/keys", domain.CreateAPIKeyRequest{Name: "Second Key"}, createResp.Key)
	require.Equal(t, http.StatusCreated, rr.Code)
	second := decode[domain.CreateAPIKeyResponse](t, rr)
	assert.True(t, strings.HasPrefix(second.Key, "sty_"))
	assert.Equal(t, second.Key[:12], second.KeyPrefix)

	rr = ts.request("DELETE", "/api/v1/admin/keys/"+createResp.ID, nil, second.Key)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request("GET", "/api/v1/admin/keys", nil, createResp.Key)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request("DELETE", "/api/v1/admin/keys/missing", nil, second.Key)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminKeyListing(t *testing.T) {
	ts := newTestServer()
	ctx := context.Background()
	now := time.Now()
	at := func(d time.Duration) *time.Time {
		v := now.Add(-d)
		return &v
	}

	const operatorKey = "sty_operator"
	sum := sha256.Sum256([]byte(operatorKey))
	for _, k := range []*domain.APIKey{
		{ID: "operator", Name: "Operator", KeyHash: hex.EncodeToString(sum[:]), CreatedAt: now.Add(-100 * time.Hour), LastUsedAt: at(time.Minute)},
		{ID: "ci", Name: "CI", KeyHash: "ci", CreatedAt: now.Add(-50 * time.Hour), LastUsedAt: at(time.Hour)},
		{ID: "ops", Name: "Old Ops", KeyHash: "ops", CreatedAt: now.Add(-3000 * time.Hour), LastUsedAt: at(2000 * time.Hour)},
		{ID: "unused-old", Name: "Unused Old", KeyHash: "unused-old", CreatedAt: now.Add(-10 * time.Hour)},
		{ID: "unused-new", Name: "Unused New", KeyHash: "unused-new", CreatedAt: now.Add(-time.Hour)},
	} {
		require.NoError(t, ts.store.CreateAPIKey(ctx, k))
	}

	keyIDs := func(rr *httptest.ResponseRecorder) []string {
		t.Helper()
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		ids := make([]string, 0)
		for _, k := range decode[[]*domain.APIKey](t, rr) {
			ids = append(ids, k.ID)
		}
		return ids
	}

	assert.Equal(t, []string{"operator", "ci", "ops", "unused-old", "unused-new"},
		keyIDs(ts.request("GET", "/api/v1/admin/keys", nil, operatorKey)))
	assert.Equal(t, []string{"ops", "unused-old", "unused-new"},
		keyIDs(ts.request("GET", "/api/v1/admin/keys?idle=720h", nil, operatorKey)))

	rr := ts.request("GET", "/api/v1/admin/keys?idle=soon", nil, operatorKey)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request("POST", "/api/v1/admin/keys", domain.CreateAPIKeyRequest{Name: "ci"}, operatorKey)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "name", decode[domain.StandardErrorResponse](t, rr).Error.Field)
}

func TestCreateAPIKeyValidation(t *testing.T) {
	ts := newTestServer()

	rr := ts.request("POST", "/api/v1/admin/keys", domain.CreateAPIKeyRequest{}, ts.bootstrapKey)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decode[domain.StandardErrorResponse](t, rr)
	assert.Equal(t, domain.ErrCodeValidationError, resp.Error.Code)
}

func TestListTags(t *testing.T) {
	ts := newTestServer()

	// Nothing stored yet, so the catalog answers
	rr := ts.request("GET", "/api/v1/tags?type=primary", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	primaries := decode[[]domain.Tag](t, rr)
	assert.Len(t, primaries, 7)

	rr = ts.request("GET", "/api/v1/tags", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Tag](t, rr), 130)

	rr = ts.request("GET", "/api/v1/tags?category=barber&type=subtag", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	for _, tag := range decode[[]domain.Tag](t, rr) {
		assert.Equal(t, domain.TagTypeSubtag, tag.Type)
		assert.Equal(t, domain.CategoryBarber, tag.Category)
	}

	rr = ts.request("GET", "/api/v1/tags?type=bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request("GET", "/api/v1/tags?category=bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetTag(t *testing.T) {
	ts := newTestServer()
	ts.seed(t)

	rr := ts.request("GET", "/api/v1/tags/001001", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	tag := decode[domain.Tag](t, rr)
	assert.Equal(t, "Hair Stylist", tag.DisplayName)

	rr = ts.request("GET", "/api/v1/tags/123456", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request("GET", "/api/v1/tags/abc", nil, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[domain.StandardErrorResponse](t, rr)
	assert.Equal(t, domain.ErrCodeInvalidInput, resp.Error.Code)
	assert.Equal(t, "tagId", resp.Error.Field)
}

func TestTagRelations(t *testing.T) {
	ts := newTestServer()
	ts.seed(t)

	rr := ts.request("GET", "/api/v1/tags/006001/subtags", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Tag](t, rr), 15)

	rr = ts.request("GET", "/api/v1/tags/006001/related", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	related := decode[[]domain.Tag](t, rr)
	require.Len(t, related, 16)
	assert.Equal(t, "006001", related[0].ID)

	rr = ts.request("GET", "/api/v1/tags/lookup?ids=001001,bad,008004,999999", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	found := decode[[]domain.Tag](t, rr)
	require.Len(t, found, 2)
	assert.Equal(t, "001001", found[0].ID)
	assert.Equal(t, "008004", found[1].ID)

	rr = ts.request("GET", "/api/v1/tags/categories", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.CategoryInfo](t, rr), 8)
}

func TestSeedAndHierarchy(t *testing.T) {
	ts := newTestServer()

	rr := ts.request("POST", "/api/v1/admin/tags/seed", nil, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 130, decode[domain.SeedResponse](t, rr).Inserted)

	rr = ts.request("POST", "/api/v1/admin/tags/seed", nil, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[domain.SeedResponse](t, rr).Inserted)

	rr = ts.request("GET", "/api/v1/admin/tags/hierarchy", nil, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code)
	report := decode[domain.HierarchyReport](t, rr)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Len(t, report.SubtagCounts, 7)
	assert.Equal(t, 13, report.SubtagCounts["003001"])

	rr = ts.request("POST", "/api/v1/admin/tags/cache/clear", nil, ts.bootstrapKey)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCustomTags(t *testing.T) {
	ts := newTestServer()
	ts.seed(t)

	req := domain.CreateTagRequest{
		Name: "scalp_care", DisplayName: "Scalp Care", Category: domain.CategoryHairStylist, Type: domain.TagTypePrimary,
	}
	rr := ts.request("POST", "/api/v1/admin/tags", req, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request("POST", "/api/v1/admin/tags", req, ts.bootstrapKey)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	primary := decode[domain.Tag](t, rr)
	require.Len(t, primary.ID, 6)

	rr = ts.request("GET", "/api/v1/tags/"+primary.ID, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Scalp Care", decode[domain.Tag](t, rr).DisplayName)

	rr = ts.request("POST", "/api/v1/admin/tags", domain.CreateTagRequest{
		Name: "scalp_massage", DisplayName: "Scalp Massage", Category: domain.CategoryHairStylist,
		Type: domain.TagTypeSubtag, ParentTagID: primary.ID,
	}, ts.bootstrapKey)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	sub := decode[domain.Tag](t, rr)

	rr = ts.request("GET", "/api/v1/tags/"+sub.ID+"/parent", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, primary.ID, decode[domain.Tag](t, rr).ID)

	rr = ts.request("POST", "/api/v1/admin/tags", domain.CreateTagRequest{
		Name: "haircut", DisplayName: "Cut", Category: domain.CategoryHairStylist, Type: domain.TagTypeOptional,
	}, ts.bootstrapKey)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, domain.ErrCodeResourceAlreadyExists, decode[domain.StandardErrorResponse](t, rr).Error.Code)

	rr = ts.request("POST", "/api/v1/admin/tags", domain.CreateTagRequest{
		Name: "loose", DisplayName: "Loose", Category: domain.CategoryHairStylist, Type: domain.TagTypeSubtag,
	}, ts.bootstrapKey)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, domain.ErrCodeValidationError, decode[domain.StandardErrorResponse](t, rr).Error.Code)
}

func TestTagParentsAndSubtagUnion(t *testing.T) {
	ts := newTestServer()
	ts.seed(t)

	rr := ts.request("GET", "/api/v1/tags/004004/parent", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "004001", decode[domain.Tag](t, rr).ID)

	rr = ts.request("GET", "/api/v1/tags/004001/parent", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request("GET", "/api/v1/tags/abc/parent", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request("GET", "/api/v1/tags/subtags?primaries=003001,004001,bad", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	subs := decode[[]domain.Tag](t, rr)
	assert.Len(t, subs, 27)
	for _, tag := range subs {
		assert.Equal(t, domain.TagTypeSubtag, tag.Type)
	}

	rr = ts.request("GET", "/api/v1/tags/subtags", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]domain.Tag](t, rr))
}

func TestUsageStatus(t *testing.T) {
	ts := newTestServer()

	rr := ts.request("GET", "/api/v1/admin/tags/usage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request("GET", "/api/v1/admin/tags/usage", nil, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[domain.UsageStatus](t, rr).Pending)
}

func TestHierarchyReportsOrphans(t *testing.T) {
	ts := newTestServer()
	now := time.Now()
	require.NoError(t, ts.store.CreateTag(context.Background(), &domain.Tag{
		ID: "009002", Name: "lost", DisplayName: "Lost Service",
		Type: domain.TagTypeSubtag, ParentTagID: "009001", CreatedAt: now, UpdatedAt: now,
	}))

	rr := ts.request("GET", "/api/v1/admin/tags/hierarchy", nil, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code)
	report := decode[domain.HierarchyReport](t, rr)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "009002")
}

func TestOwnerLifecycle(t *testing.T) {
	ts := newTestServer()
	ts.seed(t)

	owner := ts.createOwner(t, "Maren's Studio", 37.8039, -122.4194)
	assert.NotEmpty(t, owner.ID)
	assert.Equal(t, domain.DefaultProfilePic, owner.ProfileCustomization.ProfilePic)
	assert.Equal(t, "USD", owner.Settings.Payment.Currency)

	rr := ts.request("GET", "/api/v1/owners/"+owner.ID, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	update := domain.UpdateOwnerRequest{
		BusinessProfile: domain.BusinessProfile{BusinessName: "Maren Hair", BusinessLat: 37.8039, BusinessLong: -122.4194},
	}

	rr = ts.requestWithHeaders("PUT", "/api/v1/admin/owners/"+owner.ID, update, ts.bootstrapKey,
		map[string]string{"If-Match": `"owner-stale-0"`})
	require.Equal(t, http.StatusPreconditionFailed, rr.Code)
	resp := decode[domain.StandardErrorResponse](t, rr)
	assert.Equal(t, domain.ErrCodePreconditionFailed, resp.Error.Code)
	assert.Equal(t, etag, resp.Error.Details["currentETag"])

	rr = ts.requestWithHeaders("PUT", "/api/v1/admin/owners/"+owner.ID, update, ts.bootstrapKey,
		map[string]string{"If-Match": etag})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Maren Hair", decode[domain.OwnerWithTags](t, rr).BusinessProfile.BusinessName)

	rr = ts.request("GET", "/api/v1/owners/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateOwnerValidation(t *testing.T) {
	ts := newTestServer()

	req := domain.CreateOwnerRequest{
		BusinessProfile:      domain.BusinessProfile{BusinessLat: 120},
		ProfileCustomization: domain.ProfileCustomization{TextColor: "red"},
	}
	rr := ts.request("POST", "/api/v1/admin/owners", req, ts.bootstrapKey)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[domain.StandardErrorResponse](t, rr)
	assert.Equal(t, domain.ErrCodeValidationError, resp.Error.Code)
}

func TestListOwnersFilters(t *testing.T) {
	ts := newTestServer()
	ts.seed(t)

	maren := ts.createOwner(t, "Maren's Studio", 37.8039, -122.4194)
	require.Equal(t, http.StatusOK, ts.addTag(t, maren.ID, "001001").Code)
	brooklyn := ts.createOwner(t, "Brooklyn Fades", 40.6782, -73.9442)
	require.Equal(t, http.StatusOK, ts.addTag(t, brooklyn.ID, "002001").Code)
	mission := ts.createOwner(t, "Mission Nails", 37.7599, -122.4148)

	ids := func(rr *httptest.ResponseRecorder) []string {
		t.Helper()
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		out := make([]string, 0)
		for _, o := range decode[[]domain.OwnerWithTags](t, rr) {
			out = append(out, o.ID)
		}
		return out
	}

	assert.Equal(t, []string{maren.ID}, ids(ts.request("GET", "/api/v1/owners?tags=001001", nil, "")))
	assert.ElementsMatch(t, []string{maren.ID, brooklyn.ID},
		ids(ts.request("GET", "/api/v1/owners?tags=001001,002001", nil, "")))
	assert.ElementsMatch(t, []string{maren.ID, mission.ID},
		ids(ts.request("GET", "/api/v1/owners?lat=37.7749&long=-122.4194&within=10", nil, "")))
	assert.Equal(t, []string{maren.ID},
		ids(ts.request("GET", "/api/v1/owners?tags=001001,002001&lat=37.7749&long=-122.4194&within=10", nil, "")))
	assert.Len(t, ids(ts.request("GET", "/api/v1/owners", nil, "")), 3)

	for path, field := range map[string]string{
		"/api/v1/owners?lat=abc&long=-122.4&within=5":   "lat",
		"/api/v1/owners?lat=37.7":                       "long",
		"/api/v1/owners?lat=37.7&long=-122.4&within=-1": "within",
	} {
		rr := ts.request("GET", path, nil, "")
		require.Equal(t, http.StatusBadRequest, rr.Code, path)
		assert.Equal(t, field, decode[domain.StandardErrorResponse](t, rr).Error.Field, path)
	}
}

func TestOwnerTags(t *testing.T) {
	ts := newTestServer()
	ts.seed(t)
	owner := ts.createOwner(t, "Maren's Studio", 37.8039, -122.4194)

	rr := ts.addTag(t, owner.ID, "001002")
	require.Equal(t, http.StatusConflict, rr.Code, "subtag needs its primary first")
	assert.Equal(t, domain.ErrCodeIncompatibleTag, decode[domain.StandardErrorResponse](t, rr).Error.Code)

	rr = ts.addTag(t, owner.ID, "001001")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = ts.addTag(t, owner.ID, "001002")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	withTags := decode[domain.OwnerWithTags](t, rr)
	assert.Equal(t, []string{"001001", "001002"}, withTags.TagIDs)
	assert.Equal(t, []string{"Hair Stylist", "Haircut"}, withTags.TagNames)

	rr = ts.addTag(t, owner.ID, "001001")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.addTag(t, owner.ID, "12ab")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request("GET", "/api/v1/owners/"+owner.ID+"/tags", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Tag](t, rr), 2)

	rr = ts.request("GET", "/api/v1/owners/"+owner.ID+"/tags?type=primary", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	primaries := decode[[]domain.Tag](t, rr)
	require.Len(t, primaries, 1)
	assert.Equal(t, "001001", primaries[0].ID)

	rr = ts.request("DELETE", "/api/v1/admin/owners/"+owner.ID+"/tags/001002", nil, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"001001"}, decode[domain.OwnerWithTags](t, rr).TagIDs)

	rr = ts.request("DELETE", "/api/v1/admin/owners/"+owner.ID+"/tags/001002", nil, ts.bootstrapKey)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request("POST", "/api/v1/admin/tags/usage/reconcile", nil, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code)

	tag, err := ts.store.GetTag(context.Background(), "001001")
	require.NoError(t, err)
	assert.Equal(t, 1, tag.UsageCount)
	tag, err = ts.store.GetTag(context.Background(), "001002")
	require.NoError(t, err)
	assert.Equal(t, 0, tag.UsageCount)
}

func TestSearch(t *testing.T) {
	ts := newTestServer()
	ts.seed(t)

	// About two miles north of the origin
	maren := ts.createOwner(t, "Maren's Studio", 37.8039, -122.4194)
	require.Equal(t, http.StatusOK, ts.addTag(t, maren.ID, "001001").Code)
	far := ts.createOwner(t, "Far Away Cuts", 40.7128, -74.0060)
	require.Equal(t, http.StatusOK, ts.addTag(t, far.ID, "001001").Code)

	query := domain.SearchQuery{
		SelectedPrimaryTags: []string{"001001"},
		MaxDistance:         10,
		OriginLat:           37.7749,
		OriginLong:          -122.4194,
	}

	rr := ts.request("POST", "/api/v1/search", query, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[domain.SearchResponse](t, rr)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, maren.ID, resp.Results[0].ID)
	assert.Equal(t, []string{"Hair Stylist"}, resp.Results[0].TagNames)

	query.MaxDistance = 1
	rr = ts.request("POST", "/api/v1/search", query, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[domain.SearchResponse](t, rr).Count)

	query.MaxDistance = 10
	query.SelectedPrimaryTags = []string{"002001"}
	rr = ts.request("POST", "/api/v1/search", query, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[domain.SearchResponse](t, rr).Count)

	query.OriginLat = 200
	rr = ts.request("POST", "/api/v1/search", query, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminOwnerSearch(t *testing.T) {
	ts := newTestServer()
	ts.createOwner(t, "Maren's Studio", 37.8039, -122.4194)
	ts.createOwner(t, "Glow Bar", 37.8039, -122.4194)

	rr := ts.request("GET", "/api/v1/admin/owners?q=glow", nil, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code)
	owners := decode[[]domain.OwnerWithTags](t, rr)
	require.Len(t, owners, 1)
	assert.Equal(t, "Glow Bar", owners[0].BusinessProfile.BusinessName)

	rr = ts.request("GET", "/api/v1/owners", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.OwnerWithTags](t, rr), 2)
}

func TestFavorites(t *testing.T) {
	ts := newTestServer()
	a := ts.createOwner(t, "A", 37.8, -122.4)
	b := ts.createOwner(t, "B", 37.8, -122.4)

	rr := ts.request("PUT", "/api/v1/admin/owners/"+a.ID+"/favorites",
		domain.SetFavoritesRequest{Favorites: []string{b.ID}}, ts.bootstrapKey)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, []string{b.ID}, decode[domain.OwnerWithTags](t, rr).Favorites)

	rr = ts.request("GET", "/api/v1/owners/"+a.ID+"/favorites", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	favs := decode[[]domain.Owner](t, rr)
	require.Len(t, favs, 1)
	assert.Equal(t, b.ID, favs[0].ID)

	rr = ts.request("PUT", "/api/v1/admin/owners/"+a.ID+"/favorites",
		domain.SetFavoritesRequest{Favorites: []string{a.ID}}, ts.bootstrapKey)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request("PUT", "/api/v1/admin/owners/"+a.ID+"/favorites",
		domain.SetFavoritesRequest{Favorites: []string{"1", "2", "3", "4", "5", "6"}}, ts.bootstrapKey)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[domain.StandardErrorResponse](t, rr)
	assert.Equal(t, "favs", resp.Error.Field)
}
