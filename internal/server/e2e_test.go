package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/db"
	"github.com/mixenapp/mixen-backend/internal/server"
	"github.com/mixenapp/mixen-backend/internal/service/account"
	"github.com/mixenapp/mixen-backend/internal/service/admin"
	"github.com/mixenapp/mixen-backend/internal/service/chat"
	"github.com/mixenapp/mixen-backend/internal/service/social"
	"github.com/mixenapp/mixen-backend/internal/service/verification"
	"github.com/mixenapp/mixen-backend/internal/testutil"
)

// fullRouter mounts every service, mirroring cmd/server.
func fullRouter(appCtx *app.AppContext) http.Handler {
	return server.NewRouter(appCtx,
		account.NewRegistrar(appCtx),
		verification.NewRegistrar(appCtx),
		social.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		admin.NewRegistrar(appCtx),
	)
}

func call(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// registerAndVerify walks one account through the whole onboarding
// funnel: register, upload media, submit, admin approval, login.
// Returns the user id and an access token.
func registerAndVerify(t *testing.T, appCtx *app.AppContext, router http.Handler, username, adminToken string) (uint64, string) {
	t.Helper()

	rec := call(t, router, http.MethodPost, "/register/", "", map[string]any{
		"username": username,
		"email":    username + "@test.com",
		"password": "supersecret",
		"age":      25,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var reg struct {
		UserID uint64 `json:"user_id"`
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	require.NotEmpty(t, reg.Access)

	// login is blocked until approval; the registration token is the only
	// credential a draft account holds
	rec = call(t, router, http.MethodPost, "/login/", "", map[string]string{
		"username": username, "password": "supersecret",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	draftToken := reg.Access

	for i := 0; i < 4; i++ {
		rec = call(t, router, http.MethodPost, "/upload-images/", draftToken,
			map[string]string{"image_url": fmt.Sprintf("https://cdn.test/%s/%d.jpg", username, i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec = call(t, router, http.MethodPost, "/upload-video/", draftToken,
		map[string]string{"video_url": "https://cdn.test/" + username + "/selfie.mp4"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, router, http.MethodPost, "/submit-review/", draftToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile db.Profile
	require.NoError(t, appCtx.DB.Where("user_id = ?", reg.UserID).First(&profile).Error)
	rec = call(t, router, http.MethodPost, "/admin/profiles/approve/", adminToken,
		map[string]any{"profile_ids": []uint64{profile.ID}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, router, http.MethodPost, "/login/", "", map[string]string{
		"username": username, "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	return reg.UserID, login.Access
}

func TestFullMatchAndMessagingFlow(t *testing.T) {
	appCtx, recorder := testutil.NewAppContext(t)
	router := fullRouter(appCtx)
	adminUser := testutil.SeedAdmin(t, appCtx, 100)
	adminToken := testutil.AccessToken(t, appCtx, adminUser)

	aliceID, aliceToken := registerAndVerify(t, appCtx, router, "alice", adminToken)
	bobID, bobToken := registerAndVerify(t, appCtx, router, "bob", adminToken)

	// onboarding produced pending + approved notifications for both
	kinds := map[string]int{}
	for _, m := range recorder.All() {
		kinds[m.Kind]++
	}
	assert.Equal(t, 2, kinds["pending"])
	assert.Equal(t, 2, kinds["approved"])

	// each sees the other in the swipe feed
	rec := call(t, router, http.MethodGet, "/swipe/", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var candidates []struct {
		ID       uint64  `json:"id"`
		Username string  `json:"username"`
		ImageURL *string `json:"profile_image"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &candidates))
	require.Len(t, candidates, 1)
	assert.Equal(t, bobID, candidates[0].ID)
	require.NotNil(t, candidates[0].ImageURL)
	assert.Equal(t, "https://cdn.test/bob/0.jpg", *candidates[0].ImageURL)

	// A likes B: liked, no match yet
	rec = call(t, router, http.MethodPost, "/like/", aliceToken, map[string]uint64{"to_user_id": bobID})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matched":false`)

	// B likes A: match
	rec = call(t, router, http.MethodPost, "/like/", bobToken, map[string]uint64{"to_user_id": aliceID})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matched":true`)

	// both sides list each other
	for _, tc := range []struct {
		token string
		want  uint64
	}{{aliceToken, bobID}, {bobToken, aliceID}} {
		rec = call(t, router, http.MethodGet, "/matches/", tc.token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var matches []struct {
			ID uint64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
		require.Len(t, matches, 1)
		assert.Equal(t, tc.want, matches[0].ID)
	}

	// matched users disappear from the feed
	rec = call(t, router, http.MethodGet, "/swipe/", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &candidates))
	assert.Empty(t, candidates)

	// drain alice down to a single coin
	require.NoError(t, appCtx.DB.Model(&db.Profile{}).
		Where("user_id = ?", aliceID).Update("coins", 1).Error)

	// message with balance 1 succeeds and leaves 0
	rec = call(t, router, http.MethodPost, "/send-message/", aliceToken,
		map[string]any{"to_user": bobID, "text": "hi bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	var sendResp struct {
		RemainingCoins int `json:"remaining_coins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sendResp))
	assert.Zero(t, sendResp.RemainingCoins)

	// second message refused, balance still 0
	rec = call(t, router, http.MethodPost, "/send-message/", aliceToken,
		map[string]any{"to_user": bobID, "text": "hi again"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var profile db.Profile
	require.NoError(t, appCtx.DB.Where("user_id = ?", aliceID).First(&profile).Error)
	assert.Zero(t, profile.Coins)

	// status endpoint reflects the approved profile and spent coins
	rec = call(t, router, http.MethodGet, "/status/", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"APPROVED"`)
	assert.Contains(t, rec.Body.String(), `"coins":0`)
}

func TestViewLikesEndToEnd(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t)
	router := fullRouter(appCtx)

	alice := testutil.SeedUser(t, appCtx, 1, db.StatusApproved, 30)
	bob := testutil.SeedUser(t, appCtx, 2, db.StatusApproved, 30)
	aliceToken := testutil.AccessToken(t, appCtx, alice)
	bobToken := testutil.AccessToken(t, appCtx, bob)

	rec := call(t, router, http.MethodPost, "/like/", bobToken, map[string]uint64{"to_user_id": alice.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, router, http.MethodGet, "/view-likes/", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), bob.Username)
	assert.Contains(t, rec.Body.String(), `"remaining_coins":25`)
}
