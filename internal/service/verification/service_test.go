package verification_test

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
	"github.com/mixenapp/mixen-backend/internal/notify"
	"github.com/mixenapp/mixen-backend/internal/service/verification"
	"github.com/mixenapp/mixen-backend/internal/testutil"
)

func setup(t *testing.T) (*app.AppContext, *notify.Recorder, http.Handler) {
	t.Helper()
	appCtx, recorder := testutil.NewAppContext(t)
	router := testutil.NewRouter(appCtx, verification.NewRegistrar(appCtx))
	return appCtx, recorder, router
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
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

func uploadMedia(t *testing.T, router http.Handler, token string, images int, video bool) {
	t.Helper()
	for i := 0; i < images; i++ {
		rec := doJSON(t, router, http.MethodPost, "/upload-images/", token,
			map[string]string{"image_url": fmt.Sprintf("https://cdn.test/img%d.jpg", i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	if video {
		rec := doJSON(t, router, http.MethodPost, "/upload-video/", token,
			map[string]string{"video_url": "https://cdn.test/selfie.mp4"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	_, _, router := setup(t)

	rec := doJSON(t, router, http.MethodPost, "/upload-images/", "",
		map[string]string{"image_url": "https://cdn.test/a.jpg"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadImageMissingURL(t *testing.T) {
	appCtx, _, router := setup(t)
	user := testutil.SeedUser(t, appCtx, 1, db.StatusDraft, 30)
	token := testutil.AccessToken(t, appCtx, user)

	rec := doJSON(t, router, http.MethodPost, "/upload-images/", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadVideoOnlyOnce(t *testing.T) {
	appCtx, _, router := setup(t)
	user := testutil.SeedUser(t, appCtx, 1, db.StatusDraft, 30)
	token := testutil.AccessToken(t, appCtx, user)

	rec := doJSON(t, router, http.MethodPost, "/upload-video/", token,
		map[string]string{"video_url": "https://cdn.test/v.mp4"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/upload-video/", token,
		map[string]string{"video_url": "https://cdn.test/v2.mp4"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already uploaded")
}

func TestSubmitReviewPreconditions(t *testing.T) {
	appCtx, recorder, router := setup(t)
	user := testutil.SeedUser(t, appCtx, 1, db.StatusDraft, 30)
	token := testutil.AccessToken(t, appCtx, user)

	// 3 images + video: image count fails first even though a video exists
	uploadMedia(t, router, token, 3, true)
	rec := doJSON(t, router, http.MethodPost, "/submit-review/", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 4 verification images")

	// profile untouched on failure
	var profile db.Profile
	require.NoError(t, appCtx.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, db.StatusDraft, profile.Status)
	assert.Nil(t, profile.SubmittedAt)
	assert.Empty(t, recorder.All())
}

func TestSubmitReviewVideoMissing(t *testing.T) {
	appCtx, _, router := setup(t)
	user := testutil.SeedUser(t, appCtx, 1, db.StatusDraft, 30)
	token := testutil.AccessToken(t, appCtx, user)

	// enough images, no video
	uploadMedia(t, router, token, 4, false)
	rec := doJSON(t, router, http.MethodPost, "/submit-review/", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "verification video")
}

func TestSubmitReviewSuccess(t *testing.T) {
	appCtx, recorder, router := setup(t)
	user := testutil.SeedUser(t, appCtx, 1, db.StatusDraft, 30)
	token := testutil.AccessToken(t, appCtx, user)

	uploadMedia(t, router, token, 4, true)
	rec := doJSON(t, router, http.MethodPost, "/submit-review/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile db.Profile
	require.NoError(t, appCtx.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, db.StatusPending, profile.Status)
	require.NotNil(t, profile.SubmittedAt)

	sent := recorder.All()
	require.Len(t, sent, 1)
	assert.Equal(t, "pending", sent[0].Kind)
	assert.Equal(t, user.Email, sent[0].To)
}

func TestSubmitReviewNotificationFailureSwallowed(t *testing.T) {
	appCtx, recorder, router := setup(t)
	user := testutil.SeedUser(t, appCtx, 1, db.StatusDraft, 30)
	token := testutil.AccessToken(t, appCtx, user)
	recorder.FailAll = true

	uploadMedia(t, router, token, 4, true)
	rec := doJSON(t, router, http.MethodPost, "/submit-review/", token, nil)
	// fire-and-forget: the submission still succeeds
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	appCtx, _, router := setup(t)
	user := testutil.SeedUser(t, appCtx, 1, db.StatusRejected, 12)
	require.NoError(t, appCtx.DB.Model(&db.Profile{}).
		Where("user_id = ?", user.ID).
		Update("rejection_reason", "Blurry or unclear images").Error)
	token := testutil.AccessToken(t, appCtx, user)

	rec := doJSON(t, router, http.MethodGet, "/status/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason"`
		Coins           int    `json:"coins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, db.StatusRejected, resp.Status)
	assert.Equal(t, "Blurry or unclear images", resp.RejectionReason)
	assert.Equal(t, 12, resp.Coins)
}

func TestApproveIdempotentButResendsNotification(t *testing.T) {
	appCtx, recorder, _ := setup(t)
	user := testutil.SeedUser(t, appCtx, 1, db.StatusPending, 30)
	svc := verification.NewService(appCtx)

	ctx := t.Context()
	require.NoError(t, svc.Approve(ctx, user.Profile.ID))
	require.NoError(t, svc.Approve(ctx, user.Profile.ID))

	var profile db.Profile
	require.NoError(t, appCtx.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, db.StatusApproved, profile.Status)

	// same end state, but the notification went out twice
	assert.Len(t, recorder.All(), 2)
}
