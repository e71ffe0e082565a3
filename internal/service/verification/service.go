package verification

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/app"
	svcErr "github.com/mixenapp/mixen-backend/internal/errors"
	"github.com/mixenapp/mixen-backend/internal/repository"
	"github.com/mixenapp/mixen-backend/internal/server"
)

// minImages is how many profile images a submission needs.
const minImages = 4

// Service implements the profile verification workflow: media uploads,
// submission for review, the status endpoint, and the approve/reject
// transitions shared with the admin review queue.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	userRepo    *repository.UserRepository
}

// NewService creates the verification service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
	}
}

type uploadImageRequest struct {
	ImageURL string `json:"image_url"`
}

// UploadImage records one externally hosted image URL for the caller's profile.
func (s *Service) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := server.UserIDFrom(r.Context())

	var req uploadImageRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, err)
		return
	}
	if req.ImageURL == "" {
		server.WriteError(w, svcErr.InvalidArgument("image_url is required"))
		return
	}

	profile, err := s.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	if err := s.profileRepo.AddImage(r.Context(), profile.ID, req.ImageURL); err != nil {
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusCreated, map[string]string{"success": "Image uploaded"})
}

type uploadVideoRequest struct {
	VideoURL string `json:"video_url"`
}

// UploadVideo records the single verification video URL.
func (s *Service) UploadVideo(w http.ResponseWriter, r *http.Request) {
	userID, _ := server.UserIDFrom(r.Context())

	var req uploadVideoRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, err)
		return
	}
	if req.VideoURL == "" {
		server.WriteError(w, svcErr.InvalidArgument("video_url is required"))
		return
	}

	profile, err := s.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	if err := s.profileRepo.AddVideo(r.Context(), profile.ID, req.VideoURL); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			server.WriteError(w, svcErr.AlreadyExists("Verification video already uploaded"))
			return
		}
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusCreated, map[string]string{"success": "Video uploaded"})
}

// SubmitReview moves the caller's profile from DRAFT (or REJECTED, on
// resubmission) into PENDING.
//
// Behavior:
//   - Preconditions fail independently, image count first: fewer than
//     four images rejects even when a video is present, and a missing
//     video rejects even with enough images. Nothing is mutated on
//     failure.
//   - On success sets submitted_at and emits the pending notification;
//     a notification failure is logged and swallowed.
func (s *Service) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := server.UserIDFrom(r.Context())

	profile, err := s.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	images, err := s.profileRepo.CountImages(r.Context(), profile.ID)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	if images < minImages {
		server.WriteError(w, svcErr.InvalidArgument("You must upload at least 4 verification images"))
		return
	}

	hasVideo, err := s.profileRepo.HasVideo(r.Context(), profile.ID)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	if !hasVideo {
		server.WriteError(w, svcErr.InvalidArgument("You must upload a verification video"))
		return
	}

	if err := s.profileRepo.MarkPending(r.Context(), profile.ID); err != nil {
		server.WriteError(w, err)
		return
	}

	user, err := s.userRepo.GetByID(r.Context(), userID)
	if err == nil {
		if err := s.appCtx.Notifier.ProfilePending(user.Email); err != nil {
			s.appCtx.Logger.Warn("pending notification failed", "user_id", userID, "err", err)
		}
	}

	server.WriteJSON(w, http.StatusOK, map[string]string{"success": "Profile submitted for review"})
}

// Status reports the caller's verification status, last rejection
// reason and coin balance.
func (s *Service) Status(w http.ResponseWriter, r *http.Request) {
	userID, _ := server.UserIDFrom(r.Context())

	profile, err := s.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"status":           profile.Status,
		"rejection_reason": profile.RejectionReason,
		"coins":            profile.Coins,
	})
}

// Approve transitions a profile to APPROVED and notifies the account.
//
// The state transition is idempotent; the notification is re-sent on
// every call. The notification error is returned so the admin bulk
// path can abort the remaining batch on failure.
func (s *Service) Approve(ctx context.Context, profileID uint64) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if err := s.profileRepo.Approve(ctx, profileID); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, profile.UserID)
	if err != nil {
		return err
	}
	return s.appCtx.Notifier.ProfileApproved(user.Email)
}

// Reject transitions a profile to REJECTED with the given reasons and
// notifies the account. Same error contract as Approve.
func (s *Service) Reject(ctx context.Context, profileID uint64, reasons []string) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if err := s.profileRepo.Reject(ctx, profileID, reasons); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, profile.UserID)
	if err != nil {
		return err
	}
	return s.appCtx.Notifier.ProfileRejected(user.Email, reasons)
}
