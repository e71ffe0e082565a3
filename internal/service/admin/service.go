package admin

import (
	"net/http"

	"github.com/mixenapp/mixen-backend/internal/app"
	svcErr "github.com/mixenapp/mixen-backend/internal/errors"
	"github.com/mixenapp/mixen-backend/internal/repository"
	"github.com/mixenapp/mixen-backend/internal/server"
	"github.com/mixenapp/mixen-backend/internal/service/verification"
)

// DefaultRejectReason is applied uniformly by the bulk reject action.
const DefaultRejectReason = "Incomplete profile information"

// RejectionReasons is the canonical catalog offered to reviewers.
// Free-text reasons are also accepted by the single-profile reject.
var RejectionReasons = []string{
	"Blurry or unclear images",
	"Face not clearly visible",
	"Video does not match photos",
	"Fake or stolen images",
	"Incomplete profile information",
	"Multiple people in images",
}

const defaultPageSize = 20

// Service implements the admin review queue: profile listing with
// filter/search, and bulk approve/reject actions.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	workflow    *verification.Service
}

// NewService creates the admin service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		workflow:    verification.NewService(appCtx),
	}
}

// ListProfiles returns profiles for the review console.
//
// Query params: status (exact), q (substring over username/email),
// page_token (opaque cursor).
func (s *Service) ListProfiles(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	search := r.URL.Query().Get("q")

	var token *string
	if t := r.URL.Query().Get("page_token"); t != "" {
		token = &t
	}

	rows, nextToken, err := s.profileRepo.ListForReview(r.Context(), status, search, token, defaultPageSize)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	resp := map[string]any{"profiles": rows}
	if nextToken != nil {
		resp["next_page_token"] = *nextToken
	}
	server.WriteJSON(w, http.StatusOK, resp)
}

// Reasons exposes the canonical rejection-reason catalog.
func (s *Service) Reasons(w http.ResponseWriter, r *http.Request) {
	server.WriteJSON(w, http.StatusOK, map[string]any{"reasons": RejectionReasons})
}

type bulkRequest struct {
	ProfileIDs []uint64 `json:"profile_ids"`
}

// BulkApprove applies the approve transition to every selected profile.
//
// Behavior:
//   - Each approval re-sends the approved notification, matching the
//     single-profile operation.
//   - A failure (including a notification failure) aborts the remaining
//     batch; the response reports how many profiles were processed.
func (s *Service) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, err)
		return
	}
	if len(req.ProfileIDs) == 0 {
		server.WriteError(w, svcErr.InvalidArgument("profile_ids is required"))
		return
	}

	processed := 0
	for _, id := range req.ProfileIDs {
		if err := s.workflow.Approve(r.Context(), id); err != nil {
			s.appCtx.Logger.Error("bulk approve aborted", "profile_id", id, "processed", processed, "err", err)
			server.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"error":     "bulk approve aborted: " + err.Error(),
				"processed": processed,
			})
			return
		}
		processed++
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   "Profiles approved",
		"processed": processed,
	})
}

// BulkReject applies the reject transition with the default reason to
// every selected profile. Per-profile custom reasons are not supported
// in bulk. Same abort-on-failure contract as BulkApprove.
func (s *Service) BulkReject(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, err)
		return
	}
	if len(req.ProfileIDs) == 0 {
		server.WriteError(w, svcErr.InvalidArgument("profile_ids is required"))
		return
	}

	processed := 0
	for _, id := range req.ProfileIDs {
		if err := s.workflow.Reject(r.Context(), id, []string{DefaultRejectReason}); err != nil {
			s.appCtx.Logger.Error("bulk reject aborted", "profile_id", id, "processed", processed, "err", err)
			server.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"error":     "bulk reject aborted: " + err.Error(),
				"processed": processed,
			})
			return
		}
		processed++
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   "Profiles rejected",
		"processed": processed,
	})
}

type rejectRequest struct {
	ProfileID uint64   `json:"profile_id"`
	Reasons   []string `json:"reasons"`
}

// RejectOne rejects a single profile with itemized reasons.
func (s *Service) RejectOne(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, err)
		return
	}
	if req.ProfileID == 0 {
		server.WriteError(w, svcErr.InvalidArgument("profile_id is required"))
		return
	}
	if len(req.Reasons) == 0 {
		req.Reasons = []string{DefaultRejectReason}
	}

	if err := s.workflow.Reject(r.Context(), req.ProfileID, req.Reasons); err != nil {
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]string{"success": "Profile rejected"})
}
