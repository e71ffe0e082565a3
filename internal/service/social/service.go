package social

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/app"
	svcErr "github.com/mixenapp/mixen-backend/internal/errors"
	"github.com/mixenapp/mixen-backend/internal/repository"
	"github.com/mixenapp/mixen-backend/internal/server"
)

// Service implements the social graph: swipe feed, likes, match
// derivation and the paid "who liked me" list.
type Service struct {
	appCtx     *app.AppContext
	userRepo   *repository.UserRepository
	likeRepo   *repository.LikeRepository
	matchRepo  *repository.MatchRepository
	walletRepo *repository.WalletRepository
}

// NewService creates the social service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		userRepo:   repository.NewUserRepository(appCtx.DB),
		likeRepo:   repository.NewLikeRepository(appCtx.DB),
		matchRepo:  repository.NewMatchRepository(appCtx.DB),
		walletRepo: repository.NewWalletRepository(appCtx.DB),
	}
}

// Swipe returns the candidate feed for the caller.
//
// Behavior:
//   - Approved users only, excluding self, anyone already liked and
//     anyone already matched. No ranking; storage order.
func (s *Service) Swipe(w http.ResponseWriter, r *http.Request) {
	userID, _ := server.UserIDFrom(r.Context())

	candidates, err := s.userRepo.SwipeCandidates(r.Context(), userID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, candidates)
}

type likeRequest struct {
	ToUserID uint64 `json:"to_user_id"`
}

// Like records a directed like and derives a match when reciprocal.
//
// Behavior:
//   - Missing to_user_id → 400; unknown user → 404; self-like → 400.
//   - Duplicate like → 400, backed by the storage constraint rather than
//     only the pre-check, so racing duplicates cannot slip through.
//   - When the reciprocal like exists, the match is materialized on the
//     canonical pair and the response reports the match. A concurrent
//     reciprocal like may have already created it; that duplicate is
//     treated as the match outcome, not an error.
//   - The recipient's cached like count is bumped on success.
func (s *Service) Like(w http.ResponseWriter, r *http.Request) {
	fromID, _ := server.UserIDFrom(r.Context())

	var req likeRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, err)
		return
	}
	if req.ToUserID == 0 {
		server.WriteError(w, svcErr.InvalidArgument("to_user_id is required"))
		return
	}

	if _, err := s.userRepo.GetByID(r.Context(), req.ToUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			server.WriteError(w, svcErr.NotFound("User not found"))
			return
		}
		server.WriteError(w, err)
		return
	}

	if fromID == req.ToUserID {
		server.WriteError(w, svcErr.InvalidArgument("You cannot like yourself"))
		return
	}

	if err := s.likeRepo.Create(r.Context(), fromID, req.ToUserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			server.WriteError(w, svcErr.AlreadyExists("You already liked this user"))
			return
		}
		server.WriteError(w, err)
		return
	}

	if err := s.appCtx.RedisCache.IncrLikeCount(r.Context(), req.ToUserID); err != nil {
		s.appCtx.Logger.Warn("like count cache update failed", "user_id", req.ToUserID, "err", err)
	}

	reciprocal, err := s.likeRepo.Exists(r.Context(), req.ToUserID, fromID)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	if reciprocal {
		if _, err := s.matchRepo.Create(r.Context(), fromID, req.ToUserID); err != nil &&
			!errors.Is(err, gorm.ErrDuplicatedKey) {
			server.WriteError(w, err)
			return
		}
		s.appCtx.Logger.Info("match created", "user_a", fromID, "user_b", req.ToUserID)
		server.WriteJSON(w, http.StatusCreated, map[string]any{
			"success": "It's a match!",
			"matched": true,
		})
		return
	}

	server.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": "User liked",
		"matched": false,
	})
}

// Matches lists the caller's match counterparties.
//
// Order is matches where the caller is on the user_a side of the
// canonical pair, then the user_b side. Not chronological.
func (s *Service) Matches(w http.ResponseWriter, r *http.Request) {
	userID, _ := server.UserIDFrom(r.Context())

	matches, err := s.matchRepo.ListForUser(r.Context(), userID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, matches)
}

// ViewLikes is the paid "who liked me" list.
//
// Behavior:
//   - Spends the configured cost (5 coins) first; 400 with no list when
//     the balance does not cover it.
//   - Returns the likers, the remaining balance, and the total count.
//   - Count is cache-first: Redis, then DB fallback which repopulates
//     the cache with a fresh TTL.
func (s *Service) ViewLikes(w http.ResponseWriter, r *http.Request) {
	userID, _ := server.UserIDFrom(r.Context())

	remaining, err := s.walletRepo.Spend(r.Context(), userID, s.appCtx.Cfg.Coins.ViewLikesCost)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCoins) {
			server.WriteError(w, svcErr.InvalidArgument("Not enough coins to view likes."))
			return
		}
		server.WriteError(w, err)
		return
	}

	likers, err := s.likeRepo.ListReceived(r.Context(), userID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	count, cached, err := s.appCtx.RedisCache.GetLikeCount(r.Context(), userID)
	if err != nil || !cached {
		count, err = s.likeRepo.CountReceived(r.Context(), userID)
		if err != nil {
			server.WriteError(w, err)
			return
		}
		if err := s.appCtx.RedisCache.SetLikeCount(r.Context(), userID, count); err != nil {
			s.appCtx.Logger.Warn("like count cache set failed", "user_id", userID, "err", err)
		}
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"likes":           likers,
		"count":           count,
		"remaining_coins": remaining,
	})
}
