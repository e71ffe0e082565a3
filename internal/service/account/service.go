package account

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/db"
	svcErr "github.com/mixenapp/mixen-backend/internal/errors"
	"github.com/mixenapp/mixen-backend/internal/repository"
	"github.com/mixenapp/mixen-backend/internal/server"
)

// Service implements registration and login.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

// NewService creates the account service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`

	Bio        string `json:"bio"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	Location   string `json:"location"`
	Height     int    `json:"height"`
	Drink      bool   `json:"drink"`
	Smoke      bool   `json:"smoke"`
	LookingFor string `json:"looking_for"`
}

// Register creates a user and its profile atomically.
//
// Behavior:
//   - Validates username/email/password; password must be at least 8 chars.
//   - The profile starts in DRAFT with the configured free coin allowance.
//   - Duplicate username or email → 400.
//   - The response carries the token pair: login is refused until the
//     profile is approved, and the fresh account needs a token to reach
//     the verification upload endpoints.
func (s *Service) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, err)
		return
	}

	if err := validateRegistration(&req); err != nil {
		server.WriteError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	user := db.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	profile := db.Profile{
		Status:     db.StatusDraft,
		Bio:        req.Bio,
		Age:        req.Age,
		Gender:     req.Gender,
		Location:   req.Location,
		Height:     req.Height,
		Drink:      req.Drink,
		Smoke:      req.Smoke,
		LookingFor: req.LookingFor,
		Coins:      s.appCtx.Cfg.Coins.InitialBalance,
	}

	if err := s.userRepo.CreateWithProfile(r.Context(), &user, &profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			server.WriteError(w, svcErr.AlreadyExists("username or email already taken"))
			return
		}
		server.WriteError(w, err)
		return
	}

	s.appCtx.Logger.Info("account created", "user_id", user.ID, "username", user.Username)

	access, refresh, err := s.appCtx.Tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf(
			"Account created successfully. You have %d free coins!",
			s.appCtx.Cfg.Coins.InitialBalance,
		),
		"user_id": user.ID,
		"access":  access,
		"refresh": refresh,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks credentials and issues the token pair.
//
// Behavior:
//   - Unknown username or wrong password → 401.
//   - Valid credentials but profile not APPROVED → 403 with the current
//     status so the client can route to the right screen.
//   - Success → access + refresh tokens plus user_id and username.
func (s *Service) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, err)
		return
	}

	user, err := s.userRepo.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		server.WriteError(w, svcErr.Unauthorized("Invalid credentials"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		server.WriteError(w, svcErr.Unauthorized("Invalid credentials"))
		return
	}

	profile, err := repository.NewProfileRepository(s.appCtx.DB).GetByUserID(r.Context(), user.ID)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	if profile.Status != db.StatusApproved {
		server.WriteJSON(w, http.StatusForbidden, map[string]any{
			"error":  "Account not approved yet",
			"status": profile.Status,
		})
		return
	}

	access, refresh, err := s.appCtx.Tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"access":   access,
		"refresh":  refresh,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

func validateRegistration(req *registerRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" {
		return svcErr.InvalidArgument("username is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return svcErr.InvalidArgument("a valid email is required")
	}
	if len(req.Password) < 8 {
		return svcErr.InvalidArgument("password must be at least 8 characters")
	}
	return nil
}
