package api

import (
	"net/http"

	"github.com/hearthsidehq/hearthside-api/internal/api/shared"
	"github.com/hearthsidehq/hearthside-api/internal/domain"
	"github.com/hearthsidehq/hearthside-api/internal/service"
	"github.com/hearthsidehq/hearthside-api/internal/service/auth"
)

// AuthHandler handles member account and authentication requests.
type AuthHandler struct {
	memberService service.MemberService
	jwtService    auth.JWTService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(memberService service.MemberService, jwtService auth.JWTService) *AuthHandler {
	return &AuthHandler{
		memberService: memberService,
		jwtService:    jwtService,
	}
}

// Register handles POST /api/users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	member, err := h.memberService.Register(
		r.Context(),
		req.Name,
		req.Email,
		req.Password,
		domain.Role(req.Role),
	)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, member)
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	member, err := h.memberService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, member)
}

// RefreshToken handles POST /api/users/refresh, exchanging a valid
// refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	member, err := h.memberService.GetProfile(r.Context(), claims.MemberID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, member)
}

// Profile handles GET /api/users/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	member, err := h.memberService.GetProfile(r.Context(), actorID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, member)
}

// AddChild handles POST /api/users/me/children.
func (h *AuthHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	actorID, ok := memberIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AddChildRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	child, err := h.memberService.AddChild(r.Context(), actorID, req.Email)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, child)
}

func (h *AuthHandler) respondWithTokens(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	member *domain.Member,
) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), member.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), member.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate refresh token", err)
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		MemberID:     member.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
