package httpapi

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	oauthStateCookie = "tablebook_oauth_state"
	oauthStateMaxAge = 600
)

func (handler *apiHandler) handleGoogleLogin(ctx *gin.Context) {
	state := uuid.NewString()
	ctx.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", false, true)
	ctx.Redirect(http.StatusFound, handler.provider.AuthCodeURL(state))
}

func (handler *apiHandler) handleGoogleCallback(ctx *gin.Context) {
	expectedState, err := ctx.Cookie(oauthStateCookie)
	ctx.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)
	if err != nil || expectedState == "" || ctx.Query("state") != expectedState {
		handler.redirectWithAuthError(ctx, "state_mismatch")
		return
	}
	code := ctx.Query("code")
	if code == "" {
		handler.redirectWithAuthError(ctx, "missing_code")
		return
	}

	profile, err := handler.provider.Exchange(ctx.Request.Context(), code)
	if err != nil {
		handler.logger.Warn("oauth exchange failed", zap.Error(err))
		handler.redirectWithAuthError(ctx, "auth_failed")
		return
	}
	user, err := handler.identity.ResolveOrCreate(ctx.Request.Context(), profile)
	if err != nil {
		handler.logger.Error("principal resolution failed", zap.Error(err))
		handler.redirectWithAuthError(ctx, "auth_failed")
		return
	}
	token, err := handler.tokens.Issue(user)
	if err != nil {
		handler.logger.Error("token issue failed", zap.Error(err))
		handler.redirectWithAuthError(ctx, "auth_failed")
		return
	}

	ctx.SetCookie(handler.cfg.SessionCookieName, token, int(handler.cfg.SessionTokenTTL.Seconds()), "/", "", false, true)
	ctx.Redirect(http.StatusFound, handler.cfg.ClientOrigin+"/auth/callback?token="+url.QueryEscape(token))
}

func (handler *apiHandler) redirectWithAuthError(ctx *gin.Context, code string) {
	ctx.Redirect(http.StatusFound, handler.cfg.ClientOrigin+"/auth/callback?error="+url.QueryEscape(code))
}

func (handler *apiHandler) handleLogout(ctx *gin.Context) {
	ctx.SetCookie(handler.cfg.SessionCookieName, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCurrentUser re-reads the principal row so role or profile changes
// made after token issuance are visible.
func (handler *apiHandler) handleCurrentUser(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	user, err := handler.identity.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "unknown principal"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": toUserPayload(user)})
}

func (handler *apiHandler) handleUpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	var request profileUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	user, err := handler.identity.UpdateDisplayName(ctx.Request.Context(), userID, request.Name)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": toUserPayload(user)})
}
