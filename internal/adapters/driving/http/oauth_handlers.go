package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driving"
)

// callbackPath is where the authorization server sends the browser back
const callbackPath = "/api/oauth/callback/"

// OKResponse acknowledges an idempotent action
// @Description Acknowledgement
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// handleOAuthLogin godoc
// @Summary      Start Quran Foundation sign-in
// @Description  Stores PKCE, state and nonce in the browser session and redirects to the authorization server
// @Tags         OAuth
// @Success      302
// @Failure      503  {object}  ErrorResponse  "Client credentials not configured"
// @Router       /oauth/login/ [get]
func (s *Server) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	authURL, err := s.oauthService.Login(r.Context(), GetSessionID(r.Context()), callbackURL(r))
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			writeError(w, http.StatusServiceUnavailable, domain.MissingCredentialsMessage)
			return
		}
		s.logger.Error("oauth login failed", "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to start login")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleOAuthCallback godoc
// @Summary      Authorization server callback
// @Description  Exchanges the authorization code and redirects to the frontend with a one-time code or an oauth_error
// @Tags         OAuth
// @Param        code   query  string  false  "Authorization code"
// @Param        state  query  string  false  "State issued at login"
// @Param        error  query  string  false  "Provider error"
// @Success      302
// @Router       /oauth/callback/ [get]
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result := s.oauthService.Callback(r.Context(), GetSessionID(r.Context()), driving.CallbackRequest{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Error: q.Get("error"),
	})

	s.metrics.ObserveCallback(result.Reason)
	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}

// handleOAuthExchange godoc
// @Summary      Redeem the one-time code
// @Description  Returns the token set stored by the callback. Each code works once.
// @Tags         OAuth
// @Produce      json
// @Param        code  query     string  true  "One-time exchange code"
// @Success      200   {object}  domain.TokenSet
// @Failure      400   {object}  ErrorResponse  "Invalid or expired code"
// @Router       /oauth/exchange/ [get]
func (s *Server) handleOAuthExchange(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.oauthService.Redeem(r.Context(), GetSessionID(r.Context()), r.URL.Query().Get("code"))
	if err != nil {
		s.metrics.ObserveExchange(false)
		if !errors.Is(err, domain.ErrInvalidOrExpiredCode) {
			s.logger.Error("oauth exchange failed", "error", err, "request_id", GetRequestID(r.Context()))
		}
		writeError(w, http.StatusBadRequest, "Invalid or expired code")
		return
	}

	s.metrics.ObserveExchange(true)
	writeJSON(w, http.StatusOK, tokens)
}

// handleOAuthMe godoc
// @Summary      Quran Foundation session status
// @Tags         OAuth
// @Produce      json
// @Success      200  {object}  domain.SessionStatus
// @Failure      401  {object}  domain.SessionStatus
// @Router       /oauth/me/ [get]
func (s *Server) handleOAuthMe(w http.ResponseWriter, r *http.Request) {
	status, err := s.oauthService.WhoAmI(r.Context(), GetSessionID(r.Context()))
	if err != nil {
		s.logger.Error("oauth whoami failed", "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}
	if !status.Authenticated {
		writeJSON(w, http.StatusUnauthorized, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleOAuthLogout godoc
// @Summary      Forget Quran Foundation tokens
// @Tags         OAuth
// @Produce      json
// @Success      200  {object}  OKResponse
// @Router       /oauth/logout/ [post]
func (s *Server) handleOAuthLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.oauthService.Logout(r.Context(), GetSessionID(r.Context())); err != nil {
		s.logger.Warn("oauth logout failed", "error", err, "request_id", GetRequestID(r.Context()))
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// callbackURL is the absolute callback URL as seen by the browser
func callbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	return scheme + "://" + host + callbackPath
}
