package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/oauthcore/internal/auth/domain"
	"github.com/aussiebroadwan/oauthcore/internal/auth/service"
	"github.com/aussiebroadwan/oauthcore/pkg/httpx"
	"github.com/aussiebroadwan/oauthcore/pkg/idx"
	"github.com/aussiebroadwan/oauthcore/pkg/slogx"
)

// TokenHandler serves GET /v1/tokens/{id}. The caller authenticates as a
// client with HTTP Basic and may only inspect its own tokens.
type TokenHandler struct {
	ClientService *service.ClientService
	TokenService  *service.TokenService
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Authenticate the client
	clientID, secret, ok := r.BasicAuth()
	if !ok || clientID == "" {
		writeInvalidClient(w)
		return
	}

	client, err := h.ClientService.AuthenticateClient(ctx, clientID, secret, domain.DefaultTokenEndpointAuthMethod)
	if err != nil {
		if errors.Is(err, service.ErrInvalidClient) {
			writeInvalidClient(w)
			return
		}
		log.Error("client authentication failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	ctx = slogx.With(ctx, "client_id", client.ID)
	log = slogx.FromContext(ctx)

	// 2. Load the token
	id, err := idx.ParseHex(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed token id.")
		return
	}
	tokenID := id.String()

	tok, err := h.TokenService.Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			writeTokenNotFound(w)
			return
		}
		log.Error("failed to load token", "error", err, "token_id", tokenID)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	// 3. Another client's token is indistinguishable from a missing one
	if tok.ClientID != client.ID {
		log.Info("client requested a token it does not own", "token_id", tokenID)
		writeTokenNotFound(w)
		return
	}

	// 4. Report on it
	inspection, err := h.TokenService.InspectToken(ctx, tok)
	if err != nil {
		log.Error("failed to inspect token", "error", err, "token_id", tokenID)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, inspection)
}

func writeInvalidClient(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="oauth"`)
	httpx.WriteError(w, http.StatusUnauthorized, "invalid_client", "Client authentication failed.")
}

func writeTokenNotFound(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusNotFound, "not_found", "Token not found.")
}
