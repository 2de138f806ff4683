package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// InspectToken fetches the inspection of tokenID, authenticating as the client
// that the token was issued to.
func (c *SDKClient) InspectToken(ctx context.Context, clientID, clientSecret, tokenID string) (*TokenInfo, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/tokens/"+url.PathEscape(tokenID), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(clientID, clientSecret)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var info TokenInfo
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		var oauthErr *OAuth2Error
		if errors.As(err, &oauthErr) && oauthErr.StatusCode == http.StatusNotFound {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	return &info, nil
}
