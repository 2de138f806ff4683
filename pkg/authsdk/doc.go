/*
Package authsdk is a small client for resource servers that talk to the auth
service over HTTP.

# Overview

An SDKClient covers the unauthenticated health probes and the
client-authenticated token inspection endpoint:

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Inspect a token issued to this client
	info, err := client.InspectToken(ctx, clientID, clientSecret, tokenID)
	if err != nil {
		var oauthErr *authsdk.OAuth2Error
		if errors.As(err, &oauthErr) && oauthErr.Code == authsdk.ErrorCodeInvalidClient {
			// bad credentials
		}
	}
	if !info.Active {
		// expired, or its client no longer exists
	}

A token that does not exist, or belongs to another client, is reported as
ErrTokenNotFound.
*/
package authsdk
