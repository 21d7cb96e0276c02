/*
Package authsdk is a Go client for the TMS authentication API.

SDKClient covers the public endpoints (register, login, email verification,
password reset, health) and Login returns a Session. A Session carries the
access/refresh pair and rotates it shortly before the access token expires,
so callers never refresh by hand:

	client := authsdk.NewSDKClient("http://localhost:8080")

	session, err := client.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		if authsdk.IsUnauthorized(err) {
			// wrong email or password
		}
		return err
	}

	me, err := session.Profile(ctx)

Every refresh spends the previous refresh token. Two processes sharing one
refresh token will race, and the loser gets a 401.
*/
package authsdk
