package test_utils

import (
	"context"

	"github.com/finboard/finboard/pkg/session"
)

func TestProfile() session.Profile {
	return session.Profile{
		Id:        "123",
		Username:  "test_user",
		Email:     "test@example.com",
		FirstName: "Test",
		LastName:  "User",
	}
}

// AuthenticatedContext carries a session for the test user with the given access token.
func AuthenticatedContext(accessToken string) context.Context {
	s := session.FromToken(accessToken, "test-refresh")
	profile := TestProfile()
	s.Profile = &profile
	return session.WithSession(context.Background(), s)
}
