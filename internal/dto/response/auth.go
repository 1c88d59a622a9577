package response

import (
	"time"

	"ticket-storefront/internal/identity"
)

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type SessionResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
	Welcome   string       `json:"welcome"`
}

// SessionToResponse renders a session; the token is only echoed on sign-in.
func SessionToResponse(s *identity.Session, withToken bool) SessionResponse {
	resp := SessionResponse{
		ExpiresAt: s.ExpiresAt,
		User: UserResponse{
			ID:       s.UserID.String(),
			Email:    s.Email,
			FullName: s.FullName,
		},
		Welcome: welcomeName(s),
	}
	if withToken {
		resp.Token = s.Token
	}
	return resp
}

func welcomeName(s *identity.Session) string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Email
}
