package request

import "strings"

// Field order is the order issues are reported in.
type SignUpRequest struct {
	FullName    string `json:"full_name" validate:"min=2"`
	Email       string `json:"email" validate:"email"`
	Password    string `json:"password" validate:"min=6"`
	RedirectURL string `json:"redirect_url,omitempty" validate:"omitempty,url"`
}

// Normalize trims the fields the sign-up form trims.
func (r *SignUpRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
}

type SignInRequest struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"required"`
}

func (r *SignInRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}
