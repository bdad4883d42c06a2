package api

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

// GetCurrentUserResponse sets NeedsProfile while the user has no username.
type GetCurrentUserResponse struct {
	User         *User `json:"user"`
	NeedsProfile bool  `json:"needsProfile"`
}

type CompleteProfileRequest struct {
	Username        string `json:"username"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
	DefaultCurrency string `json:"defaultCurrency,omitempty"`
}

type CompleteProfileResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

// ListUsersResponse lists every user except the caller.
type ListUsersResponse struct {
	Users []*User `json:"users"`
}
