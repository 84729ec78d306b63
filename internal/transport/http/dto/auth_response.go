package dto

// Response messages are part of the public contract; existing clients
// match on them verbatim.
const (
	MsgAccountCreated  = "Account Created Successfully"
	MsgLoginSuccessful = "Login successful"
	MsgUserVerified    = "User verified successfully"
	MsgPasswordUpdated = "Password updated successfully"
)

// UserView is the safe projection of an account. The password hash never
// leaves the service.
type UserView struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// -------- Core auth --------

type SignupData struct {
	Message string `json:"message"` // MsgAccountCreated
	UserID  string `json:"userId"`
}

type SigninData struct {
	Message     string   `json:"message"` // MsgLoginSuccessful
	User        UserView `json:"user"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"` // "Bearer"
	ExpiresIn   int64    `json:"expires_in"` // seconds
}

// -------- Account recovery --------

// VerifyUserData confirms the username/email pair exists. Only the pair the
// caller already supplied comes back; nothing else about the account leaks.
type VerifyUserData struct {
	Message  string `json:"message"` // MsgUserVerified
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ResetPasswordData struct {
	Message string `json:"message"` // MsgPasswordUpdated
}

// -------- Me --------

type MeData struct {
	User UserView `json:"user"`
}
