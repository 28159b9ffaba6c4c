package api

// LoginResponse reports the outcome of a credential check. The engine
// fills Success, UserID and Error; the HTTP layer mints Token once the
// check succeeds, so tokens never pass through the actor mailbox.
type LoginResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}
