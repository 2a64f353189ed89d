package types

type UserResponse struct {
	ID             uint   `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	Bio            string `json:"bio,omitempty"`
	GithubUsername string `json:"github_username,omitempty"`
}
