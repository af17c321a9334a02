// file: dto/auth.go
package dto

import "strings"

// ========== 请求 DTO ==========

type RegisterReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterReq) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ForgotPasswordReq struct {
	Email string `json:"email"`
}

type ResetPasswordReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type UpdateProfileReq struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	Email       string  `json:"email"`
	Github      *string `json:"github"`
	Twitter     *string `json:"twitter"`
	Website     *string `json:"website"`
}

type ChangePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ========== 响应 DTO ==========

type FieldError struct {
	Param   string `json:"param"`
	Message string `json:"message"`
}

type UserResp struct {
	ID          uint32 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Points      int    `json:"points"`
	Role        string `json:"role"`
	CreatedAt   string `json:"createdAt"`
}

type AuthResp struct {
	Token string   `json:"token"`
	User  UserResp `json:"user"`
}
