package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=32"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// UpdateUserRequest 更新用户请求，只允许修改名字和密码
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=2,max=50"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6,max=32"`
}

// Empty 请求体中没有任何字段
func (r *UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Password == nil
}
