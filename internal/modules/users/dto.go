package users

type AssignRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type AssignRoleResult struct {
	Message string `json:"message"`
	Changed bool   `json:"changed"`
}
