package handlers

import (
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if !h.bind(c, &req) {
		return nil
	}

	user, err := h.svc.Auth.Register(c.UserContext(), services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

// Login returns the token and where the client should land: instructors go
// to their profile, everyone else to the search page.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if !h.bind(c, &req) {
		return nil
	}

	token, user, err := h.svc.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}

	landing := "/instructors"
	if user.Role == models.RoleInstructor {
		landing = "/instructor/profile"
	}
	return c.JSON(fiber.Map{
		"token":   token,
		"user":    toUserResponse(user),
		"landing": landing,
	})
}

func (h *Handlers) Me(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	user, err := h.svc.Auth.Me(c.UserContext(), p.UserID)
	if err != nil {
		return h.respondError(c, err)
	}
	resp := toUserResponse(user)
	return c.JSON(fiber.Map{"user": resp, "is_admin": h.svc.Admins.IsAdmin(p)})
}
