package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
)

type verifyRequest struct {
	Email string `json:"email" form:"email"`
	Code  string `json:"code" form:"code"`
}

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterHandler регистрирует пользователя
func (s *AuthService) RegisterHandler(c fiber.Ctx) error {
	var req RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.Register(ctx, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"message":  "Registration successful. Check your email for the verification code.",
	})
}

// VerifyHandler подтверждает email кодом
func (s *AuthService) VerifyHandler(c fiber.Ctx) error {
	var req verifyRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return apperr.Validation("email and code are required")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.Verify(ctx, req.Email, req.Code); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

// ResendHandler отправляет код повторно
func (s *AuthService) ResendHandler(c fiber.Ctx) error {
	var req verifyRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if req.Email == "" {
		return apperr.Validation("email is required")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.ResendCode(ctx, req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

// TokenHandler выдаёт токен по имени и паролю. Принимает форму и JSON.
func (s *AuthService) TokenHandler(c fiber.Ctx) error {
	var req tokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"access_token": token, "token_type": "bearer"})
}

// MeHandler возвращает имя и ID текущего пользователя
func (s *AuthService) MeHandler(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"username": user.Username, "id": user.ID})
}
