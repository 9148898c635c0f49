package serverutils

import (
	"context"
	"strings"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*entity.User, error)
}

// JwtMiddleware resolves the bearer token to a user and stores it in Locals.
func JwtMiddleware(auth Authenticator) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			return apperror.Unauthorized("Not authenticated")
		}

		user, err := auth.Authenticate(ctx.UserContext(), strings.TrimSpace(tokenStr))
		if err != nil {
			return err
		}

		ctx.Locals(currentUserKey, user)
		return ctx.Next()
	}
}

// CurrentUser returns the user stored by JwtMiddleware.
func CurrentUser(ctx *fiber.Ctx) (*entity.User, error) {
	user, ok := ctx.Locals(currentUserKey).(*entity.User)
	if !ok || user == nil {
		return nil, apperror.Unauthorized("Not authenticated")
	}
	return user, nil
}
