package controller

import (
	"studybuddy-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("Invalid request body", map[string]string{"body": err.Error()})
	}
	return nil
}

func parseIdParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("Validation failed", map[string]string{name: name + " must be a valid UUID"})
	}
	return id, nil
}

func parseQuery(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.QueryParser(out); err != nil {
		return apperror.Validation("Invalid query parameters", map[string]string{"query": err.Error()})
	}
	return nil
}
