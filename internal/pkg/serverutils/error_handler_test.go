package serverutils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"studybuddy-be/internal/pkg/apperror"
	"studybuddy-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
	app.Get("/", func(ctx *fiber.Ctx) error {
		return err
	})
	return app
}

func decodeEnvelope(t *testing.T, app *fiber.App) (int, BaseResponse[any], string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body, resp.Header.Get(fiber.HeaderWWWAuthenticate)
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperror.Conflict("Email already registered"), fiber.StatusBadRequest},
		{apperror.Forbidden("Account is inactive"), fiber.StatusForbidden},
		{apperror.NotFound("Chat session not found"), fiber.StatusNotFound},
		{apperror.Unauthorized("Could not validate credentials"), fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		status, body, _ := decodeEnvelope(t, newErrorApp(tc.err))
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.status, body.Code)
		assert.False(t, body.Success)
		assert.Equal(t, tc.err.Error(), body.Message)
	}
}

func TestErrorHandlerChallengesUnauthorized(t *testing.T) {
	_, _, challenge := decodeEnvelope(t, newErrorApp(apperror.Unauthorized("nope")))
	assert.Equal(t, "Bearer", challenge)
}

func TestErrorHandlerHidesInternalCauses(t *testing.T) {
	status, body, _ := decodeEnvelope(t, newErrorApp(errors.New("pq: connection refused")))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Message)

	status, body, _ = decodeEnvelope(t, newErrorApp(apperror.Upstream(errors.New("429"), "Failed to generate AI response. Please try again.")))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to generate AI response. Please try again.", body.Message)
}

func TestErrorHandlerListsValidationFields(t *testing.T) {
	status, body, _ := decodeEnvelope(t, newErrorApp(apperror.Validation("Validation failed", map[string]string{"email": "email must be a valid email address"})))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "email must be a valid email address", body.Errors["email"])
}

func TestErrorHandlerKeepsFiberErrors(t *testing.T) {
	status, body, _ := decodeEnvelope(t, newErrorApp(fiber.ErrMethodNotAllowed))
	assert.Equal(t, fiber.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method Not Allowed", body.Message)
}
