package serverutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"ai-knowledge-base-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/probe", handler)
	return app
}

func TestErrorHandlerMapsKindsToStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperror.NewValidation("content is required"), fiber.StatusBadRequest},
		{"not found", apperror.NewNotFound("item not found"), fiber.StatusNotFound},
		{"service", apperror.NewService("embedding provider unreachable", nil), fiber.StatusBadGateway},
		{"store", apperror.NewStore("insert failed", nil), fiber.StatusInternalServerError},
		{"retrieval", apperror.NewRetrieval("query failed", nil), fiber.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(func(ctx *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.code, resp.StatusCode)

			var body Response[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorHandlerPassesSuccessThrough(t *testing.T) {
	app := newTestApp(func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", fiber.Map{"x": 1}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestValidateRequestJoinsFieldErrors(t *testing.T) {
	type payload struct {
		Question   string `validate:"required"`
		MaxResults int    `validate:"omitempty,min=1,max=10"`
	}

	err := ValidateRequest(payload{MaxResults: 99})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "Question")
	assert.Contains(t, err.Error(), "MaxResults")
}

func TestValidateRequestAcceptsValidPayload(t *testing.T) {
	type payload struct {
		Question string `validate:"required"`
	}

	assert.NoError(t, ValidateRequest(payload{Question: "q"}))
}
