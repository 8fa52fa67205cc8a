package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/me", JwtMiddleware, func(ctx *fiber.Ctx) error {
		id, err := CurrentUser(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", map[string]interface{}{"type": id.Type, "id": id.Id}))
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return NewInternalError("Something failed", errors.New("db down"))
	})
	return app
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, body io.Reader) BaseResponse[map[string]interface{}] {
	t.Helper()
	var out BaseResponse[map[string]interface{}]
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newApp()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "Bearer nope", fiber.StatusUnauthorized},
		{"no claims", "Bearer " + sign(t, jwt.MapClaims{}), fiber.StatusBadRequest},
		{"teacher", "Bearer " + sign(t, jwt.MapClaims{"user_type": "teacher", "user_id": 42}), fiber.StatusOK},
		{"string id", "Bearer " + sign(t, jwt.MapClaims{"user_type": "student", "user_id": "7"}), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestCurrentUserValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{"user_type": "teacher", "user_id": 42}))

	resp, err := newApp().Test(req)
	require.NoError(t, err)

	body := decode(t, resp.Body)
	assert.True(t, body.Success)
	assert.Equal(t, "teacher", body.Data["type"])
	assert.Equal(t, float64(42), body.Data["id"])
}

func TestErrorHandlerHidesCause(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.False(t, body.Success)
	assert.Equal(t, "Something failed", body.Message)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		UserInput string `validate:"required"`
	}

	err := ValidateRequest(req{})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, fiber.StatusBadRequest, appErr.Code)
	assert.Equal(t, "UserInput is required", appErr.Message)

	assert.NoError(t, ValidateRequest(req{UserInput: "hi"}))
}
