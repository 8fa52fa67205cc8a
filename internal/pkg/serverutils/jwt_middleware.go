package serverutils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	LocalUserID   = "user_id"
	LocalUserType = "user_type"
)

// Identity is the caller as asserted by the token. Claims are trusted as
// issued; the account tables are not consulted.
type Identity struct {
	Type string
	Id   int64
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
	}

	ctx.Locals(LocalUserID, claims[LocalUserID])
	ctx.Locals(LocalUserType, claims[LocalUserType])
	return ctx.Next()
}

// CurrentUser reads the identity stored by JwtMiddleware.
func CurrentUser(ctx *fiber.Ctx) (Identity, error) {
	userType, _ := ctx.Locals(LocalUserType).(string)
	userId, ok := claimID(ctx.Locals(LocalUserID))
	if userType == "" || !ok {
		return Identity{}, NewBadRequestError("Invalid token.")
	}
	return Identity{Type: userType, Id: userId}, nil
}

func claimID(v interface{}) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id <= 0 || id != float64(int64(id)) {
			return 0, false
		}
		return int64(id), true
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}
