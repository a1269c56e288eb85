package websocket

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RegisterRoutes wires the status-push endpoint. Browsers cannot set an
// Authorization header on the upgrade request, so the JWT rides in the
// token query parameter instead.
func RegisterRoutes(r fiber.Router, hub *Hub) {
	ws := r.Group("/ws/v1")

	ws.Use(func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		tokenStr := c.Query("token")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				secret = "default_secret"
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.ErrUnauthorized
		}
		userIdStr, _ := claims["user_id"].(string)
		userId, err := uuid.Parse(userIdStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("user_id", userId)
		return c.Next()
	})

	ws.Get("/", websocket.New(func(c *websocket.Conn) {
		userId := c.Locals("user_id").(uuid.UUID)
		ServeWs(hub, c, userId)
	}))
}
