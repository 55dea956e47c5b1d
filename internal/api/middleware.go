package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"contacts-service/internal/apperr"
	"contacts-service/internal/jwt"
	"contacts-service/internal/model"
	"contacts-service/internal/repository"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)

const userLocalsKey = "authenticatedUser"

// AuthMiddleware resolves the caller from the Bearer token. Besides signature
// and expiry, the token must equal the one stored on the user row, so a
// logged-out (or superseded) token is rejected even while unexpired.
func AuthMiddleware(issuer *jwt.Issuer, userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return apperr.Unauthorized("Not authorized")
		}
		tokenString := parts[1]

		userID, err := issuer.Parse(tokenString)
		if err != nil {
			return apperr.Unauthorized("Not authorized")
		}

		user, err := userRepo.FindByID(c.UserContext(), userID)
		if err != nil || user.Token == "" || user.Token != tokenString {
			return apperr.Unauthorized("Not authorized")
		}

		c.Locals(userLocalsKey, user)

		return c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (*model.User, error) {
	user, ok := c.Locals(userLocalsKey).(*model.User)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	return user, nil
}

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Seconds()
		statusCode := c.Response().StatusCode()

		if err != nil {
			statusCode = apperr.StatusCode(err)

			var e *fiber.Error
			if errors.As(err, &e) {
				statusCode = e.Code
			}
		}

		method := c.Method()
		path := c.Route().Path
		statusStr := fmt.Sprintf("%d", statusCode)

		httpRequestTotal.WithLabelValues(method, path, statusStr).Inc()
		httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		return err
	}
}
