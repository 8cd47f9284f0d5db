package middleware

import (
	"net/http"

	"threadledger/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTConfig builds the echo-jwt configuration used on protected routes.
func JWTConfig(jwtSecret string) echojwt.Config {
	return echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

// AgencyScope lifts the user and agency identifiers from the validated
// token into the request context. Must run after the echo-jwt middleware.
func AgencyScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing sub in token")
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid sub format")
			}

			agencyClaim, ok := claims["agency_id"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing agency_id in token")
			}
			agencyID, err := uuid.Parse(agencyClaim)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid agency_id format")
			}

			ctx := common.WithUserID(c.Request().Context(), userID)
			ctx = common.WithAgencyID(ctx, agencyID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
