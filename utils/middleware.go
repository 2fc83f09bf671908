package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetClaims returns the verified access-token claims for the request, or
// nil when no verifier ran on the route.
func GetClaims(ctx iris.Context) *AccessToken {
	claims, ok := jwt.Get(ctx).(*AccessToken)
	if !ok {
		return nil
	}
	return claims
}

// OptionalAuth runs the given verifier only when the request carries an
// Authorization header. Anonymous requests pass through with no claims,
// so public routes can still honor a presented token.
func OptionalAuth(verify iris.Handler) iris.Handler {
	return func(ctx iris.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}
		verify(ctx)
	}
}

// UserIDFromTokenMiddleware stores the caller's user ID in the request values.
// Use this for routes that don't have an {id} parameter in the URL.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := GetClaims(ctx)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// DeveloperOnlyMiddleware gates routes to users registered as developers.
func DeveloperOnlyMiddleware(ctx iris.Context) {
	claims := GetClaims(ctx)
	if claims.Role != "developer" {
		JSONError(ctx, iris.StatusForbidden, "forbidden", "developer role required")
		return
	}
	ctx.Next()
}

// InvestorOnlyMiddleware gates routes to users registered as investors.
func InvestorOnlyMiddleware(ctx iris.Context) {
	claims := GetClaims(ctx)
	if claims.Role != "investor" {
		JSONError(ctx, iris.StatusForbidden, "forbidden", "investor role required")
		return
	}
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester has the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := GetClaims(ctx)
	if claims.Role != "admin" {
		JSONError(ctx, iris.StatusForbidden, "forbidden", "admin access required")
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}
