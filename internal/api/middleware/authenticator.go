package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"wolontariat-api/internal/api/handler/v1/response"
	"wolontariat-api/internal/pkg/jwthelper"
)

// ContextKeyUserID is where VerifyJWT stores the authenticated user's ID.
const ContextKeyUserID = "userID"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and binds the
// token to the user agent it was issued for.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("authorization header is missing")))
			ctx.Abort()

			return
		}

		segments := strings.SplitN(header, " ", 2)
		if len(segments) != 2 || !strings.EqualFold(segments[0], "Bearer") {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("authorization header is malformed")))
			ctx.Abort()

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, segments[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("invalid or expired token")))
			ctx.Abort()

			return
		}

		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("token was issued to a different client")))
			ctx.Abort()

			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}
