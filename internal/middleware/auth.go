package middleware

import (
	"context"
	"strings"

	"Campus_QA/internal/model"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/policy"

	"github.com/gin-gonic/gin"
)

const ContextIdentityKey = "identity"

// TokenChecker 校验 token 是否为该用户最近一次登录签发的
type TokenChecker interface {
	GetUserToken(ctx context.Context, userID string) (string, error)
	ExtendUserToken(ctx context.Context, userID string) error
}

type Auth struct {
	jwt    *pkg.JWTManager
	tokens TokenChecker
}

func NewAuth(jwt *pkg.JWTManager, tokens TokenChecker) *Auth {
	return &Auth{jwt: jwt, tokens: tokens}
}

// Required 必须登录
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			pkg.Fail(c, pkg.Unauthenticated("missing authorization header"))
			return
		}
		identity, err := a.authenticate(c, authHeader)
		if err != nil {
			pkg.Fail(c, err)
			return
		}
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// Optional 带了 token 就解析，没带按匿名处理；token 无效时仍然拒绝
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		identity, err := a.authenticate(c, authHeader)
		if err != nil {
			pkg.Fail(c, err)
			return
		}
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

func (a *Auth) authenticate(c *gin.Context, authHeader string) (policy.Identity, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return policy.Identity{}, pkg.Unauthenticated("invalid authorization format")
	}
	tokenStr := parts[1]

	claims, err := a.jwt.ParseAccess(tokenStr)
	if err != nil {
		return policy.Identity{}, pkg.Unauthenticated("invalid or expired token")
	}

	// redis校验是否是正确的token
	ctx := c.Request.Context()
	origin, err := a.tokens.GetUserToken(ctx, claims.UserID)
	if err != nil || origin != tokenStr {
		return policy.Identity{}, pkg.Unauthenticated("Account has been logging elsewhere")
	}

	// 校验通过后更新过期时间
	if err := a.tokens.ExtendUserToken(ctx, claims.UserID); err != nil {
		return policy.Identity{}, err
	}

	return policy.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     model.Role(claims.Role),
	}, nil
}

// RequireRole 必须在 Required 之后使用
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}
		pkg.Fail(c, pkg.Forbidden("insufficient role"))
	}
}

// CurrentIdentity 取出当前请求者，未登录返回匿名身份
func CurrentIdentity(c *gin.Context) policy.Identity {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return policy.Identity{}
	}
	identity, _ := v.(policy.Identity)
	return identity
}
