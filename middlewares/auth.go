// file: middlewares/auth.go
package middlewares

import (
	"net/http"
	"strings"

	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-gonic/gin"
)

// JWTAuth 解析 Bearer 令牌并把身份写进上下文。
// 缺令牌返回 401，令牌无效或过期返回 403
func JWTAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status := parseAuthHeader(c, tokens)
		if claims == nil {
			code := utils.CodeUnauthorized
			message := "Authentication required"
			if status == http.StatusForbidden {
				code = utils.CodeForbidden
				message = "Invalid or expired token"
			}
			utils.Error(c, status, code, message)
			c.Abort()
			return
		}

		c.Set("user_id", uint(claims.UserID))
		c.Set("username", claims.Username)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// TryAuth 可选登录：有合法令牌就带上身份，没有照常放行。
// 排行榜这类游客可见的接口用它
func TryAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := parseAuthHeader(c, tokens); claims != nil {
			c.Set("user_id", uint(claims.UserID))
			c.Set("username", claims.Username)
			c.Set("role", string(claims.Role))
		}
		c.Next()
	}
}

// RoleAuth 在 JWTAuth 之后使用，限定角色
func RoleAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		utils.Error(c, http.StatusForbidden, utils.CodeForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func parseAuthHeader(c *gin.Context, tokens *utils.TokenManager) (*utils.Claims, int) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, http.StatusUnauthorized
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header || tokenString == "" {
		return nil, http.StatusUnauthorized
	}

	claims, err := tokens.ParseToken(tokenString)
	if err != nil {
		return nil, http.StatusForbidden
	}
	return claims, http.StatusOK
}
