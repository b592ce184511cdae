package middleware

import (
	"strings"

	"league_stats/internal/util"
	"league_stats/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Bearer 令牌，secret 每次请求时读取以支持配置热加载
func AuthMiddleware(secret func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		key := secret()

		// 未配置密钥时管理接口整体关闭
		if tokenString == "" || key == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, key)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.Error(err), zap.String("request_id", c.GetString("request_id")))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		util.Forbidden(c)
		c.Abort()
	}
}

// AdminAuth 管理接口：有效令牌且 role=admin
func AdminAuth(secret func() string) []gin.HandlerFunc {
	return []gin.HandlerFunc{AuthMiddleware(secret), RoleMiddleware(util.RoleAdmin)}
}
