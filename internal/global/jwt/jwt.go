package jwt

import (
	"time"

	"club-activity-system/config"

	"github.com/golang-jwt/jwt"
)

// Payload 签发令牌时携带的用户信息
type Payload struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	RoleID   int    `json:"role_id"`
}

type Claims struct {
	Payload
	jwt.StandardClaims
}

// CreateToken 签发 JWT 令牌
func CreateToken(payload Payload) string {
	cfg := config.Get().JWT
	claims := Claims{
		Payload: payload,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
			Issuer:    "club-activity-system",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.AccessSecret))
	if err != nil {
		// secret 为固定字节串，签名失败只可能是编程错误
		panic(err)
	}
	return signed
}

// ParseToken 解析并校验 JWT 令牌
func ParseToken(tokenString string) (*Claims, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, false
	}
	return claims, true
}
