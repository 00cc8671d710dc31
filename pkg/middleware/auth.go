package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderIDToken は認証トークンを運ぶHTTPヘッダー名。
// 標準のAuthorization: Bearerではなく独自ヘッダーを使用するのは、
// 既存クライアントとの互換性を保つため。
const HeaderIDToken = "id-token"

// contextKeyUserID は検証済みユーザーIDをGinコンテキストに格納するキー。
const contextKeyUserID = "user_id"

// TokenVerifier はIDトークンを検証し、ユーザーIDを返す。
// 検証に失敗した場合はエラーを返す。
type TokenVerifier interface {
	VerifyIDToken(idToken string) (string, error)
}

// IDTokenAuth はid-tokenヘッダーのトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストに検証済みユーザーIDを設定する。
// ヘッダーがない場合、トークンが不正な場合はいずれも401で打ち切る。
func IDTokenAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		idToken := c.GetHeader(HeaderIDToken)
		if idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authentication credentials",
			})
			return
		}

		uid, err := verifier.VerifyIDToken(idToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authentication credentials",
			})
			return
		}

		c.Set(contextKeyUserID, uid)
		c.Next()
	}
}

// GetUserID はGinコンテキストから検証済みユーザーIDを取得する。
// IDTokenAuthミドルウェアが事前に適用されている必要がある。
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get(contextKeyUserID)
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
