package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nao1215/tasuku/pkg/httpclient"
)

// HTTPClient はプロバイダ管理APIをHTTPで呼び出すClient実装。
type HTTPClient struct {
	// creds はプロバイダへの接続情報。
	creds Credentials
	// admin は管理API用のHTTPクライアント。
	admin *httpclient.Client
}

// HTTPClient がClientを実装していることをコンパイル時に保証する。
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient はプロバイダ資格情報からクライアントを生成する。
func NewHTTPClient(creds Credentials) *HTTPClient {
	return &HTTPClient{
		creds: creds,
		admin: httpclient.New(creds.AdminURL, creds.APIKey),
	}
}

// VerifyIDToken はIDトークンをローカルで検証し、subクレームの
// ユーザーIDを返す。署名（HS256）・有効期限・発行者のいずれかが
// 不正な場合はErrInvalidTokenを返す。
func (c *HTTPClient) VerifyIDToken(idToken string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims,
		func(_ *jwt.Token) (any, error) {
			return []byte(c.creds.TokenSecret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(c.creds.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// GetUser はプロバイダ管理APIからユーザー情報を取得する。
func (c *HTTPClient) GetUser(ctx context.Context, uid string) (User, error) {
	var user User
	err := c.admin.GetJSON(ctx, "/v1/accounts/"+url.PathEscape(uid), &user)
	if err != nil {
		return User{}, c.mapError(err, "ユーザー取得")
	}
	return user, nil
}

// GetUserByEmail はメールアドレスでユーザーを検索する。
func (c *HTTPClient) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := c.admin.GetJSON(ctx, "/v1/accounts/by-email/"+url.PathEscape(email), &user)
	if err != nil {
		return User{}, c.mapError(err, "ユーザー検索")
	}
	return user, nil
}

// createAccountRequest はユーザー登録リクエストのJSON構造。
type createAccountRequest struct {
	// Email はメールアドレス。
	Email string `json:"email"`
	// Password はパスワード。
	Password string `json:"password"`
	// DisplayName は表示名。
	DisplayName string `json:"displayName"`
}

// CreateUser はプロバイダ管理APIに新規ユーザーを登録する。
// プロバイダの4xx応答はProviderErrorとして返し、そのメッセージは
// そのままクライアントに返却される。
func (c *HTTPClient) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	req := createAccountRequest{
		Email:       params.Email,
		Password:    params.Password,
		DisplayName: params.DisplayName,
	}

	var user User
	if err := c.admin.PostJSON(ctx, "/v1/accounts", req, &user); err != nil {
		if statusErr, ok := httpclient.AsStatusError(err); ok && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
			return User{}, &ProviderError{Detail: statusErr.Body}
		}
		return User{}, fmt.Errorf("ユーザー登録に失敗: %w", err)
	}
	return user, nil
}

// mapError は管理APIのエラーをこのパッケージのエラーに変換する。
func (c *HTTPClient) mapError(err error, operation string) error {
	if statusErr, ok := httpclient.AsStatusError(err); ok && statusErr.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	return fmt.Errorf("%sに失敗: %w", operation, err)
}
