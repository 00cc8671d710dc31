package identity

import (
	"context"
	"errors"
)

// ErrInvalidToken はIDトークンが不正・期限切れ・信頼できない発行者の
// いずれかであることを表す。HTTP層では401に変換される。
var ErrInvalidToken = errors.New("identity: invalid id token")

// ErrUserNotFound は指定されたユーザーがプロバイダに存在しないことを表す。
var ErrUserNotFound = errors.New("identity: user not found")

// ProviderError はプロバイダがユーザー登録を拒否したことを表す。
// 重複メールアドレスや脆弱なパスワードなど、プロバイダ側の検証エラーを
// 含み、そのメッセージはそのままクライアントに返却される。
type ProviderError struct {
	// Detail はプロバイダが返したエラーメッセージ。
	Detail string
}

// Error はerrorインターフェースを実装する。
func (e *ProviderError) Error() string {
	return e.Detail
}

// User はプロバイダに登録されたユーザーを表す。
type User struct {
	// UID はプロバイダが採番したユーザーの一意識別子。
	UID string `json:"uid"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// DisplayName はユーザーの表示名。
	DisplayName string `json:"displayName"`
}

// CreateUserParams はユーザー登録のパラメータ。
type CreateUserParams struct {
	// Email はメールアドレス。
	Email string
	// Password はパスワード。検証と保管はプロバイダが行う。
	Password string
	// DisplayName は表示名。
	DisplayName string
}

// Client はアイデンティティプロバイダへの操作を提供する。
// テストでは代替実装に差し替えられるようインターフェースとして公開する。
type Client interface {
	// VerifyIDToken はIDトークンを検証し、ユーザーIDを返す。
	// 不正なトークンはErrInvalidTokenを返す。副作用はない。
	VerifyIDToken(idToken string) (string, error)
	// GetUser は指定されたIDのユーザー情報を取得する。
	// 存在しない場合はErrUserNotFoundを返す。
	GetUser(ctx context.Context, uid string) (User, error)
	// GetUserByEmail はメールアドレスでユーザーを検索する。
	// 存在しない場合はErrUserNotFoundを返す。
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// CreateUser はプロバイダに新規ユーザーを登録する。
	// プロバイダが登録を拒否した場合はProviderErrorを返す。
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
}
