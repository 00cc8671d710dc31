package identity

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
)

// Credentials はアイデンティティプロバイダへの接続情報。
// プロバイダが発行するサービス資格情報JSONから読み込む。
type Credentials struct {
	// Issuer はIDトークンのiss（発行者）クレームに要求する値。
	Issuer string `json:"issuer"`
	// TokenSecret はIDトークンのHS256署名検証に使用する共有鍵。
	TokenSecret string `json:"token_secret"`
	// AdminURL はプロバイダ管理APIのベースURL。
	AdminURL string `json:"admin_url"`
	// APIKey は管理APIの認証に使用するAPIキー。
	APIKey string `json:"api_key"`
}

// LoadCredentials は資格情報を読み込む。
// base64エンコードされたblobが指定されていればそちらを優先し、
// 空の場合のみファイルパスから読み込む。
func LoadCredentials(blobBase64, path string) (Credentials, error) {
	var raw []byte
	switch {
	case blobBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(blobBase64)
		if err != nil {
			return Credentials{}, fmt.Errorf("資格情報blobのデコードに失敗: %w", err)
		}
		raw = decoded
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return Credentials{}, fmt.Errorf("資格情報ファイルの読み込みに失敗: %w", err)
		}
		raw = data
	default:
		return Credentials{}, fmt.Errorf("資格情報が指定されていません")
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, fmt.Errorf("資格情報JSONのパースに失敗: %w", err)
	}

	if creds.Issuer == "" || creds.TokenSecret == "" || creds.AdminURL == "" {
		return Credentials{}, fmt.Errorf("資格情報に必須フィールドが不足: issuer, token_secret, admin_urlは必須")
	}
	return creds, nil
}
