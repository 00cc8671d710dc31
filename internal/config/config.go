package config

import "os"

// Config はタスクAPIサービスの設定。プロセス起動時に一度だけ構築する。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
	// MongoURI はMongoDBの接続URI。空の場合はインメモリストアを使用する。
	MongoURI string
	// MongoDatabase はMongoDBのデータベース名。
	MongoDatabase string
	// IdentityCredentialsBase64 はbase64エンコードされたプロバイダ資格情報。
	// 設定されている場合、ファイルパスより優先される。
	IdentityCredentialsBase64 string
	// IdentityCredentialsFile はプロバイダ資格情報JSONのファイルパス。
	IdentityCredentialsFile string
}

// Load は環境変数から設定を構築する。未設定の項目には開発用の
// デフォルト値を使用する。
func Load() *Config {
	return &Config{
		Port:                      getEnvOr("PORT", "8000"),
		AllowedOrigins:            []string{getEnvOr("FRONTEND_URL", "http://localhost:5173")},
		MongoURI:                  os.Getenv("MONGO_URI"),
		MongoDatabase:             getEnvOr("MONGO_DATABASE", "tasuku"),
		IdentityCredentialsBase64: os.Getenv("IDENTITY_CREDENTIALS"),
		IdentityCredentialsFile:   getEnvOr("IDENTITY_CREDENTIALS_FILE", "serviceAccountKey.json"),
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
