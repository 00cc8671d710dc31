// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// id-tokenヘッダーによる認証トークンの検証、パニックリカバリ、
// CORS設定を含む。
package middleware
