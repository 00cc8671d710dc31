// Package config はサービスの設定を環境変数から一度だけ解決する。
//
// ハンドラが環境変数を直接参照することを避け、起動時に構築した
// Config構造体をサーバーへ注入する。未設定の項目にはローカル開発用の
// デフォルト値を使用する。
package config
