// Package httpclient は外部サービスとのJSON通信用HTTPクライアントを提供する。
//
// アイデンティティプロバイダの管理APIへのアクセスに使用する。
// タイムアウトは固定で、リトライやバックオフはこの層では行わない。
// 2xx以外の応答はStatusErrorとして返し、ステータスコードに応じた
// エラー変換は呼び出し側が行う。
package httpclient
