// Package taskapi はタスク管理HTTP APIのサーバー実装を提供する。
//
// サインアップ・サインインは外部アイデンティティプロバイダに委譲し、
// タスクのCRUDは外部ドキュメントストアに対して行う。各ハンドラは
// 検証済みユーザーIDとタスクの所有者IDを比較して認可を判定する
// （401: 認証失敗、404: タスクなし、403: 所有者不一致）。
// リクエスト間で共有する可変状態は持たず、各リクエストは外部サービスへの
// 同期呼び出しだけで完結する。
package taskapi
