// Package docstore はタスクとユーザープロフィールを保持する
// ドキュメントストアへのゲートウェイを提供する。
//
// レコードはコレクション名と不透明なIDで指定し、所有者IDの等価
// フィルタによる検索をサポートする。本番実装はMongoDB
// （go.mongodb.org/mongo-driver）、ローカル開発とテストには
// インメモリ実装を使用する。
package docstore
