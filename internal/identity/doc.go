// Package identity は外部アイデンティティプロバイダへのゲートウェイを提供する。
//
// IDトークンの検証（署名・有効期限・発行者）、ユーザー情報の取得、
// サインアップ時のユーザー登録を担当する。トークン検証はプロバイダ発行の
// 署名鍵を使用したローカル検証で、ネットワークアクセスを伴わない。
// ユーザー操作はプロバイダの管理APIへの同期呼び出しで、キャッシュや
// リトライはこの層では行わない。プロバイダ障害はそのまま呼び出し元に
// 伝播する。
package identity
