package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound は指定されたIDのドキュメントが存在しないことを表す。
// 削除済みIDへの再削除も同じエラーになる（黙って成功扱いにしない）。
var ErrNotFound = errors.New("docstore: document not found")

// Task はユーザーが所有する1件のToDoタスクを表す。
type Task struct {
	// ID はストアが採番する不透明な識別子。作成後は不変。
	ID string `json:"id" bson:"-"`
	// Title はタスクのタイトル。必須。
	Title string `json:"title" bson:"title"`
	// Description はタスクの説明。省略可。
	Description string `json:"description" bson:"description"`
	// Completed はタスクの完了状態。作成時はfalse。
	Completed bool `json:"completed" bson:"completed"`
	// UserID はタスクを作成したユーザーのID。作成時に一度だけ設定され、
	// 以後変更されない。所有者のみがこのタスクを読み書きできる。
	UserID string `json:"userId" bson:"userId"`
	// CreatedAt はサーバーが設定する作成日時。
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Profile はサインアップ時にミラーされるユーザープロフィール。
// 作成後にこのシステムが更新することはない（write-once）。
type Profile struct {
	// UID はアイデンティティプロバイダが採番したユーザーID。
	UID string `bson:"-"`
	// Email はユーザーのメールアドレス。
	Email string `bson:"email"`
	// Username は表示名。
	Username string `bson:"username"`
	// CreatedAt は作成日時。
	CreatedAt time.Time `bson:"createdAt"`
	// UpdatedAt は更新日時。作成以後更新されないため常にCreatedAtと同じ。
	UpdatedAt time.Time `bson:"updatedAt"`
}

// TaskPatch はタスクの部分更新を表す。nilのフィールドは「指定なし」を
// 意味し、既存の値を保持する。
type TaskPatch struct {
	// Title はタスクのタイトル。
	Title *string
	// Description はタスクの説明。
	Description *string
	// Completed はタスクの完了状態。
	Completed *bool
}

// IsEmpty はパッチに指定されたフィールドが1つもないことを報告する。
// 空パッチの更新は何も変更しないが、呼び出し自体は成功する。
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Store はタスクコレクションとプロフィールコレクションへの操作を提供する。
// 更新と削除は所有者IDを検索条件に含めた条件付き書き込みで行い、
// 所有者確認から書き込みまでの間に競合する削除が入っても、他者の
// タスクへの書き込みが決して成立しないことを保証する。
type Store interface {
	// InsertTask はタスクを新規保存し、採番されたIDを返す。
	InsertTask(ctx context.Context, task Task) (string, error)
	// ListTasksByOwner は指定された所有者のタスクをすべて返す。
	// 並び順はストア既定のままで、結果はスライスとして確定して返す。
	ListTasksByOwner(ctx context.Context, ownerID string) ([]Task, error)
	// GetTask は指定されたIDのタスクを返す。存在しなければErrNotFound。
	GetTask(ctx context.Context, id string) (Task, error)
	// UpdateTask は指定されたフィールドのみを既存タスクにマージする。
	// IDと所有者IDの両方が一致するタスクがなければErrNotFound。
	UpdateTask(ctx context.Context, id, ownerID string, patch TaskPatch) error
	// DeleteTask はタスクを削除する。IDと所有者IDの両方が一致する
	// タスクがなければErrNotFound。
	DeleteTask(ctx context.Context, id, ownerID string) error
	// InsertProfile はサインアップ時のプロフィールミラーを保存する。
	InsertProfile(ctx context.Context, profile Profile) error
}
