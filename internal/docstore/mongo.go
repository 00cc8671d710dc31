package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// コレクション名。既存データベースのコレクション構成と合わせること。
const (
	collectionTasks    = "tasks"
	collectionProfiles = "users"
)

// Mongo はMongoDBを使用するStore実装。
// タイムアウトやリトライはドライバの既定値に任せ、この層では設定しない。
type Mongo struct {
	// client はMongoDBクライアント。
	client *mongo.Client
	// tasks はタスクコレクション。
	tasks *mongo.Collection
	// profiles はプロフィールミラーコレクション。
	profiles *mongo.Collection
}

// Mongo がStoreを実装していることをコンパイル時に保証する。
var _ Store = (*Mongo)(nil)

// taskDoc はタスクのMongoDBドキュメント表現。
// ドキュメントIDはObjectIDで、外部には16進文字列として公開する。
type taskDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Task `bson:",inline"`
}

// profileDoc はプロフィールミラーのMongoDBドキュメント表現。
// ドキュメントIDにはプロバイダ採番のユーザーIDをそのまま使用する。
type profileDoc struct {
	ID      string `bson:"_id"`
	Profile `bson:",inline"`
}

// NewMongo はMongoDBに接続し、疎通確認のうえでStore実装を生成する。
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("MongoDBへの接続に失敗: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("MongoDBへの疎通確認に失敗: %w", err)
	}

	db := client.Database(database)
	return &Mongo{
		client:   client,
		tasks:    db.Collection(collectionTasks),
		profiles: db.Collection(collectionProfiles),
	}, nil
}

// Close はMongoDBとの接続を切断する。
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// InsertTask はタスクを新規保存し、採番されたObjectIDを16進文字列で返す。
func (m *Mongo) InsertTask(ctx context.Context, task Task) (string, error) {
	doc := taskDoc{ID: primitive.NewObjectID(), Task: task}
	if _, err := m.tasks.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("タスクの保存に失敗: %w", err)
	}
	return doc.ID.Hex(), nil
}

// ListTasksByOwner は所有者IDが一致するタスクをすべて取得して返す。
func (m *Mongo) ListTasksByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	cursor, err := m.tasks.Find(ctx, bson.M{"userId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("タスク一覧のデコードに失敗: %w", err)
	}

	tasks := make([]Task, 0, len(docs))
	for _, d := range docs {
		t := d.Task
		t.ID = d.ID.Hex()
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetTask は指定されたIDのタスクを取得する。
// IDがObjectIDとして不正な場合も、存在しないIDと同様にErrNotFoundを返す。
func (m *Mongo) GetTask(ctx context.Context, id string) (Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Task{}, ErrNotFound
	}

	var doc taskDoc
	if err := m.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("タスクの取得に失敗: %w", err)
	}

	task := doc.Task
	task.ID = doc.ID.Hex()
	return task, nil
}

// UpdateTask は指定されたフィールドのみを既存タスクにマージする。
// 検索条件にIDと所有者IDの両方を含めた条件付き書き込みのため、
// 所有者確認後に競合する削除が入った場合はErrNotFoundになる。
func (m *Mongo) UpdateTask(ctx context.Context, id, ownerID string, patch TaskPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	filter := bson.M{"_id": oid, "userId": ownerID}

	// 空パッチは何も変更しないが、対象の存在確認だけは行う
	if patch.IsEmpty() {
		count, err := m.tasks.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("タスクの存在確認に失敗: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return nil
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	result, err := m.tasks.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("タスクの更新に失敗: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask はIDと所有者IDの両方が一致するタスクを削除する。
// 2回目の削除もErrNotFoundを返す（冪等なエラー）。
func (m *Mongo) DeleteTask(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := m.tasks.DeleteOne(ctx, bson.M{"_id": oid, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("タスクの削除に失敗: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertProfile はプロフィールミラーを保存する。
func (m *Mongo) InsertProfile(ctx context.Context, profile Profile) error {
	doc := profileDoc{ID: profile.UID, Profile: profile}
	if _, err := m.profiles.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("プロフィールの保存に失敗: %w", err)
	}
	return nil
}
