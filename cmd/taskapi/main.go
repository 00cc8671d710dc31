// タスク管理APIサービスのエントリポイント。
// サインアップ・サインインと、ユーザーごとのタスクCRUDを提供する。
// 認証は外部アイデンティティプロバイダ、永続化は外部ドキュメントストアに
// 委譲する。
package main

import (
	"context"
	"log"
	"time"

	"github.com/nao1215/tasuku/internal/config"
	"github.com/nao1215/tasuku/internal/docstore"
	"github.com/nao1215/tasuku/internal/identity"
	"github.com/nao1215/tasuku/internal/taskapi"
)

func main() {
	cfg := config.Load()

	creds, err := identity.LoadCredentials(cfg.IdentityCredentialsBase64, cfg.IdentityCredentialsFile)
	if err != nil {
		log.Fatalf("プロバイダ資格情報の読み込みに失敗: %v", err)
	}
	idp := identity.NewHTTPClient(creds)

	var store docstore.Store
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		mongoStore, err := docstore.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("ドキュメントストアの初期化に失敗: %v", err)
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				log.Printf("ドキュメントストアの切断に失敗: %v", err)
			}
		}()
		store = mongoStore
	} else {
		log.Printf("MONGO_URIが未設定のためインメモリストアを使用します（開発用）")
		store = docstore.NewMemory()
	}

	server := taskapi.NewServer(cfg, store, idp)

	log.Printf("タスクAPIサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("タスクAPIサービスの起動に失敗: %v", err)
	}
}
