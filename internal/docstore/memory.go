package docstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory はプロセス内マップを使用するStore実装。
// MongoDBが設定されていないローカル開発環境と、ハンドラの単体テストで
// 使用する。プロセスを終了するとデータは失われる。
type Memory struct {
	// mu はtasksとprofilesを保護する。
	mu sync.RWMutex
	// tasks はタスクID -> タスクのマップ。
	tasks map[string]Task
	// profiles はユーザーID -> プロフィールのマップ。
	profiles map[string]Profile
	// order は挿入順を保持するタスクIDのスライス。
	order []string
}

// Memory がStoreを実装していることをコンパイル時に保証する。
var _ Store = (*Memory)(nil)

// NewMemory は空のインメモリStoreを生成する。
func NewMemory() *Memory {
	return &Memory{
		tasks:    make(map[string]Task),
		profiles: make(map[string]Profile),
	}
}

// InsertTask はタスクを保存し、UUIDを採番して返す。
func (m *Memory) InsertTask(_ context.Context, task Task) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	task.ID = id
	m.tasks[id] = task
	m.order = append(m.order, id)
	return id, nil
}

// ListTasksByOwner は所有者IDが一致するタスクを挿入順に返す。
func (m *Memory) ListTasksByOwner(_ context.Context, ownerID string) ([]Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]Task, 0)
	for _, id := range m.order {
		if t, ok := m.tasks[id]; ok && t.UserID == ownerID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// GetTask は指定されたIDのタスクを返す。
func (m *Memory) GetTask(_ context.Context, id string) (Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// UpdateTask は指定されたフィールドのみを既存タスクにマージする。
// 所有者IDが一致しない場合は存在しないものとして扱う。
func (m *Memory) UpdateTask(_ context.Context, id, ownerID string, patch TaskPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.UserID != ownerID {
		return ErrNotFound
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	m.tasks[id] = task
	return nil
}

// DeleteTask はIDと所有者IDの両方が一致するタスクを削除する。
func (m *Memory) DeleteTask(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.UserID != ownerID {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

// InsertProfile はプロフィールミラーを保存する。
func (m *Memory) InsertProfile(_ context.Context, profile Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.UID] = profile
	return nil
}
