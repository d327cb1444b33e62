package session

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在")

// entry 会话登记项，mu 用于串行化同一会话上的调用
type entry[T any] struct {
	value        T
	createdAt    time.Time
	lastActivity time.Time
	mu           sync.Mutex
}

// Manager 按ID登记会话，并保证同一会话上的操作串行执行
type Manager[T any] struct {
	entries map[string]*entry[T]
	mu      sync.RWMutex
	now     func() time.Time
}

// NewManager 创建新的会话管理器
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{
		entries: make(map[string]*entry[T]),
		now:     time.Now,
	}
}

// Create 登记一个新会话并返回其ID
func (m *Manager[T]) Create(value T) string {
	id := uuid.New().String()
	now := m.now()

	m.mu.Lock()
	m.entries[id] = &entry[T]{value: value, createdAt: now, lastActivity: now}
	m.mu.Unlock()

	return id
}

// Do 在会话的互斥锁内执行fn，并刷新最后活动时间
func (m *Manager[T]) Do(id string, fn func(T) error) error {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m.mu.Lock()
	e.lastActivity = m.now()
	m.mu.Unlock()

	return fn(e.value)
}

// Remove 删除会话，返回会话是否存在
func (m *Manager[T]) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return false
	}
	delete(m.entries, id)
	return true
}

// Len 返回当前会话数量
func (m *Manager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// IDs 返回所有会话ID（按字典序）
func (m *Manager[T]) IDs() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Reap 删除空闲时间超过ttl的会话，返回删除数量
func (m *Manager[T]) Reap(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.entries {
		if now.Sub(e.lastActivity) > ttl {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// StartReaper 定期清理空闲会话，直到ctx结束
func (m *Manager[T]) StartReaper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.Reap(ttl); removed > 0 {
				log.Printf("清理空闲会话: %d 个", removed)
			}
		}
	}
}
