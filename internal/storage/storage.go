package storage

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

var ErrInvalidName = errors.New("invalid file name")

// Store 上传文件的落地位置，返回对外可访问的 URL
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// DiskStore 写到本地目录，由 /uploads 静态路由对外提供
type DiskStore struct {
	Dir    string
	Prefix string
}

func NewDiskStore(dir, prefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{Dir: dir, Prefix: strings.TrimRight(prefix, "/")}, nil
}

func (s *DiskStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmp := filepath.Join(s.Dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, filepath.Join(s.Dir, name)); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return s.Prefix + "/" + name, nil
}

// Delete 只处理本目录发出的 URL，外链直接忽略
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.Prefix+"/") {
		return nil
	}
	name := path.Base(url)
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore 测试用
type MemoryStore struct {
	mu     sync.Mutex
	Prefix string
	files  map[string]File
}

type File struct {
	Data        []byte
	ContentType string
}

func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{Prefix: strings.TrimRight(prefix, "/"), files: make(map[string]File)}
}

func (s *MemoryStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := s.Prefix + "/" + name
	s.files[url] = File{Data: append([]byte(nil), data...), ContentType: contentType}
	return url, nil
}

func (s *MemoryStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, url)
	return nil
}

func (s *MemoryStore) Get(url string) (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[url]
	return f, ok
}

// checkName 只接受单层文件名，防止写出上传目录
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	return nil
}
