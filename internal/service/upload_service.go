package service

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"Thread_of_Hope/internal/pkg"
	"Thread_of_Hope/internal/storage"

	"github.com/gabriel-vasile/mimetype"
)

var extRe = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

const (
	FieldImage = "image"
	FieldEbook = "ebook"
)

type UploadService struct {
	store        storage.Store
	maxImageSize int64
	maxEbookSize int64
	now          func() time.Time
}

func NewUploadService(store storage.Store, maxImageSize, maxEbookSize int64) *UploadService {
	return &UploadService{store: store, maxImageSize: maxImageSize, maxEbookSize: maxEbookSize, now: time.Now}
}

type UploadResult struct {
	FileURL  string `json:"fileUrl"`
	Filename string `json:"filename"`
}

// MaxSize 各字段的上限，handler 用来限制读取的字节数
func (s *UploadService) MaxSize(field string) int64 {
	if field == FieldEbook {
		return s.maxEbookSize
	}
	return s.maxImageSize
}

// SaveImage 按内容嗅探类型，扩展名只用于文件名
func (s *UploadService) SaveImage(ctx context.Context, original string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, pkg.BadRequest("No file uploaded")
	}
	if int64(len(data)) > s.maxImageSize {
		return nil, pkg.TooLarge(fmt.Sprintf("File too large. Maximum size is %dMB", s.maxImageSize>>20))
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, pkg.BadRequest("Only image files are allowed")
	}
	return s.save(ctx, FieldImage, original, data, mt)
}

func (s *UploadService) SaveEbook(ctx context.Context, original string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, pkg.BadRequest("No file uploaded")
	}
	if int64(len(data)) > s.maxEbookSize {
		return nil, pkg.TooLarge(fmt.Sprintf("File too large. Maximum size is %dMB", s.maxEbookSize>>20))
	}
	mt := mimetype.Detect(data)
	if !mt.Is("application/pdf") {
		return nil, pkg.BadRequest("Only PDF files are allowed")
	}
	return s.save(ctx, FieldEbook, original, data, mt)
}

func (s *UploadService) save(ctx context.Context, field, original string, data []byte, mt *mimetype.MIME) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !extRe.MatchString(ext) {
		ext = mt.Extension()
	}
	name, err := pkg.UploadName(field, ext, s.now())
	if err != nil {
		return nil, pkg.Internal("Upload failed", err)
	}
	url, err := s.store.Put(ctx, name, data, mt.String())
	if err != nil {
		return nil, pkg.Internal("Upload failed", err)
	}
	return &UploadResult{FileURL: url, Filename: name}, nil
}
