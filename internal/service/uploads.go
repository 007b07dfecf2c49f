package service

import (
	"context"
	"slices"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/storage"

	"github.com/sirupsen/logrus"
)

// uploadCleaner 记录删除或换图后，清掉不再被引用的上传文件
type uploadCleaner struct {
	files storage.Store
	log   logrus.FieldLogger
}

// release 删除 prev 里不在 keep 中的文件，失败只记日志不影响请求结果
func (u uploadCleaner) release(ctx context.Context, prev, keep []string) {
	if u.files == nil {
		return
	}
	for _, url := range prev {
		if url == "" || slices.Contains(keep, url) {
			continue
		}
		if err := u.files.Delete(ctx, url); err != nil {
			u.log.WithError(err).WithField("file", url).Warn("remove upload failed")
		}
	}
}

func ebookFiles(e *model.Ebook) []string {
	return []string{value(e.CoverImagePath), e.ExternalURL}
}

func eventFiles(e *model.Event) []string {
	return []string{value(e.ImagePath)}
}

func galleryFiles(g *model.GalleryItem) []string {
	return []string{g.ImagePath}
}
