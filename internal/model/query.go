package model

import "time"

// 列表过滤和局部更新参数。指针字段为 nil 表示不修改

type StoryPatch struct {
	Title      *string
	Content    *string
	AuthorName *string
	Status     *ModerationStatus
}

func (p StoryPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.AuthorName != nil {
		cols["author_name"] = *p.AuthorName
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}

func (p StoryPatch) Apply(s *Story) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.AuthorName != nil {
		s.AuthorName = *p.AuthorName
	}
	if p.Status != nil {
		s.SetStatus(*p.Status)
	}
}

// EbookFilter PublishedOnly=false 时包含未发布的；Category 为空或 all 不过滤
type EbookFilter struct {
	PublishedOnly bool
	Category      string
}

type EbookPatch struct {
	Title          *string
	Description    *string
	Author         *string
	Category       *string
	CoverImagePath *string
	ExternalURL    *string
	IsPublished    *bool
	IsFeatured     *bool
}

func (p EbookPatch) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "title", p.Title)
	setString(cols, "description", p.Description)
	setString(cols, "author", p.Author)
	setString(cols, "category", p.Category)
	setString(cols, "cover_image_path", p.CoverImagePath)
	setString(cols, "external_url", p.ExternalURL)
	if p.IsPublished != nil {
		cols["is_published"] = *p.IsPublished
	}
	if p.IsFeatured != nil {
		cols["is_featured"] = *p.IsFeatured
	}
	return cols
}

func (p EbookPatch) Apply(e *Ebook) {
	applyString(&e.Title, p.Title)
	applyString(&e.Description, p.Description)
	applyString(&e.Author, p.Author)
	applyString(&e.Category, p.Category)
	if p.CoverImagePath != nil {
		v := *p.CoverImagePath
		e.CoverImagePath = &v
	}
	applyString(&e.ExternalURL, p.ExternalURL)
	if p.IsPublished != nil {
		e.IsPublished = *p.IsPublished
	}
	if p.IsFeatured != nil {
		e.IsFeatured = *p.IsFeatured
	}
}

const (
	EbookViewCounter     = "view_count"
	EbookDownloadCounter = "download_count"
)

// EventFilter From 非空时只取 eventDate >= From 的活动
type EventFilter struct {
	From *time.Time
}

type EventPatch struct {
	Title       *string
	Description *string
	EventDate   *time.Time
	Location    *string
	ImagePath   *string
	IsFeatured  *bool
}

func (p EventPatch) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "title", p.Title)
	setString(cols, "description", p.Description)
	setString(cols, "location", p.Location)
	setString(cols, "image_path", p.ImagePath)
	if p.EventDate != nil {
		cols["event_date"] = *p.EventDate
	}
	if p.IsFeatured != nil {
		cols["is_featured"] = *p.IsFeatured
	}
	return cols
}

func (p EventPatch) Apply(e *Event) {
	applyString(&e.Title, p.Title)
	applyOptional(&e.Description, p.Description)
	applyOptional(&e.Location, p.Location)
	applyOptional(&e.ImagePath, p.ImagePath)
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.IsFeatured != nil {
		e.IsFeatured = *p.IsFeatured
	}
}

type GalleryFilter struct {
	Category string
}

type GalleryPatch struct {
	Title       *string
	Description *string
	ImagePath   *string
	Category    *string
	IsFeatured  *bool
}

func (p GalleryPatch) Columns() map[string]any {
	cols := map[string]any{}
	setString(cols, "title", p.Title)
	setString(cols, "description", p.Description)
	setString(cols, "image_path", p.ImagePath)
	setString(cols, "category", p.Category)
	if p.IsFeatured != nil {
		cols["is_featured"] = *p.IsFeatured
	}
	return cols
}

func (p GalleryPatch) Apply(g *GalleryItem) {
	applyString(&g.Title, p.Title)
	applyOptional(&g.Description, p.Description)
	applyString(&g.ImagePath, p.ImagePath)
	applyString(&g.Category, p.Category)
	if p.IsFeatured != nil {
		g.IsFeatured = *p.IsFeatured
	}
}

// MatchCategory 空字符串和 all 都表示不过滤
func MatchCategory(filter, category string) bool {
	return filter == "" || filter == "all" || filter == category
}

func setString(cols map[string]any, col string, v *string) {
	if v != nil {
		cols[col] = *v
	}
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func applyOptional(dst **string, v *string) {
	if v != nil {
		s := *v
		*dst = &s
	}
}
