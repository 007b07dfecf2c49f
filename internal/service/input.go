package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var errTextType = errors.New("field must be a string or number")

// Text 表单字段可能是字符串也可能是数字（比如 age、usia），统一按字符串接收
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	// 只接受数字，对象、数组、布尔值一律拒绝
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return errTextType
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n)
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// first 取第一个非空值，用来合并 camelCase / snake_case 两种写法
func first(vals ...Text) string {
	for _, v := range vals {
		if s := v.String(); s != "" {
			return s
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(raw)
	if err != nil || age <= 0 || age > 150 {
		return 0, pkg.BadRequest("Invalid age")
	}
	return age, nil
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// StorySubmission 公开提交的故事，支持表单原字段名和 API 字段名
type StorySubmission struct {
	Nama    Text `json:"nama"`
	Usia    Text `json:"usia"`
	Harapan Text `json:"harapan"`
	Cerita  Text `json:"cerita"`

	Title         Text `json:"title"`
	Content       Text `json:"content"`
	AuthorName    Text `json:"authorName"`
	AuthorNameAlt Text `json:"author_name"`
	AuthorAge     Text `json:"authorAge"`
	AuthorAgeAlt  Text `json:"author_age"`
}

type CommentSubmission struct {
	Content       Text `json:"content"`
	AuthorName    Text `json:"authorName"`
	AuthorNameAlt Text `json:"author_name"`
}

type MemberApplication struct {
	FullName         Text `json:"fullName"`
	FullNameAlt      Text `json:"full_name"`
	Email            Text `json:"email"`
	Phone            Text `json:"phone"`
	Age              Text `json:"age"`
	City             Text `json:"city"`
	Occupation       Text `json:"occupation"`
	Motivation       Text `json:"motivation"`
	HowDidYouHear    Text `json:"howDidYouHear"`
	HowDidYouHearAlt Text `json:"how_did_you_hear"`
}

// Decision 管理员审核：{isApproved: bool} 或 {status: "approved"|"rejected"|"pending"}
type Decision struct {
	IsApproved    *bool  `json:"isApproved"`
	IsApprovedAlt *bool  `json:"is_approved"`
	Status        string `json:"status"`
}

func (d Decision) Present() bool {
	return d.IsApproved != nil || d.IsApprovedAlt != nil || d.Status != ""
}

func (d Decision) Resolve() (model.ModerationStatus, error) {
	if d.Status != "" {
		s := model.ModerationStatus(strings.ToLower(d.Status))
		if !s.Valid() {
			return "", pkg.BadRequest("Invalid approval status")
		}
		return s, nil
	}
	switch {
	case d.IsApproved != nil:
		return model.StatusFromApproval(*d.IsApproved), nil
	case d.IsApprovedAlt != nil:
		return model.StatusFromApproval(*d.IsApprovedAlt), nil
	}
	return "", pkg.BadRequest("Invalid approval status")
}

// StoryUpdate 管理员编辑故事，只修改出现的字段
type StoryUpdate struct {
	Decision
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	AuthorName    *string `json:"authorName"`
	AuthorNameAlt *string `json:"author_name"`
}

type EbookInput struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Author         *string `json:"author"`
	Category       *string `json:"category"`
	CoverImagePath *string `json:"coverImagePath"`
	ExternalURL    *string `json:"externalUrl"`
	IsPublished    *bool   `json:"isPublished"`
	IsFeatured     *bool   `json:"isFeatured"`
}

type EventInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"eventDate"`
	Location    *string `json:"location"`
	ImagePath   *string `json:"imagePath"`
	IsFeatured  *bool   `json:"isFeatured"`
}

type GalleryInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImagePath   *string `json:"imagePath"`
	Category    *string `json:"category"`
	IsFeatured  *bool   `json:"isFeatured"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// nonEmpty 更新时空字符串视为未提供
func nonEmpty(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
