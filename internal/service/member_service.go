package service

import (
	"context"
	"errors"
	"strings"

	"Thread_of_Hope/internal/metrics"
	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"github.com/google/uuid"
)

const DefaultMemberPageSize = 50

type MemberService struct {
	members MemberRepository
}

func NewMemberService(members MemberRepository) *MemberService {
	return &MemberService{members: members}
}

// Join 社区加入申请，email 统一小写后去重
func (s *MemberService) Join(ctx context.Context, in MemberApplication) (*model.CommunityMember, error) {
	fullName := first(in.FullName, in.FullNameAlt)
	email := strings.ToLower(in.Email.String())
	ageRaw := in.Age.String()
	city := in.City.String()
	motivation := in.Motivation.String()
	heard := first(in.HowDidYouHear, in.HowDidYouHearAlt)
	if fullName == "" || email == "" || ageRaw == "" || city == "" || motivation == "" || heard == "" {
		return nil, pkg.BadRequest("Missing required fields")
	}
	if !validEmail(email) {
		return nil, pkg.BadRequest("Invalid email format")
	}
	age, err := parseAge(ageRaw)
	if err != nil {
		return nil, err
	}

	_, err = s.members.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, pkg.BadRequest("Email already registered")
	case !errors.Is(err, pkg.ErrNotFound):
		return nil, pkg.Internal("Failed to submit application", err)
	}

	m := &model.CommunityMember{
		ID:            uuid.NewString(),
		FullName:      fullName,
		Email:         email,
		Phone:         optional(in.Phone.String()),
		Age:           age,
		City:          city,
		Occupation:    optional(in.Occupation.String()),
		Motivation:    motivation,
		HowDidYouHear: heard,
	}
	m.SetStatus(model.StatusPending)
	// 并发下先查后插仍可能撞唯一索引
	if err := s.members.Create(ctx, m); err != nil {
		if errors.Is(err, pkg.ErrDuplicate) {
			return nil, pkg.BadRequest("Email already registered")
		}
		return nil, pkg.Internal("Failed to submit application", err)
	}
	metrics.RecordSubmission(model.SubjectMember)
	return m, nil
}

func (s *MemberService) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.CommunityMember, pkg.Pagination, error) {
	list, total, err := s.members.List(ctx, status, page)
	if err != nil {
		return nil, pkg.Pagination{}, pkg.Internal("Failed to fetch members", err)
	}
	if list == nil {
		list = []model.CommunityMember{}
	}
	return list, page.Result(total), nil
}

type MemberStats struct {
	TotalMembers int64 `json:"totalMembers"`
}

// Stats 公开的成员数量，只统计已通过的
func (s *MemberService) Stats(ctx context.Context) (MemberStats, error) {
	n, err := s.members.Count(ctx, model.StatusApproved)
	if err != nil {
		return MemberStats{}, pkg.Internal("Failed to fetch stats", err)
	}
	return MemberStats{TotalMembers: n}, nil
}

func (s *MemberService) SetApproval(ctx context.Context, id string, d Decision) (*model.CommunityMember, error) {
	status, err := d.Resolve()
	if err != nil {
		return nil, err
	}
	m, err := s.members.SetStatus(ctx, id, status)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.NotFound("Member not found")
	}
	if err != nil {
		return nil, pkg.Internal("Failed to update member", err)
	}
	metrics.RecordDecision(model.SubjectMember, string(status))
	return m, nil
}

func (s *MemberService) Delete(ctx context.Context, id string) error {
	err := s.members.Delete(ctx, id)
	if errors.Is(err, pkg.ErrNotFound) {
		return pkg.NotFound("Member not found")
	}
	if err != nil {
		return pkg.Internal("Failed to delete member", err)
	}
	return nil
}
