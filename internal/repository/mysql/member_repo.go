package mysql

import (
	"context"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	DB *gorm.DB
}

// Create email 唯一索引冲突时返回 pkg.ErrDuplicate
func (r *MemberRepository) Create(ctx context.Context, m *model.CommunityMember) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventMemberJoined, model.MemberEvent(m, time.Now()))
	})
	return translate(err)
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*model.CommunityMember, error) {
	var m model.CommunityMember
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*model.CommunityMember, error) {
	var m model.CommunityMember
	if err := r.DB.WithContext(ctx).First(&m, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// List 按申请时间倒序
func (r *MemberRepository) List(ctx context.Context, status model.ModerationStatus, page pkg.Page) ([]model.CommunityMember, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).Scopes(withStatus(status)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.CommunityMember
	err := r.DB.WithContext(ctx).
		Scopes(withStatus(status), paginate(page)).
		Order("joined_at DESC, id DESC").
		Find(&list).Error
	return list, total, err
}

func (r *MemberRepository) SetStatus(ctx context.Context, id string, status model.ModerationStatus) (*model.CommunityMember, error) {
	var m model.CommunityMember
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		if m.Status == status {
			return nil
		}
		if err := tx.Model(&model.CommunityMember{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return err
		}
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.StatusEvent(model.SubjectMember, status), model.MemberEvent(&m, time.Now()))
	})
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	return translate(deleteByID(ctx, r.DB, &model.CommunityMember{}, id))
}

func (r *MemberRepository) Count(ctx context.Context, status model.ModerationStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).Scopes(withStatus(status)).Count(&n).Error
	return n, err
}
