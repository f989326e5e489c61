package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrProjectNotFound      = errors.New("project not found")
)

type Organization struct {
	ID uint `gorm:"primaryKey"`

	Name     string `gorm:"not null"`
	Phone    string `gorm:"size:9"`
	TaxID    string `gorm:"unique;size:10"`
	Verified bool   `gorm:"default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Project struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint         `gorm:"not null;index"`
	Organization   Organization `gorm:"constraint:OnDelete:CASCADE"`

	Name        string `gorm:"not null"`
	Description string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type OrganizationDAO struct {
	db *gorm.DB
}

func NewOrganizationDAO(db *gorm.DB) *OrganizationDAO {
	return &OrganizationDAO{
		db: db,
	}
}

func (d *OrganizationDAO) Insert(ctx context.Context, org Organization) (Organization, error) {
	// A known tax id implies a positively verified organization.
	if org.TaxID != "" {
		org.Verified = true
	}

	result := d.db.WithContext(ctx).Create(&org)
	if result.Error != nil {
		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) FindByID(ctx context.Context, id uint) (Organization, error) {
	var org Organization

	result := d.db.WithContext(ctx).First(&org, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organization{}, ErrOrganizationNotFound
		}

		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) FindVerified(ctx context.Context) ([]Organization, error) {
	var orgs []Organization

	result := d.db.WithContext(ctx).Where("verified = ?", true).Order("id").Find(&orgs)
	if result.Error != nil {
		return nil, result.Error
	}

	return orgs, nil
}

func (d *OrganizationDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Organization{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrganizationNotFound
	}

	return nil
}

func (d *OrganizationDAO) InsertProject(ctx context.Context, project Project) (Project, error) {
	result := d.db.WithContext(ctx).Create(&project)
	if result.Error != nil {
		return Project{}, result.Error
	}

	return project, nil
}

func (d *OrganizationDAO) FindProjectByID(ctx context.Context, id uint) (Project, error) {
	var project Project

	result := d.db.WithContext(ctx).First(&project, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Project{}, ErrProjectNotFound
		}

		return Project{}, result.Error
	}

	return project, nil
}

func (d *OrganizationDAO) FindProjects(ctx context.Context, organizationID *uint, search string) ([]Project, error) {
	query := d.db.WithContext(ctx).Model(&Project{})

	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var projects []Project
	result := query.Order("id").Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}

	return projects, nil
}

func (d *OrganizationDAO) CountProjectOffers(ctx context.Context, projectID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Offer{}).Where("project_id = ?", projectID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *OrganizationDAO) DeleteProject(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}
