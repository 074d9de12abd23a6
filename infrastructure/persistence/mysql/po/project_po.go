package po

import (
	"time"

	"ddd-skeleton/domain/project"
)

// ProjectPO 项目持久化对象
type ProjectPO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:200;not null;index"`
	Amount    int64     `gorm:"not null"`
	Currency  string    `gorm:"size:3;not null"`
	Version   int       `gorm:"default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ProjectPO) TableName() string {
	return "projects"
}

// ProjectOwnerPO 项目负责人持久化对象
// 不使用 GORM 关联，由仓储手动维护，保持实体边界清晰
type ProjectOwnerPO struct {
	ProjectID int64  `gorm:"primaryKey;autoIncrement:false"`
	Email     string `gorm:"primaryKey;size:255;index"`
	Position  int    `gorm:"not null"`
}

func (ProjectOwnerPO) TableName() string {
	return "project_owners"
}

// FromProjectDomain 将领域实体转换为持久化对象
func FromProjectDomain(p *project.Project) (*ProjectPO, []ProjectOwnerPO) {
	dto := p.ToDTO()
	projectPO := &ProjectPO{
		ID:        dto.ID,
		Name:      dto.Name,
		Amount:    dto.Amount,
		Currency:  dto.Currency,
		Version:   dto.Version,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}

	ownerPOs := make([]ProjectOwnerPO, len(dto.Owners))
	for i, email := range dto.Owners {
		ownerPOs[i] = ProjectOwnerPO{
			ProjectID: dto.ID,
			Email:     email,
			Position:  i,
		}
	}
	return projectPO, ownerPOs
}

// ToDomain 将持久化对象转换为领域实体
// ownerPOs 需按 Position 排序
func (po *ProjectPO) ToDomain(ownerPOs []ProjectOwnerPO) (*project.Project, error) {
	owners := make([]string, len(ownerPOs))
	for i, o := range ownerPOs {
		owners[i] = o.Email
	}

	return project.RebuildFromDTO(project.ReconstructionDTO{
		ID:        po.ID,
		Name:      po.Name,
		Amount:    po.Amount,
		Currency:  po.Currency,
		Owners:    owners,
		Version:   po.Version,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}
