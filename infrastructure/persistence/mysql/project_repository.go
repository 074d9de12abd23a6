package mysql

import (
	"context"
	"errors"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
	"ddd-skeleton/infrastructure/persistence"
	"ddd-skeleton/infrastructure/persistence/mysql/po"
	"ddd-skeleton/infrastructure/persistence/retry"
	"ddd-skeleton/infrastructure/persistence/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectRepository MySQL/GORM implementation of project repository
// GORM usage specification: Association features are prohibited, owners are
// saved and loaded manually to keep the entity boundary explicit
type ProjectRepository struct {
	db         *gorm.DB
	retry      retry.Config
	translator *specification.ProjectTranslator
}

// NewProjectRepository Create project repository
func NewProjectRepository(db *gorm.DB, retryConfig retry.Config) *ProjectRepository {
	return &ProjectRepository{
		db:         db,
		retry:      retryConfig,
		translator: specification.NewProjectTranslator(),
	}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *ProjectRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save Save project (create or overwrite)
// Owners use the simple strategy: delete then insert.
// Deadlocks and lock timeouts between concurrent writers are retried.
func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	projectPO, ownerPOs := po.FromProjectDomain(p)

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, projectPO, ownerPOs)
	}

	return retry.ExecuteWithRetry(ctx, r.retry, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return r.saveWithTx(tx, projectPO, ownerPOs)
		})
	})
}

func (r *ProjectRepository) saveWithTx(tx *gorm.DB, projectPO *po.ProjectPO, ownerPOs []po.ProjectOwnerPO) error {
	if err := tx.Save(projectPO).Error; err != nil {
		return err
	}
	if err := tx.Where("project_id = ?", projectPO.ID).Delete(&po.ProjectOwnerPO{}).Error; err != nil {
		return err
	}
	if len(ownerPOs) > 0 {
		if err := tx.Create(&ownerPOs).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID Find project by ID
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db := r.getDB(ctx)
	query := db
	if persistence.TxFromContext(ctx) != nil {
		// 事务内加锁读，记录不存在时 InnoDB 锁住间隙，并发创建同一 id 会死锁并由工作单元重试
		query = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var projectPO po.ProjectPO
	if err := query.First(&projectPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.NewProjectNotFoundError(id)
		}
		return nil, err
	}

	var ownerPOs []po.ProjectOwnerPO
	if err := db.Where("project_id = ?", id).Order("position ASC").Find(&ownerPOs).Error; err != nil {
		return nil, err
	}

	return projectPO.ToDomain(ownerPOs)
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*project.Project, error) {
	return r.FindBySpecification(ctx, nil)
}

// FindBySpecification pushes the translatable part of spec down to SQL and
// filters the rest in memory
func (r *ProjectRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*project.Project]) ([]*project.Project, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	clause := r.translator.Translate(spec)
	db := r.getDB(ctx)

	var projectPOs []po.ProjectPO
	if err := db.Model(&po.ProjectPO{}).
		Scopes(clause.Scope()).
		Order("id ASC").
		Find(&projectPOs).Error; err != nil {
		return nil, err
	}

	owners, err := r.loadOwners(db, projectPOs)
	if err != nil {
		return nil, err
	}

	projects := make([]*project.Project, 0, len(projectPOs))
	for i := range projectPOs {
		p, err := projectPOs[i].ToDomain(owners[projectPOs[i].ID])
		if err != nil {
			return nil, err
		}
		if !clause.Exact && spec != nil && !spec.IsSatisfiedBy(ctx, p) {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// loadOwners batch loads owners for the given projects, grouped by project id
func (r *ProjectRepository) loadOwners(db *gorm.DB, projectPOs []po.ProjectPO) (map[int64][]po.ProjectOwnerPO, error) {
	grouped := make(map[int64][]po.ProjectOwnerPO, len(projectPOs))
	if len(projectPOs) == 0 {
		return grouped, nil
	}

	ids := make([]int64, len(projectPOs))
	for i, p := range projectPOs {
		ids[i] = p.ID
	}

	var ownerPOs []po.ProjectOwnerPO
	if err := db.Where("project_id IN ?", ids).
		Order("project_id ASC, position ASC").
		Find(&ownerPOs).Error; err != nil {
		return nil, err
	}
	for _, o := range ownerPOs {
		grouped[o.ProjectID] = append(grouped[o.ProjectID], o)
	}
	return grouped, nil
}

// Compile-time interface implementation check
var _ project.Repository = (*ProjectRepository)(nil)
