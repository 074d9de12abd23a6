package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
	"ddd-skeleton/infrastructure/persistence/retry"
	"ddd-skeleton/infrastructure/persistence/specification"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectProjects = `
	SELECT projects.id, projects.name, projects.amount, projects.currency,
	       projects.version, projects.created_at, projects.updated_at,
	       COALESCE((SELECT array_agg(o.email ORDER BY o.position)
	                 FROM project_owners o WHERE o.project_id = projects.id), '{}')
	FROM projects
`

// ProjectRepository implements project.Repository using pgx.
type ProjectRepository struct {
	pool       *pgxpool.Pool
	retry      retry.Config
	translator *specification.ProjectTranslator
}

// NewProjectRepository constructs a repository backed by Postgres.
func NewProjectRepository(pg *Postgres, retryConfig retry.Config) *ProjectRepository {
	return &ProjectRepository{
		pool:       pg.Pool,
		retry:      retryConfig,
		translator: specification.NewProjectTranslator(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// querier is the read surface shared by the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn returns the transaction opened by UnitOfWork when present
func (r *ProjectRepository) conn(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Save upserts the project row and replaces its owners in one transaction.
// Inside a UnitOfWork the surrounding transaction is used and retrying is
// left to the unit of work.
func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	dto := p.ToDTO()

	if tx := txFromContext(ctx); tx != nil {
		return conflictOnUniqueViolation(dto.ID, saveWithTx(ctx, tx, dto))
	}

	return retry.ExecuteWithRetry(ctx, r.retry, func(ctx context.Context) error {
		err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
			return saveWithTx(ctx, tx, dto)
		})
		return conflictOnUniqueViolation(dto.ID, err)
	})
}

func saveWithTx(ctx context.Context, tx pgx.Tx, dto project.ReconstructionDTO) error {
	const upsert = `
		INSERT INTO projects (id, name, amount, currency, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.Exec(ctx, upsert, dto.ID, dto.Name, dto.Amount, dto.Currency,
		dto.Version, dto.CreatedAt, dto.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM project_owners WHERE project_id = $1`, dto.ID); err != nil {
		return err
	}
	if len(dto.Owners) == 0 {
		return nil
	}

	rows := make([][]any, len(dto.Owners))
	for i, email := range dto.Owners {
		rows[i] = []any{dto.ID, email, i}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"project_owners"},
		[]string{"project_id", "email", "position"},
		pgx.CopyFromRows(rows),
	)
	return err
}

// 并发写入同一项目的负责人时可能撞上主键，交给重试
func conflictOnUniqueViolation(id int64, err error) error {
	if isUniqueViolation(err) {
		return shared.NewConflictError("project", fmt.Sprintf("concurrent save of project %d", id))
	}
	return err
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	row := r.conn(ctx).QueryRow(ctx, selectProjects+` WHERE projects.id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.NewProjectNotFoundError(id)
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*project.Project, error) {
	return r.FindBySpecification(ctx, nil)
}

// FindBySpecification pushes the translatable part of spec down to SQL and
// filters the rest in memory
func (r *ProjectRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*project.Project]) ([]*project.Project, error) {
	clause := r.translator.Translate(spec)

	query := selectProjects
	if !clause.Empty() {
		query += ` WHERE ` + clause.Rebind(0)
	}
	query += ` ORDER BY projects.id ASC`

	rows, err := r.conn(ctx).Query(ctx, query, clause.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]*project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		if !clause.Exact && spec != nil && !spec.IsSatisfiedBy(ctx, p) {
			continue
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var (
		dto       project.ReconstructionDTO
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&dto.ID, &dto.Name, &dto.Amount, &dto.Currency,
		&dto.Version, &createdAt, &updatedAt, &dto.Owners); err != nil {
		return nil, err
	}
	dto.CreatedAt = createdAt
	dto.UpdatedAt = updatedAt
	return project.RebuildFromDTO(dto)
}

var _ project.Repository = (*ProjectRepository)(nil)
