package specification

import (
	"strconv"
	"strings"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"

	"gorm.io/gorm"
)

// Clause 规约翻译出的 WHERE 片段，占位符统一使用 "?"
//
// Exact 为 false 表示 SQL 只是预过滤（结果是超集），仓储必须在内存中
// 再用 IsSatisfiedBy 做一次最终过滤。SQL 为空表示不做任何过滤。
type Clause struct {
	SQL   string
	Args  []any
	Exact bool
}

// Empty 没有可下推的条件
func (c Clause) Empty() bool { return c.SQL == "" }

// Scope 转换为 GORM scope，空条件时原样返回
func (c Clause) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if c.Empty() {
			return db
		}
		return db.Where(c.SQL, c.Args...)
	}
}

// Rebind 把 "?" 占位符改写为 PostgreSQL 的 $n 形式，offset 为已占用的参数个数
func (c Clause) Rebind(offset int) string {
	var b strings.Builder
	n := offset
	for _, r := range c.SQL {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ProjectTranslator 把项目领域规约翻译为 SQL 条件
// 表结构: projects(id, name, amount, currency, ...) + project_owners(project_id, email)
type ProjectTranslator struct{}

func NewProjectTranslator() *ProjectTranslator {
	return &ProjectTranslator{}
}

// Translate nil 规约翻译为空的精确条件（匹配全部）
func (t *ProjectTranslator) Translate(spec shared.Specification[*project.Project]) Clause {
	if spec == nil {
		return Clause{Exact: true}
	}

	switch s := spec.(type) {
	case shared.AndSpecification[*project.Project]:
		return t.translateAnd(s)
	case shared.OrSpecification[*project.Project]:
		return t.translateOr(s)
	case shared.NotSpecification[*project.Project]:
		return t.translateNot(s)
	}
	return t.translateConcrete(spec)
}

// translateAnd 一侧无法翻译时只下推另一侧，结果是超集
func (t *ProjectTranslator) translateAnd(spec shared.AndSpecification[*project.Project]) Clause {
	left := t.Translate(spec.Left)
	right := t.Translate(spec.Right)
	exact := left.Exact && right.Exact

	switch {
	case left.Empty() && right.Empty():
		return Clause{Exact: exact}
	case left.Empty():
		return Clause{SQL: right.SQL, Args: right.Args, Exact: exact}
	case right.Empty():
		return Clause{SQL: left.SQL, Args: left.Args, Exact: exact}
	}
	return Clause{
		SQL:   "(" + left.SQL + ") AND (" + right.SQL + ")",
		Args:  append(append([]any{}, left.Args...), right.Args...),
		Exact: exact,
	}
}

// translateOr 任一侧为空时整个 OR 无法收窄
func (t *ProjectTranslator) translateOr(spec shared.OrSpecification[*project.Project]) Clause {
	left := t.Translate(spec.Left)
	right := t.Translate(spec.Right)
	if (left.Empty() && left.Exact) || (right.Empty() && right.Exact) {
		return Clause{Exact: true}
	}
	if left.Empty() || right.Empty() {
		return Clause{}
	}
	return Clause{
		SQL:   "(" + left.SQL + ") OR (" + right.SQL + ")",
		Args:  append(append([]any{}, left.Args...), right.Args...),
		Exact: left.Exact && right.Exact,
	}
}

// translateNot 只有内部条件精确时才能取反
func (t *ProjectTranslator) translateNot(spec shared.NotSpecification[*project.Project]) Clause {
	inner := t.Translate(spec.Spec)
	if !inner.Exact || inner.Empty() {
		return Clause{}
	}
	return Clause{SQL: "NOT (" + inner.SQL + ")", Args: inner.Args, Exact: true}
}

func (t *ProjectTranslator) translateConcrete(spec shared.Specification[*project.Project]) Clause {
	switch s := spec.(type) {
	case project.HasOwnersSpecification:
		return Clause{
			SQL:   "EXISTS (SELECT 1 FROM project_owners po WHERE po.project_id = projects.id)",
			Exact: true,
		}
	case project.ByOwnerSpecification:
		return Clause{
			SQL:   "projects.id IN (SELECT po.project_id FROM project_owners po WHERE po.email = ?)",
			Args:  []any{strings.TrimSpace(strings.ToLower(s.Email))},
			Exact: true,
		}
	case project.ByNameSpecification:
		return Clause{SQL: "projects.name = ?", Args: []any{s.Name}, Exact: true}
	case project.MinBudgetSpecification:
		return Clause{
			SQL:   "projects.currency = ? AND projects.amount >= ?",
			Args:  []any{s.Currency, s.Amount},
			Exact: true,
		}
	case project.BudgetCurrencySpecification:
		return Clause{SQL: "projects.currency = ?", Args: []any{s.Currency}, Exact: true}
	}

	// 未知规约类型：不下推，由仓储在内存中过滤
	return Clause{}
}
