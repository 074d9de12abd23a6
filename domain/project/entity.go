/*
Package project Project subdomain

Project is the entity of the ledger example:
- identity: a positive int64 assigned at creation, never changes
- Value fields: budget (shared.Money) and owners ([]Owner)
- equality by identity only

The "at least one owner" rule is intentionally not a constructor rule: it is a
Specification enforced at the persistence boundary by SpecifiedRepository, so a
draft project can be built and inspected before it is stored.
*/
package project

import (
	"strings"
	"time"

	"ddd-skeleton/domain/shared"
)

// Project 项目实体
// 所有字段私有，通过方法暴露行为
type Project struct {
	id        int64
	name      string
	budget    shared.Money
	owners    []Owner
	version   int // 乐观锁版本号
	createdAt time.Time
	updatedAt time.Time
}

// NewProject 创建新项目实体
// budget 由调用方通过 MoneyFactory 构造，owners 可以为空
func NewProject(id int64, name string, budget shared.Money, owners ...Owner) (*Project, error) {
	if id <= 0 {
		return nil, NewInvalidIDError(id)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidNameError()
	}

	now := time.Now()
	p := &Project{
		id:        id,
		name:      name,
		budget:    budget,
		owners:    make([]Owner, 0, len(owners)),
		version:   0,
		createdAt: now,
		updatedAt: now,
	}
	for _, o := range owners {
		p.addOwner(o)
	}

	return p, nil
}

// ============================================================================
// 领域行为方法
// ============================================================================
//
// 实体的状态变更通过行为方法进行，标识字段没有任何修改入口

// Rename 更新项目名称
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewInvalidNameError()
	}
	p.name = name
	p.touch()
	return nil
}

// AddOwner 添加负责人，已存在时不重复添加
// 返回值表示是否真的发生了变更
func (p *Project) AddOwner(owner Owner) bool {
	if !p.addOwner(owner) {
		return false
	}
	p.touch()
	return true
}

// RemoveOwner 移除负责人
func (p *Project) RemoveOwner(owner Owner) error {
	for i, o := range p.owners {
		if o.Equals(owner) {
			p.owners = append(p.owners[:i:i], p.owners[i+1:]...)
			p.touch()
			return nil
		}
	}
	return NewOwnerNotFoundError(owner.Value())
}

// HasOwner 检查是否为项目负责人
func (p *Project) HasOwner(owner Owner) bool {
	for _, o := range p.owners {
		if o.Equals(owner) {
			return true
		}
	}
	return false
}

// Allocate 追加预算，Money.Add 返回新值，旧预算不受影响
func (p *Project) Allocate(amount shared.Money) error {
	budget, err := p.budget.Add(amount)
	if err != nil {
		return err
	}
	p.budget = budget
	p.touch()
	return nil
}

// Spend 扣减预算，预算不足时返回校验错误
func (p *Project) Spend(amount shared.Money) error {
	budget, err := p.budget.Subtract(amount)
	if err != nil {
		return err
	}
	p.budget = budget
	p.touch()
	return nil
}

// Equals 实体相等性只比较标识
func (p *Project) Equals(other *Project) bool {
	if p == nil || other == nil {
		return false
	}
	return p.id == other.id
}

// Clone 返回独立副本，仓储用它隔离调用方与存储
func (p *Project) Clone() *Project {
	c := *p
	c.owners = p.Owners()
	return &c
}

func (p *Project) addOwner(owner Owner) bool {
	if p.HasOwner(owner) {
		return false
	}
	p.owners = append(p.owners, owner)
	return true
}

func (p *Project) touch() {
	p.updatedAt = time.Now()
	p.version++
}

// ============================================================================
// Getters
// ============================================================================

func (p *Project) ID() int64            { return p.id }
func (p *Project) Name() string         { return p.name }
func (p *Project) Budget() shared.Money { return p.budget }
func (p *Project) Version() int         { return p.version }
func (p *Project) CreatedAt() time.Time { return p.createdAt }
func (p *Project) UpdatedAt() time.Time { return p.updatedAt }

// Owners 返回负责人列表的副本
func (p *Project) Owners() []Owner {
	owners := make([]Owner, len(p.owners))
	copy(owners, p.owners)
	return owners
}

// OwnerEmails 返回负责人邮箱列表
func (p *Project) OwnerEmails() []string {
	emails := make([]string, len(p.owners))
	for i, o := range p.owners {
		emails[i] = o.Value()
	}
	return emails
}

// ReconstructionDTO 项目重建数据传输对象
// ⚠️ 注意：此DTO仅应在仓储实现中使用，不应在应用层调用
type ReconstructionDTO struct {
	ID        int64
	Name      string
	Amount    int64
	Currency  string
	Owners    []string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RebuildFromDTO 从DTO重建Project
// 已持久化的数据可能违反当前规约（例如历史数据没有负责人），这里不做规约校验，
// 由 SpecifiedRepository 在读取路径上统一标记
func RebuildFromDTO(dto ReconstructionDTO) (*Project, error) {
	budget, err := shared.NewMoney(dto.Amount, dto.Currency)
	if err != nil {
		return nil, err
	}

	owners := make([]Owner, 0, len(dto.Owners))
	for _, email := range dto.Owners {
		o, err := NewOwner(email)
		if err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}

	return &Project{
		id:        dto.ID,
		name:      dto.Name,
		budget:    budget,
		owners:    owners,
		version:   dto.Version,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}, nil
}

// ToDTO 导出持久化所需的数据
func (p *Project) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:        p.id,
		Name:      p.name,
		Amount:    p.budget.Amount(),
		Currency:  p.budget.Currency(),
		Owners:    p.OwnerEmails(),
		Version:   p.version,
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
	}
}

// 编译时检查 Project 实现了 Entity 接口
var _ shared.Entity[int64] = (*Project)(nil)
