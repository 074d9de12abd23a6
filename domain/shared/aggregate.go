package shared

// Entity 实体接口
// 实体与值对象的区别：
// 1. 实体有唯一标识（ID），创建时分配，之后不再改变
// 2. 通过标识判断相等性（即使属性相同，ID不同就是不同的实体）
type Entity[ID comparable] interface {
	ID() ID
}

// ValueObject 值对象接口
// 值对象的特征：
// 1. 没有唯一标识
// 2. 不可变，所有"修改"操作都返回新实例
// 3. 通过属性值判断相等性
type ValueObject[T any] interface {
	Equals(other T) bool
}

// SameIdentity 判断两个实体标识是否相同
func SameIdentity[ID comparable](a, b Entity[ID]) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID() == b.ID()
}

// 编译时检查 Money 实现了 ValueObject
var _ ValueObject[Money] = Money{}
