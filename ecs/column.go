package ecs

const (
	columnBlockSize = 64
)

// columnStorage is a type-erased, row-addressed component column. Row
// occupancy is owned by the archetype; a column only holds values.
type columnStorage interface {
	Set(row int, item any) bool
	Get(row int) any
	Zero(row int)
	Move(from, to int)
	Truncate(rows int)
}

// column stores components of type T in fixed-size blocks. Blocks are
// allocated individually so a pointer returned by Get stays valid while the
// column grows.
type column[T any] struct {
	blocks []*[columnBlockSize]T
}

func (c *column[T]) ensure(row int) {
	for row/columnBlockSize >= len(c.blocks) {
		c.blocks = append(c.blocks, new([columnBlockSize]T))
	}
}

func (c *column[T]) slot(row int) *T {
	return &c.blocks[row/columnBlockSize][row%columnBlockSize]
}

// Set stores item (a T or *T) at row. It reports false for a foreign type.
func (c *column[T]) Set(row int, item any) bool {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return false
	}

	c.ensure(row)
	*c.slot(row) = value
	return true
}

// Get returns a *T for the row, or nil when the row was never allocated.
func (c *column[T]) Get(row int) any {
	if row < 0 || row/columnBlockSize >= len(c.blocks) {
		return nil
	}
	return c.slot(row)
}

// Zero clears the value at row so the column does not pin anything it referenced.
func (c *column[T]) Zero(row int) {
	if row < 0 || row/columnBlockSize >= len(c.blocks) {
		return
	}
	var zero T
	*c.slot(row) = zero
}

func (c *column[T]) Move(from, to int) {
	if from == to {
		return
	}
	c.ensure(to)
	*c.slot(to) = *c.slot(from)
	c.Zero(from)
}

// Truncate drops whole blocks beyond the first rows entries.
func (c *column[T]) Truncate(rows int) {
	keep := (rows + columnBlockSize - 1) / columnBlockSize
	if keep < len(c.blocks) {
		clear(c.blocks[keep:])
		c.blocks = c.blocks[:keep]
	}
}
