package ts

// memory is a FIFO of recently modified parameters with O(1) membership.
type memory struct {
	queue    []int
	head     int
	size     int
	members  map[int]struct{}
	capacity int
}

func newMemory(capacity int) *memory {
	return &memory{
		queue:    make([]int, capacity+1),
		members:  make(map[int]struct{}, capacity+1),
		capacity: capacity,
	}
}

func (m *memory) contains(param int) bool {
	_, ok := m.members[param]
	return ok
}

// push records param and evicts the oldest entry once capacity is exceeded.
func (m *memory) push(param int) {
	tail := (m.head + m.size) % len(m.queue)
	m.queue[tail] = param
	m.size++
	m.members[param] = struct{}{}
	if m.size > m.capacity {
		m.popOldest()
	}
}

func (m *memory) popOldest() {
	if m.size == 0 {
		return
	}
	delete(m.members, m.queue[m.head])
	m.head = (m.head + 1) % len(m.queue)
	m.size--
}

func (m *memory) len() int { return m.size }
