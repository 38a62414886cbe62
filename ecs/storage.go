package ecs

// entityStore tracks entity generations and free ids.
type entityStore struct {
	gens  []uint32
	alive []bool
	free  []uint32
}

func (s *entityStore) create() Entity {
	var id uint32
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
		id = uint32(len(s.gens))
	}
	s.alive[id-1] = true
	return newEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.slot() - 1
	s.gens[idx]++
	s.alive[idx] = false
	s.free = append(s.free, e.slot())
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.slot()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.alive[id-1] && s.gens[id-1] == e.gen()
}
