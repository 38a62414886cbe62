package ecs

import "strconv"

// Entity is a generational handle. The low 32 bits hold the slot, the high
// 32 bits the slot's generation; destroying an entity bumps the generation,
// so a handle kept by a trap observer or a teleport trap stops resolving
// once its agent is despawned and the slot is reused. Slot 0 is never handed
// out, which makes the zero Entity invalid.
type Entity uint64

const slotBits = 32

func newEntity(slot, gen uint32) Entity {
	return Entity(uint64(gen)<<slotBits | uint64(slot))
}

func (e Entity) slot() uint32 { return uint32(e) }

func (e Entity) gen() uint32 { return uint32(e >> slotBits) }

// String formats as "slot#gen", e.g. "3#1" for the second agent to use slot 3.
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.slot()), 10) + "#" + strconv.FormatUint(uint64(e.gen()), 10)
}

func (e Entity) Valid() bool {
	return e.slot() != 0
}
