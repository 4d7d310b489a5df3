package state

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
)

// Digest computes a fast fingerprint of the mutable simulation state:
// every entity's position, momentum and status plus every region's plane
// heights. Two runs of the same inputs must produce identical digests at
// every tick; divergence means the simulation lost determinism.
func Digest(lvl *entity.Level, tick int) uint64 {
	h := xxhash.New()
	var buf [8]byte

	u32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:4], v)
		h.Write(buf[:4])
	}
	u64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:8], v)
		h.Write(buf[:8])
	}

	u64(uint64(tick))
	u32(uint32(len(lvl.Entities)))

	for _, e := range lvl.Entities {
		u32(uint32(e.X))
		u32(uint32(e.Y))
		u32(uint32(e.Z))
		u32(uint32(e.Angle))
		u32(uint32(e.MomX))
		u32(uint32(e.MomY))
		u32(uint32(e.MomZ))
		u32(uint32(e.Flags))
		u32(uint32(e.Health))
		u32(uint32(e.FloorZ))
		u32(uint32(e.CeilingZ))
		u32(uint32(e.DropoffZ))
		u32(uint32(e.Gear))
	}

	for _, r := range lvl.Regions {
		u32(uint32(r.FloorHeight))
		u32(uint32(r.CeilingHeight))
	}

	return h.Sum64()
}
