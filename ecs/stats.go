package ecs

import "sort"

// WorldStats is a point-in-time summary of a world's contents
type WorldStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes a single archetype
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
	Capacity       int
}

// CollectStats walks the world and summarises it. Archetypes without live
// entities are still reported.
func (w *World) CollectStats() WorldStats {
	stats := WorldStats{
		ArchetypeCount:     len(w.ordered),
		TotalEntityCount:   w.Len(),
		SingletonCount:     len(w.singletons),
		ArchetypeBreakdown: make([]ArchetypeStats, 0, len(w.ordered)),
		SingletonTypes:     make([]string, 0, len(w.singletons)),
	}

	for _, archetype := range w.ordered {
		names := make([]string, len(archetype.types))
		for i, t := range archetype.types {
			names[i] = t.String()
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: names,
			EntityCount:    archetype.Len(),
			Capacity:       archetype.Capacity(),
		})
	}

	for t := range w.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}
