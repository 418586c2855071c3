package cache

import "fmt"

// Stats tracks cache hit/miss/eviction counters over the lifetime of a
// Cache instance.
type Stats struct {
	Hits      int
	Misses    int
	Sets      int
	Evictions int
	Size      int
}

// HitRate returns Hits / (Hits + Misses), or 0 when nothing has been
// requested yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) String() string {
	return fmt.Sprintf("hits=%d misses=%d sets=%d evictions=%d size=%d hit_rate=%.2f",
		s.Hits, s.Misses, s.Sets, s.Evictions, s.Size, s.HitRate())
}
