package memory

import (
	"context"

	"pet-records/internal/domain/pets"
)

type statsReader struct {
	s *Store
}

// StatsFor recorre cada tabla de logs una sola vez para todo el lote.
func (r statsReader) StatsFor(ctx context.Context, petIDs []string) (map[string]pets.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]pets.Stats, len(petIDs))
	want := make(map[string]bool, len(petIDs))
	for _, id := range petIDs {
		want[id] = true
	}

	for _, rec := range r.s.health {
		if want[rec.v.PetID] && !rec.v.CaseClosed {
			st := out[rec.v.PetID]
			st.OpenHealthCases++
			out[rec.v.PetID] = st
		}
	}

	lastWeightSeq := map[string]uint64{}
	for _, rec := range r.s.weights {
		l := rec.v
		if !want[l.PetID] {
			continue
		}
		st := out[l.PetID]
		if st.LastWeight == nil ||
			l.RecordedAt.After(st.LastWeight.RecordedAt) ||
			(l.RecordedAt.Equal(st.LastWeight.RecordedAt) && rec.seq > lastWeightSeq[l.PetID]) {
			st.LastWeight = &pets.WeightSnapshot{WeightKg: l.WeightKg, RecordedAt: l.RecordedAt}
			lastWeightSeq[l.PetID] = rec.seq
			out[l.PetID] = st
		}
	}

	for _, rec := range r.s.injection {
		l := rec.v
		if !want[l.PetID] {
			continue
		}
		st := out[l.PetID]
		if st.LastInjectionDate == nil || l.InjectionDate.After(*st.LastInjectionDate) {
			d := l.InjectionDate
			st.LastInjectionDate = &d
			out[l.PetID] = st
		}
	}
	return out, nil
}
