package memory

import (
	"context"
	"sort"
	"time"

	"vetcare-api/internal/domain/quarantines"
)

type quarantineRepo struct {
	t *table[quarantines.Quarantine]
}

func NewQuarantineRepo() quarantines.Repository {
	return NewStore().Quarantines()
}

func (r *quarantineRepo) Create(ctx context.Context, q quarantines.Quarantine) error {
	return r.t.insert(q.ID, q)
}

func (r *quarantineRepo) GetByID(ctx context.Context, id string) (quarantines.Quarantine, error) {
	return r.t.get(id)
}

func (r *quarantineRepo) Delete(ctx context.Context, id string) error {
	return r.t.remove(id)
}

func (r *quarantineRepo) ListAll(ctx context.Context) ([]quarantines.Quarantine, error) {
	return r.t.list(nil, quarantinesByStart), nil
}

func (r *quarantineRepo) ListByPet(ctx context.Context, petID string) ([]quarantines.Quarantine, error) {
	return r.t.list(func(q quarantines.Quarantine) bool { return q.PetID == petID }, quarantinesByStart), nil
}

func (r *quarantineRepo) ListBySector(ctx context.Context, sectorID string) ([]quarantines.Quarantine, error) {
	return r.t.list(func(q quarantines.Quarantine) bool { return q.SectorID == sectorID }, quarantinesByStart), nil
}

func (r *quarantineRepo) ListBySectorStatus(ctx context.Context, sectorID string, status quarantines.Status, offset, limit int) ([]quarantines.Quarantine, int, error) {
	all := r.t.list(func(q quarantines.Quarantine) bool {
		return q.SectorID == sectorID && q.Status == status
	}, quarantinesByStart)
	total := len(all)
	if offset < 0 || offset >= total {
		return []quarantines.Quarantine{}, total, nil
	}
	end := offset + limit
	if end > total || end < offset {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *quarantineRepo) Reasons(ctx context.Context, sectorID string, status quarantines.Status) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, q := range r.t.list(func(q quarantines.Quarantine) bool {
		return q.SectorID == sectorID && q.Status == status
	}, nil) {
		if _, dup := seen[q.Reason]; dup {
			continue
		}
		seen[q.Reason] = struct{}{}
		out = append(out, q.Reason)
	}
	sort.Strings(out)
	return out, nil
}

func (r *quarantineRepo) ListDue(ctx context.Context, now time.Time) ([]quarantines.Quarantine, error) {
	return r.t.list(func(q quarantines.Quarantine) bool {
		return q.End.Before(now) && q.Status != quarantines.StatusDone
	}, quarantinesByStart), nil
}

func (r *quarantineRepo) Complete(ctx context.Context, id string) (bool, error) {
	return r.t.update(id, func(q *quarantines.Quarantine) bool {
		if q.Status == quarantines.StatusDone {
			return false
		}
		q.Status = quarantines.StatusDone
		return true
	})
}

func quarantinesByStart(a, b quarantines.Quarantine) bool { return a.Start.Before(b.Start) }
