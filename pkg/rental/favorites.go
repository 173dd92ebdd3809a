package rental

import "sort"

type FavoriteOp string

const (
	FavoriteAdd    FavoriteOp = "add"
	FavoriteRemove FavoriteOp = "remove"
)

// Favorites is one client's set of favorite vehicle IDs. Values are treated
// as immutable: Toggle returns a fresh set.
type Favorites map[string]struct{}

func NewFavorites(vehicleIDs ...string) Favorites {
	f := make(Favorites, len(vehicleIDs))
	for _, id := range vehicleIDs {
		f[id] = struct{}{}
	}
	return f
}

func (f Favorites) Has(vehicleID string) bool {
	_, ok := f[vehicleID]
	return ok
}

func (f Favorites) Clone() Favorites {
	out := make(Favorites, len(f))
	for id := range f {
		out[id] = struct{}{}
	}
	return out
}

func (f Favorites) Toggle(vehicleID string) (Favorites, FavoriteOp) {
	out := f.Clone()
	if f.Has(vehicleID) {
		delete(out, vehicleID)
		return out, FavoriteRemove
	}
	out[vehicleID] = struct{}{}
	return out, FavoriteAdd
}

// Apply replays an acknowledged change onto a set that may have moved on
// since the change was made. Unknown ops leave the set as is.
func (f Favorites) Apply(vehicleID string, op FavoriteOp) Favorites {
	out := f.Clone()
	switch op {
	case FavoriteAdd:
		out[vehicleID] = struct{}{}
	case FavoriteRemove:
		delete(out, vehicleID)
	}
	return out
}

func (f Favorites) IDs() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
