package systems

import (
	"github.com/automoto/doomerang-netclient/components"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
	"github.com/yohamta/donburi/filter"
)

// deathFadeSeconds is how long a destroyed entity lingers on screen.
const deathFadeSeconds = 0.6

var deathFadeQuery = donburi.NewQuery(filter.Contains(components.DeathFade))

func onEntityRemoved(w donburi.World, evt EntityRemoved) {
	if !evt.Destroyed || !evt.HasPos {
		return
	}
	SpawnDeathFade(w, evt.X, evt.Y)
}

// SpawnDeathFade leaves a fading marker where an entity was destroyed.
func SpawnDeathFade(w donburi.World, x, y float64) *donburi.Entry {
	entry := w.Entry(w.Create(components.DeathFade))
	components.DeathFade.SetValue(entry, components.DeathFadeData{
		Position: math.NewVec2(x, y),
		Tween:    gween.New(1, 0, deathFadeSeconds, ease.OutQuad),
		Alpha:    1,
		Scale:    1,
	})
	return entry
}

// UpdateDeathFades advances every fade by dt seconds and removes the
// finished ones.
func UpdateDeathFades(w donburi.World, dt float32) {
	var done []*donburi.Entry
	deathFadeQuery.Each(w, func(entry *donburi.Entry) {
		fade := components.DeathFade.Get(entry)
		v, finished := fade.Tween.Update(dt)
		fade.Alpha = v
		fade.Scale = 1 + (1-v)*0.5
		if finished {
			done = append(done, entry)
		}
	})
	for _, entry := range done {
		entry.Remove()
	}
}
