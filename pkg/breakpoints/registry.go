package breakpoints

import "strings"

// Direction is the sense of a threshold crossing.
type Direction uint8

const (
	// Up means the viewport grew past a threshold.
	Up Direction = iota
	// Down means the viewport shrank below a threshold.
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ParseDirection accepts "up" or "down" in any case.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, true
	case "down":
		return Down, true
	}
	return 0, false
}

// Tag groups callbacks so they can be removed together.
type Tag string

// DefaultTag is used when no tag is given.
const DefaultTag Tag = "__"

// Crossing describes one threshold passed during a resize.
type Crossing struct {
	Name      string
	Direction Direction
	From      int
	To        int
}

// Callback is invoked once per matching crossing.
type Callback func(Crossing)

type bucket struct {
	tag       Tag
	callbacks []Callback
}

// registry maps breakpoint -> direction -> tag buckets in insertion order.
type registry struct {
	points map[string]map[Direction][]*bucket
}

func (r *registry) add(name string, dir Direction, tag Tag, cb Callback) {
	if r.points == nil {
		r.points = make(map[string]map[Direction][]*bucket)
	}
	dirs, ok := r.points[name]
	if !ok {
		dirs = make(map[Direction][]*bucket)
		r.points[name] = dirs
	}
	for _, b := range dirs[dir] {
		if b.tag == tag {
			b.callbacks = append(b.callbacks, cb)
			return
		}
	}
	dirs[dir] = append(dirs[dir], &bucket{tag: tag, callbacks: []Callback{cb}})
}

func (r *registry) remove(name string, dir Direction, tag Tag) {
	dirs, ok := r.points[name]
	if !ok {
		return
	}
	buckets := dirs[dir]
	for i, b := range buckets {
		if b.tag == tag {
			dirs[dir] = append(buckets[:i:i], buckets[i+1:]...)
			return
		}
	}
}

func (r *registry) count(name string, dir Direction) int {
	n := 0
	for _, b := range r.points[name][dir] {
		n += len(b.callbacks)
	}
	return n
}

// snapshot flattens the callbacks for (name, dir) into a fresh slice.
func (r *registry) snapshot(name string, dir Direction) []Callback {
	var out []Callback
	for _, b := range r.points[name][dir] {
		out = append(out, b.callbacks...)
	}
	return out
}
