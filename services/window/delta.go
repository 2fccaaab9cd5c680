package window

import (
	"fmt"
	"strings"

	"trackview/models"
)

// Delta is the structural change that turns one window into the next.
// Left and right edges are independent; either, both or neither may fire.
// Consumers apply removals before additions, front before back.
type Delta struct {
	From, To Bounds

	RemoveFront int
	AddFront    models.Sequence
	RemoveBack  int
	AddBack     models.Sequence
}

// Empty reports whether applying d changes nothing.
func (d Delta) Empty() bool {
	return d.RemoveFront == 0 && d.RemoveBack == 0 && len(d.AddFront) == 0 && len(d.AddBack) == 0
}

// Removed is the number of records dropped by d.
func (d Delta) Removed() int { return d.RemoveFront + d.RemoveBack }

// Added is the number of records inserted by d.
func (d Delta) Added() int { return len(d.AddFront) + len(d.AddBack) }

func (d Delta) String() string {
	var ops []string
	if d.RemoveFront > 0 {
		ops = append(ops, fmt.Sprintf("removeFront(%d)", d.RemoveFront))
	}
	if len(d.AddFront) > 0 {
		ops = append(ops, fmt.Sprintf("addFront(%d)", len(d.AddFront)))
	}
	if d.RemoveBack > 0 {
		ops = append(ops, fmt.Sprintf("removeBack(%d)", d.RemoveBack))
	}
	if len(d.AddBack) > 0 {
		ops = append(ops, fmt.Sprintf("addBack(%d)", len(d.AddBack)))
	}
	return fmt.Sprintf("%s->%s {%s}", d.From, d.To, strings.Join(ops, ", "))
}

// Bounds is a half-open index range [Start, End).
type Bounds struct {
	Start, End int
}

// Len returns End - Start.
func (b Bounds) Len() int { return b.End - b.Start }

func (b Bounds) String() string { return fmt.Sprintf("[%d,%d)", b.Start, b.End) }
