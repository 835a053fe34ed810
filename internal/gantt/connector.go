package gantt

import "math"

const (
	ArrowArm       = 10.0
	ArrowHalfAngle = math.Pi / 6
)

type Point struct {
	X, Y float64
}

// Rect is a rendered bounding box in surface pixels.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Left() float64    { return r.X }
func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// BoxLookup exposes where a rendering surface actually drew each task bar.
// ok is false when the bar is not currently rendered.
type BoxLookup interface {
	Box(taskID string) (r Rect, ok bool)
}

// Overlay receives connectors. Clear drops everything previously drawn.
type Overlay interface {
	Clear()
	Draw(c Connector)
}

// Dependent is one task row and the ids of the tasks it depends on.
type Dependent struct {
	ID        string
	DependsOn []string
}

// Connector is a directed line from a dependency bar to its dependent bar,
// ending in a two-arm chevron whose tip is To.
type Connector struct {
	FromID string
	ToID   string
	From   Point
	To     Point
	Arms   [2]Point
}

// Angle is the direction of the connector in radians.
func (c Connector) Angle() float64 {
	return math.Atan2(c.To.Y-c.From.Y, c.To.X-c.From.X)
}

// Connect joins the right-center of from to the left-center of to.
func Connect(from, to Rect) Connector {
	c := Connector{
		From: Point{X: from.Right(), Y: from.CenterY()},
		To:   Point{X: to.Left(), Y: to.CenterY()},
	}
	c.Arms = Arrowhead(c.From, c.To, ArrowArm, ArrowHalfAngle)
	return c
}

// Arrowhead returns the outer ends of the two chevron arms at tip, oriented
// along the line from -> tip.
func Arrowhead(from, tip Point, arm, halfAngle float64) [2]Point {
	angle := math.Atan2(tip.Y-from.Y, tip.X-from.X)
	return [2]Point{
		{X: tip.X - arm*math.Cos(angle-halfAngle), Y: tip.Y - arm*math.Sin(angle-halfAngle)},
		{X: tip.X - arm*math.Cos(angle+halfAngle), Y: tip.Y - arm*math.Sin(angle+halfAngle)},
	}
}

// DrawConnectors repaints overlay from scratch and returns how many connectors
// were drawn. Pairs where either bar is not rendered are skipped.
func DrawConnectors(tasks []Dependent, boxes BoxLookup, overlay Overlay) int {
	overlay.Clear()

	drawn := 0
	for _, t := range tasks {
		if len(t.DependsOn) == 0 {
			continue
		}
		target, ok := boxes.Box(t.ID)
		if !ok {
			continue
		}
		for _, depID := range t.DependsOn {
			source, ok := boxes.Box(depID)
			if !ok {
				continue
			}
			c := Connect(source, target)
			c.FromID = depID
			c.ToID = t.ID
			overlay.Draw(c)
			drawn++
		}
	}
	return drawn
}
