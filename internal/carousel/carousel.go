// Package carousel implements the touch-swipe state machine behind the
// per-product image galleries. Each carousel instance owns its own gesture
// state; nothing is shared between instances.
package carousel

// Thresholds for classifying a touch sequence. A gesture commits to
// horizontal paging only when it is clearly wider than tall and has moved
// far enough; otherwise the page's vertical scroll keeps priority.
const (
	axisRatio       = 1.5
	commitThreshold = 15.0
	swipeThreshold  = 50.0
)

type intent int

const (
	intentUndetermined intent = iota
	intentHorizontal
	intentVertical
)

type gestureState struct {
	tracking bool
	originX  float64
	originY  float64
	endX     float64
	hasEnd   bool
	intent   intent
}

// Carousel holds the slide index for one image gallery plus the transient
// gesture state of the touch sequence in flight.
type Carousel struct {
	count   int
	index   int
	gesture gestureState
}

// New returns a carousel over count slides. A non-positive count produces a
// zero-slide carousel whose operations are all no-ops, matching a gallery
// with no images rendering nothing.
func New(count int) *Carousel {
	if count < 0 {
		count = 0
	}
	return &Carousel{count: count}
}

func (c *Carousel) Index() int {
	return c.index
}

func (c *Carousel) Count() int {
	return c.count
}

// TouchStart records the origin and begins tracking. Any end point from a
// previous sequence is discarded.
func (c *Carousel) TouchStart(x, y float64) {
	c.gesture = gestureState{
		tracking: true,
		originX:  x,
		originY:  y,
	}
}

// TouchMove classifies the sequence against the origin. Committing to
// vertical abandons tracking entirely so native page scroll takes over;
// committing to horizontal records the rolling end point and owns the axis
// for the rest of the sequence. In the ambiguous zone the decision is
// deferred but the end point still rolls forward.
func (c *Carousel) TouchMove(x, y float64) {
	if !c.gesture.tracking {
		return
	}

	dx := abs(x - c.gesture.originX)
	dy := abs(y - c.gesture.originY)

	switch c.gesture.intent {
	case intentHorizontal:
		c.gesture.endX = x
		c.gesture.hasEnd = true
	case intentUndetermined:
		switch {
		case dx > axisRatio*dy && dx > commitThreshold:
			c.gesture.intent = intentHorizontal
			c.gesture.endX = x
			c.gesture.hasEnd = true
		case dy > axisRatio*dx:
			// Scroll intent: reset so touch-end cannot page.
			c.gesture = gestureState{}
		default:
			c.gesture.endX = x
			c.gesture.hasEnd = true
		}
	}
}

// TouchEnd consumes the gesture. Only a sequence committed to horizontal
// with a recorded end point can page, and only when the drag distance
// clears the swipe threshold. The index never moves past either boundary.
// The gesture state is reset regardless of outcome.
func (c *Carousel) TouchEnd() int {
	g := c.gesture
	c.gesture = gestureState{}

	if !g.tracking || g.intent != intentHorizontal || !g.hasEnd {
		return c.index
	}

	distance := g.originX - g.endX
	switch {
	case distance > swipeThreshold && c.index < c.count-1:
		c.index++
	case distance < -swipeThreshold && c.index > 0:
		c.index--
	}
	return c.index
}

// OwnsGesture reports whether the current sequence committed to horizontal
// paging; the UI uses it to suppress the page's own scrolling on that axis.
func (c *Carousel) OwnsGesture() bool {
	return c.gesture.tracking && c.gesture.intent == intentHorizontal
}

// GoTo jumps straight to a slide, bypassing gesture tracking. Out-of-range
// requests clamp to the nearest valid slide.
func (c *Carousel) GoTo(index int) int {
	if c.count == 0 {
		return c.index
	}
	if index < 0 {
		index = 0
	}
	if index > c.count-1 {
		index = c.count - 1
	}
	c.index = index
	return c.index
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
