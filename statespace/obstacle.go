package statespace

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Obstacle is a region of a space that states must stay out of.
type Obstacle interface {
	Label() string
	// Contains reports whether the state lies inside the obstacle, boundary included.
	Contains(s State) bool
}

// Box is an axis-aligned box obstacle.
type Box struct {
	center   []float64
	halfSize []float64
	label    string
}

// NewBox creates an axis-aligned box from its center and full side lengths.
func NewBox(center State, dims []float64, label string) (*Box, error) {
	if len(center) != len(dims) {
		return nil, errors.Errorf("box %q: center has %d dimensions but dims has %d", label, len(center), len(dims))
	}
	halfSize := make([]float64, len(dims))
	for i, d := range dims {
		// Zero dimensions are allowed for degenerate walls.
		if d < 0 {
			return nil, errors.Errorf("box %q: negative dimension %v", label, d)
		}
		halfSize[i] = d / 2
	}
	return &Box{center: center.Clone(), halfSize: halfSize, label: label}, nil
}

// Label returns the name of the box.
func (b *Box) Label() string {
	return b.label
}

// Contains reports whether the state is inside the box.
func (b *Box) Contains(s State) bool {
	if len(s) != len(b.center) {
		return false
	}
	for i, v := range s {
		if v < b.center[i]-b.halfSize[i] || v > b.center[i]+b.halfSize[i] {
			return false
		}
	}
	return true
}

func (b *Box) String() string {
	return fmt.Sprintf("box %q center %v half size %v", b.label, State(b.center), State(b.halfSize))
}

// Ball is a spherical obstacle.
type Ball struct {
	center State
	radius float64
	label  string
}

// NewBall creates a ball obstacle.
func NewBall(center State, radius float64, label string) (*Ball, error) {
	if radius < 0 {
		return nil, errors.Errorf("ball %q: negative radius %v", label, radius)
	}
	return &Ball{center: center.Clone(), radius: radius, label: label}, nil
}

// Label returns the name of the ball.
func (b *Ball) Label() string {
	return b.label
}

// Contains reports whether the state is inside the ball.
func (b *Ball) Contains(s State) bool {
	if len(s) != len(b.center) {
		return false
	}
	return floats.Distance(s, b.center, 2) <= b.radius
}

func (b *Ball) String() string {
	return fmt.Sprintf("ball %q center %v radius %v", b.label, b.center, b.radius)
}
