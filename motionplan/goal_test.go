package motionplan

import (
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/optrrt/statespace"
)

func TestGoalBall(t *testing.T) {
	space, err := statespace.NewRealVectorSpace([]statespace.Limit{{Min: 0, Max: 10}, {Min: 0, Max: 10}})
	test.That(t, err, test.ShouldBeNil)

	_, err = NewGoalBall(space, statespace.State{1}, 1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewGoalBall(space, statespace.State{1, 1}, -1)
	test.That(t, err, test.ShouldNotBeNil)

	ball, err := NewGoalBall(space, statespace.State{10, 10}, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ball.Radius(), test.ShouldEqual, 0.5)
	test.That(t, ball.Center(), test.ShouldResemble, statespace.State{10, 10})

	sat, dist := ball.IsSatisfied(statespace.State{10, 9.6})
	test.That(t, sat, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldAlmostEqual, 0.4)
	sat, dist = ball.IsSatisfied(statespace.State{7, 6})
	test.That(t, sat, test.ShouldBeFalse)
	test.That(t, dist, test.ShouldAlmostEqual, 5.)

	// the ball sits in a corner; samples must stay inside both the ball and the space
	rng := rand.New(rand.NewSource(3)) //nolint:gosec
	test.That(t, ball.CanSample(), test.ShouldBeTrue)
	for range 500 {
		s := ball.SampleGoal(rng)
		sat, _ := ball.IsSatisfied(s)
		test.That(t, sat, test.ShouldBeTrue)
		test.That(t, space.SatisfiesBounds(s), test.ShouldBeTrue)
	}
}

func TestGoalState(t *testing.T) {
	space, err := statespace.NewRealVectorSpace([]statespace.Limit{{Min: 0, Max: 10}})
	test.That(t, err, test.ShouldBeNil)

	goal, err := NewGoalState(space, statespace.State{4}, 0.1)
	test.That(t, err, test.ShouldBeNil)
	sat, dist := goal.IsSatisfied(statespace.State{4.05})
	test.That(t, sat, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldAlmostEqual, 0.05)
	sat, _ = goal.IsSatisfied(statespace.State{5})
	test.That(t, sat, test.ShouldBeFalse)
	test.That(t, goal.SampleGoal(nil), test.ShouldResemble, statespace.State{4})

	_, err = NewGoalState(space, statespace.State{4, 4}, 0.1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGoalCapabilities(t *testing.T) {
	space, err := statespace.NewRealVectorSpace([]statespace.Limit{{Min: 0, Max: 10}, {Min: 0, Max: 10}})
	test.That(t, err, test.ShouldBeNil)
	ball, err := NewGoalBall(space, statespace.State{5, 5}, 1)
	test.That(t, err, test.ShouldBeNil)
	rng := rand.New(rand.NewSource(1)) //nolint:gosec

	test.That(t, Goal{}.IsSet(), test.ShouldBeFalse)

	testOnly := NewGoal(ball)
	test.That(t, testOnly.IsSet(), test.ShouldBeTrue)
	test.That(t, testOnly.Sampleable(), test.ShouldBeFalse)
	_, ok := testOnly.sample(rng)
	test.That(t, ok, test.ShouldBeFalse)

	sampleable := NewSampleableGoal(ball)
	test.That(t, sampleable.Sampleable(), test.ShouldBeTrue)
	s, ok := sampleable.sample(rng)
	test.That(t, ok, test.ShouldBeTrue)
	sat, _ := sampleable.IsSatisfied(s)
	test.That(t, sat, test.ShouldBeTrue)
}
