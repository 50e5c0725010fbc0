package motionplan

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"go.viam.com/optrrt/statespace"
)

// PlannerVertex is a tree motion as exported by PlannerData.
type PlannerVertex struct {
	ID    int64            `json:"id"`
	State statespace.State `json:"state"`
	Cost  float64          `json:"cost"`
	Start bool             `json:"start,omitempty"`
	Goal  bool             `json:"goal,omitempty"`
}

// PlannerEdge connects a parent motion to a child motion.
type PlannerEdge struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// PlannerData is a read-only snapshot of a planner's tree. Vertex ids are only meaningful within
// one snapshot.
type PlannerData struct {
	Vertices []PlannerVertex `json:"vertices"`
	Edges    []PlannerEdge   `json:"edges"`
	Starts   []int64         `json:"starts"`
	// Goal is the id of the remembered goal motion, nil when there is none.
	Goal *int64 `json:"goal,omitempty"`
}

// PlannerData exports the tree: every motion, every parent to child edge, the start motions and the
// best goal motion remembered across Solve calls.
func (mp *OptimizingRRT) PlannerData() *PlannerData {
	data := &PlannerData{}
	goalIndex := -1
	if mp.hasGoalMotion {
		if _, err := mp.tree.get(mp.lastGoalMotion); err == nil {
			goalIndex = mp.lastGoalMotion.index
		}
	}

	for _, h := range mp.tree.list() {
		m, err := mp.tree.get(h)
		if err != nil {
			continue
		}
		id := int64(h.index)
		data.Vertices = append(data.Vertices, PlannerVertex{
			ID:    id,
			State: m.state.Clone(),
			Cost:  m.cost,
			Start: m.root,
			Goal:  h.index == goalIndex,
		})
		if m.root {
			data.Starts = append(data.Starts, id)
		} else {
			data.Edges = append(data.Edges, PlannerEdge{From: int64(m.parent.index), To: id})
		}
	}
	if goalIndex >= 0 {
		id := int64(goalIndex)
		data.Goal = &id
	}
	return data
}

// NumVertices returns the number of exported motions.
func (pd *PlannerData) NumVertices() int {
	return len(pd.Vertices)
}

// StartStates returns the states of the start vertices.
func (pd *PlannerData) StartStates() []statespace.State {
	starts := lo.Filter(pd.Vertices, func(v PlannerVertex, _ int) bool { return v.Start })
	return lo.Map(starts, func(v PlannerVertex, _ int) statespace.State { return v.State })
}

type dotNode struct {
	id    int64
	label string
	shape string
}

func (n dotNode) ID() int64 {
	return n.id
}

// Attributes labels each node with its state and marks starts and the goal.
func (n dotNode) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{Key: "label", Value: n.label}}
	if n.shape != "" {
		attrs = append(attrs, encoding.Attribute{Key: "shape", Value: n.shape})
	}
	return attrs
}

// DOT renders the snapshot as a graphviz digraph.
func (pd *PlannerData) DOT(name string) ([]byte, error) {
	g := simple.NewDirectedGraph()
	for _, v := range pd.Vertices {
		node := dotNode{id: v.ID, label: v.State.String()}
		switch {
		case v.Goal:
			node.shape = "doublecircle"
		case v.Start:
			node.shape = "box"
		}
		g.AddNode(node)
	}
	for _, e := range pd.Edges {
		from, to := g.Node(e.From), g.Node(e.To)
		if from == nil || to == nil {
			return nil, errors.Errorf("edge %d -> %d refers to a missing vertex", e.From, e.To)
		}
		g.SetEdge(g.NewEdge(from, to))
	}
	return dot.Marshal(g, name, "", "\t")
}
