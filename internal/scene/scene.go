// Package scene describes the scene-graph collaborator that owns renderable
// handles. The terrain core only attaches and detaches nodes.
package scene

// Node is an opaque renderable handle.
type Node interface {
	NodeID() string
}

// Graph accepts nodes for rendering.
type Graph interface {
	Add(node Node)
	Remove(node Node)
}

// Recorder is an in-memory Graph that tracks attached nodes and counts calls.
type Recorder struct {
	nodes   map[string]Node
	Adds    int
	Removes int
}

func NewRecorder() *Recorder {
	return &Recorder{nodes: make(map[string]Node)}
}

func (r *Recorder) Add(node Node) {
	r.Adds++
	r.nodes[node.NodeID()] = node
}

func (r *Recorder) Remove(node Node) {
	r.Removes++
	delete(r.nodes, node.NodeID())
}

// Contains reports whether a node with id is attached.
func (r *Recorder) Contains(id string) bool {
	_, ok := r.nodes[id]
	return ok
}

// Len returns the number of attached nodes.
func (r *Recorder) Len() int {
	return len(r.nodes)
}

// Nodes returns the attached nodes in no particular order.
func (r *Recorder) Nodes() []Node {
	out := make([]Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n)
	}
	return out
}
