package ast

import "fmt"

// Visitor receives pre-order Enter and post-order Exit calls from Traverse.
type Visitor interface {
	Enter(p Path)
	Exit(p Path)
}

// maxRequeue ограничивает число повторных заходов в один и тот же слот.
const maxRequeue = 64

type frame struct {
	parent  NodeID
	field   Field
	index   int
	requeue int
	slot    int
}

type traverser struct {
	t      *Tree
	v      Visitor
	frames []*frame
}

// Traverse walks t once. Nodes removed or replaced by a visitor are not descended into and get no
// Exit; a replacement is visited in the same slot, and siblings keep their order across removals.
func Traverse(t *Tree, v Visitor) {
	tr := &traverser{t: t, v: v}
	prev := t.SetObserver(tr)
	defer t.SetObserver(prev)
	tr.visit(t.Root)
}

func (tr *traverser) visit(id NodeID) {
	parent := tr.t.Nodes.Get(id).Parent
	p := Path{tree: tr.t, id: id}

	tr.v.Enter(p)
	if !tr.inSlot(id, parent) {
		return
	}
	if !tr.walkField(id, FieldAttrs, parent) {
		return
	}
	if !tr.walkField(id, FieldBody, parent) {
		return
	}
	tr.v.Exit(p)
}

// walkField returns false when owner left its slot while its children were visited.
func (tr *traverser) walkField(owner NodeID, field Field, ownerParent NodeID) bool {
	if tr.t.container(owner, field) == nil {
		return true
	}
	f := &frame{parent: owner, field: field, slot: -1}
	tr.frames = append(tr.frames, f)
	defer func() { tr.frames = tr.frames[:len(tr.frames)-1] }()

	for ; f.index < len(tr.t.Children(owner, field)); f.index++ {
		tr.visit(tr.t.Children(owner, field)[f.index])
		if !tr.inSlot(owner, ownerParent) {
			return false
		}
	}
	return true
}

func (tr *traverser) inSlot(id, parent NodeID) bool {
	if id == tr.t.Root {
		return true
	}
	return tr.t.Nodes.Get(id).Parent == parent && tr.t.Attached(id)
}

func (tr *traverser) NodeRemoved(parent NodeID, field Field, index int) {
	for _, f := range tr.frames {
		if f.parent == parent && f.field == field && index <= f.index {
			f.index--
		}
	}
}

func (tr *traverser) NodeReplaced(parent NodeID, field Field, index int) {
	for _, f := range tr.frames {
		if f.parent == parent && f.field == field && index == f.index {
			if f.slot != index {
				f.slot, f.requeue = index, 0
			}
			f.requeue++
			if f.requeue > maxRequeue {
				panic(fmt.Sprintf("ast: slot %d of node %d replaced more than %d times", index, parent, maxRequeue))
			}
			f.index--
		}
	}
}

func (tr *traverser) NodeInserted(parent NodeID, field Field, index int) {
	for _, f := range tr.frames {
		if f.parent == parent && f.field == field && index <= f.index {
			f.index++
		}
	}
}
