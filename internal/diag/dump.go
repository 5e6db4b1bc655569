// Package diag renders the entity graph as a tree for debugging the
// debugger itself, using the same ASCII tree-drawing approach the rest of
// the pack reaches for when it needs to show nested structure at a
// glance.
package diag

import (
	"fmt"

	"github.com/dshills/dapcore/internal/entity"
	"github.com/m1gwings/treedrawer/tree"
)

// DumpGraph renders every live Session, its Threads, Stacks, and Frames as
// an ASCII tree, rooted at the Debugger.
func DumpGraph(g *entity.Graph) string {
	root := tree.NewTree(tree.NodeString("debugger"))

	for _, sid := range g.Debugger().Sessions.Iter() {
		s, ok := g.Session(sid)
		if !ok {
			continue
		}
		sessionNode := root.AddChild(tree.NodeString(fmt.Sprintf("session %s [%s]", s.ID, s.State.Get())))
		for _, tid := range s.Threads.Iter() {
			t, ok := g.Thread(tid)
			if !ok {
				continue
			}
			threadNode := sessionNode.AddChild(tree.NodeString(fmt.Sprintf("thread %s %q", t.ID, t.Name.Get())))
			for _, stid := range t.Stacks.Iter() {
				st, ok := g.Stack(stid)
				if !ok {
					continue
				}
				stackNode := threadNode.AddChild(tree.NodeString(fmt.Sprintf("stack seq=%d", st.Sequence)))
				for _, fid := range st.Frames.Iter() {
					f, ok := g.Frame(fid)
					if !ok {
						continue
					}
					stackNode.AddChild(tree.NodeString(fmt.Sprintf("frame[%d] %s", f.Index, f.Name.Get())))
				}
			}
		}
	}

	return root.String()
}
