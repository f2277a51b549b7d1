package hic

import (
	"github.com/grailbio/hts/sam"
)

type groupState int

const (
	idle groupState = iota
	accumulating
)

// readGroup accumulates the admitted records sharing one query name.
//
// The input holds at most a primary and a supplementary alignment per name,
// so only the count and the five-prime records need to be remembered.
type readGroup struct {
	state     groupState
	name      string
	n         int
	fivePrime []*sam.Record
}

// add appends r to the group. If r starts a new name, the pending group is
// finalized first and its emitted record, if any, is returned.
func (g *readGroup) add(r *sam.Record) (emit *sam.Record) {
	if g.state == accumulating && g.name != r.Name {
		emit = g.flush()
	}
	if g.state == idle {
		g.state = accumulating
		g.name = r.Name
	}
	g.n++
	if IsFivePrime(r) {
		g.fivePrime = append(g.fivePrime, r)
	}
	return emit
}

// flush finalizes the pending group, returning the record to emit or nil.
// The group is idle afterwards regardless of the outcome.
func (g *readGroup) flush() *sam.Record {
	if g.state == idle {
		return nil
	}
	var emit *sam.Record
	if keepGroup(g.n, len(g.fivePrime)) {
		emit = g.fivePrime[0]
	}
	for i := range g.fivePrime {
		g.fivePrime[i] = nil
	}
	g.fivePrime = g.fivePrime[:0]
	g.state = idle
	g.name = ""
	g.n = 0
	return emit
}

// keepGroup is the finalization rule. A name with n admitted records, of
// which nFive are five-prime anchored, is kept iff it has one or two records
// and exactly one of them is five-prime anchored.
func keepGroup(n, nFive int) bool {
	return (n == 1 || n == 2) && nFive == 1
}
