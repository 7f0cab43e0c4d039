package interaction

// Precondition is one check guarding a gated action.
type Precondition func() bool

// Gate holds an ordered set of preconditions and a single optional action.
// The action fires only on a press with every precondition passing. Gates
// keep no state between evaluations; two gates never share anything.
type Gate struct {
	name          string
	preconditions []Precondition
	action        func()
}

func NewGate(name string) *Gate {
	return &Gate{name: name}
}

func (g *Gate) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

func (g *Gate) AddPrecondition(check Precondition) {
	if g == nil || check == nil {
		return
	}
	g.preconditions = append(g.preconditions, check)
}

// SetAction installs the post-action. A nil action leaves the gate valid;
// passing evaluations are then no-ops.
func (g *Gate) SetAction(fn func()) {
	if g == nil {
		return
	}
	g.action = fn
}

// Evaluate runs the gate for one button sample. A release is always a no-op.
// On a press every precondition is called in order — all of them, even after
// one has failed, since checks may carry side effects. An empty precondition
// set passes. The action fires at most once per call and a refused press is
// silent.
func (g *Gate) Evaluate(pressed bool) bool {
	if g == nil || !pressed {
		return false
	}

	pass := true
	for _, check := range g.preconditions {
		if !check() {
			pass = false
		}
	}
	if !pass {
		return false
	}

	if g.action != nil {
		g.action()
	}
	return true
}
