package decompiler

// scopeKind identifies which structured statement a scope frame will
// eventually produce when it closes.
type scopeKind int

const (
	scopeRoot scopeKind = iota
	scopeIf
	scopeElse
	scopeLoop
	scopeSwitch
	scopeSwitchCase
	scopeTry
	scopeCatch
)

// scopeFrame is one entry of the scope stack. A frame with fixed set to
// true closes itself once the walk reaches its target pc (the index of
// the first instruction no longer belonging to it); a frame without fixed
// closes only on an explicit signal (loop back-edge, case boundary, outer
// switch closing).
type scopeFrame struct {
	kind   scopeKind
	fixed  bool
	target int // pc of the first instruction past this frame, when fixed

	body []Stmt

	cond      Expr // If, Loop
	loopStart int  // Loop: pc the backward jump must target to close it
	switchVal Expr // Switch
	cases     []SwitchCase
	curCase   Expr // pattern of the case currently accumulating into body
}

// scopeStack is the control-flow recovery state for one function body.
type scopeStack struct {
	frames []*scopeFrame
}

func newScopeStack() *scopeStack {
	return &scopeStack{frames: []*scopeFrame{{kind: scopeRoot}}}
}

func (s *scopeStack) top() *scopeFrame { return s.frames[len(s.frames)-1] }

func (s *scopeStack) push(f *scopeFrame) { s.frames = append(s.frames, f) }

// append adds stmt to the innermost scope.
func (s *scopeStack) append(stmt Stmt) {
	s.top().body = append(s.top().body, stmt)
}

// closeThrough closes every fixed frame whose target has been reached now
// that the walk is about to process the instruction at pc, innermost
// first. Closing a frame appends its finished statement to what is then
// the new top, which may itself be due to close at the same pc.
func (s *scopeStack) closeThrough(pc int) {
	for {
		f := s.top()
		if !f.fixed || f.target > pc {
			return
		}
		s.closeTop()
	}
}

// closeTop pops the innermost frame and turns its accumulated body into
// the matching Stmt, appended to the new top.
func (s *scopeStack) closeTop() {
	if len(s.frames) == 1 {
		return // never close the root
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	switch f.kind {
	case scopeIf:
		stmt := If{Cond: f.cond, Then: f.body}
		s.top().body = append(s.top().body, stmt)

	case scopeElse:
		// merge into the If this Else was attached to, which was already
		// appended as the last statement of the parent scope.
		parent := s.top()
		if n := len(parent.body); n > 0 {
			if ifStmt, ok := parent.body[n-1].(If); ok {
				ifStmt.Else = f.body
				parent.body[n-1] = ifStmt
				return
			}
		}
		// no matching If found; keep the else body from being lost
		parent.body = append(parent.body, f.body...)

	case scopeLoop:
		stmt := Loop{Cond: f.cond, Body: f.body}
		s.top().body = append(s.top().body, stmt)

	case scopeSwitchCase:
		// the owning Switch frame collects finished cases in its own Cases
		// slice; it is always the new top for a single-level switch.
		if top := s.top(); top.kind == scopeSwitch {
			top.cases = append(top.cases, SwitchCase{Pattern: f.curCase, Body: f.body})
		}

	case scopeSwitch:
		stmt := Switch{Value: f.switchVal, Cases: f.cases, Default: f.body}
		s.top().body = append(s.top().body, stmt)

	case scopeTry:
		s.top().body = append(s.top().body, Try{Body: f.body})

	case scopeCatch:
		parent := s.top()
		if n := len(parent.body); n > 0 {
			if tryStmt, ok := parent.body[n-1].(Try); ok {
				tryStmt.Catch = f.body
				parent.body[n-1] = tryStmt
				return
			}
		}
		parent.body = append(parent.body, f.body...)
	}
}

// convertIfToElse closes the topmost If frame the way closeTop would (an If
// statement appended to the parent), then immediately reopens a fresh
// frame covering the else-branch, fixed to close at target. This is used
// when the then-block's trailing unconditional jump reveals an else-branch
// follows, rather than the If simply ending with no else.
func (s *scopeStack) convertIfToElse(target int) bool {
	top := s.top()
	if top.kind != scopeIf {
		return false
	}
	ifStmt := If{Cond: top.cond, Then: top.body}
	s.frames = s.frames[:len(s.frames)-1]
	s.top().body = append(s.top().body, ifStmt)
	s.push(&scopeFrame{kind: scopeElse, fixed: true, target: target})
	return true
}

// closeLoop force-closes the topmost frame if it is the Loop matching
// start, used when a backward unconditional jump targeting start is
// observed. cond, if non-nil, is the guard discovered at the loop tail. By
// the time the closing jump is reached every scope nested inside the loop
// body has already closed via closeThrough, so the Loop frame is expected
// to already be the stack top.
func (s *scopeStack) closeLoop(start int, cond Expr) bool {
	top := s.top()
	if top.kind != scopeLoop || top.loopStart != start {
		return false
	}
	top.cond = cond
	s.closeTop()
	return true
}

// root returns the statements accumulated directly in the root scope. It
// is only meaningful once every opened scope has closed.
func (s *scopeStack) root() []Stmt { return s.frames[0].body }

// depth reports how many scopes remain open, for the malformed-function
// check at function return (root scope does not count).
func (s *scopeStack) depth() int { return len(s.frames) - 1 }
