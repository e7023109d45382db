// Package staticmethod finds instance methods that can be declared static
// without changing behavior and adds the static modifier to them.
//
// A method of the target class is eligible when neither it nor any
// non-static sibling it calls touches instance state or the superclass.
// Resolution is by name: a local or parameter that shares its name with an
// instance field blocks promotion just like the field itself.
package staticmethod

import (
	"log/slog"
	"martianoff/staticify/internal/tree"
)

// Reason explains a verdict.
type Reason string

const (
	ReasonEligible        Reason = "eligible"
	ReasonStatic          Reason = "static"
	ReasonConstructor     Reason = "constructor"
	ReasonOverride        Reason = "override"
	ReasonAbstract        Reason = "abstract"
	ReasonNoBody          Reason = "no-body"
	ReasonInterface       Reason = "interface"
	ReasonInnerClass      Reason = "inner-class"
	ReasonInstanceState   Reason = "instance-state"
	ReasonSuper           Reason = "super"
	ReasonCallsIneligible Reason = "calls-ineligible"
)

// Verdict is the decision for one declared method.
type Verdict struct {
	Method   *tree.MethodDecl
	Name     string
	Eligible bool
	Reason   Reason
	// Pass is the closure pass that resolved the method; 0 for methods that
	// were never candidates.
	Pass int
}

// Result holds the verdicts for one analyzed class, in declaration order.
type Result struct {
	Class    string
	Scope    *ClassScope
	Verdicts []Verdict
	Passes   int
}

// Eligible returns the methods that should become static.
func (r *Result) Eligible() []*tree.MethodDecl {
	var out []*tree.MethodDecl
	for _, v := range r.Verdicts {
		if v.Eligible {
			out = append(out, v.Method)
		}
	}
	return out
}

// Analyze decides, for every class in cu whose qualified name matches fqn,
// which of its methods can become static. Classes that do not match are
// never analyzed. A unit without a matching class yields no results.
func Analyze(cu *tree.CompilationUnit, fqn string, opts ...Option) []*Result {
	o := defaultOptions()
	Options(opts).apply(o)

	var results []*Result
	for _, c := range tree.Classes(cu) {
		if !tree.QualifiedNameMatches(c, fqn) {
			continue
		}
		scope := outerScope(cu, c)
		if scope == nil {
			scope = BuildScope(c)
		}
		results = append(results, newEngine(scope, o).run())
	}
	return results
}

// outerScope builds the scope tree from the top-level class enclosing target
// so that the Inner flag of a member class is known.
func outerScope(cu *tree.CompilationUnit, target *tree.ClassDecl) *ClassScope {
	for _, n := range cu.Nodes {
		top, ok := n.(*tree.ClassDecl)
		if !ok {
			continue
		}
		if s := BuildScope(top).Lookup(target.FullyQualifiedName); s != nil && s.Decl == target {
			return s
		}
	}
	return nil
}

type engine struct {
	scope      *ClassScope
	opts       *analyzeOptions
	log        *slog.Logger
	candidates []*MethodRecord
}

func newEngine(scope *ClassScope, opts *analyzeOptions) *engine {
	return &engine{
		scope: scope,
		opts:  opts,
		log:   opts.log.With("class", scope.QualifiedName),
	}
}

func (e *engine) run() *Result {
	res := &Result{Class: e.scope.QualifiedName, Scope: e.scope}

	for _, rec := range e.scope.Methods {
		if reason, excluded := e.exclusion(rec); excluded {
			rec.state = resolved
			rec.verdict = Verdict{Method: rec.Decl, Name: rec.Name, Reason: reason}
			e.log.Debug("not a candidate", "method", rec.Name, "reason", reason)
			continue
		}
		e.candidates = append(e.candidates, rec)
	}

	walker := &usageWalker{scope: e.scope, classify: e.classify, log: e.log}
	pass := 0
	for {
		pass++
		changed := false
		for _, rec := range e.candidates {
			if rec.state == resolved {
				continue
			}
			rec.state = visiting
			u := walker.walkMethod(rec)
			rec.state = unvisited

			switch {
			case u.usesInstanceField:
				e.resolve(rec, false, ReasonInstanceState, pass)
			case u.usesSuper:
				e.resolve(rec, false, ReasonSuper, pass)
			case u.usesIneligibleMethod:
				e.resolve(rec, false, ReasonCallsIneligible, pass)
			case len(u.pendingCalls) == 0:
				e.resolve(rec, true, ReasonEligible, pass)
			default:
				continue
			}
			changed = true
		}
		e.log.Debug("closure pass", "pass", pass, "changed", changed)
		if !changed {
			break
		}
	}

	// Whatever is still unresolved only calls other unresolved candidates,
	// none of which touches instance state: the whole group is eligible.
	for _, rec := range e.candidates {
		if rec.state != resolved {
			e.resolve(rec, true, ReasonEligible, pass)
		}
	}

	res.Passes = pass
	for _, rec := range e.scope.Methods {
		res.Verdicts = append(res.Verdicts, rec.verdict)
	}
	return res
}

// exclusion reports why rec can never become static, if so.
func (e *engine) exclusion(rec *MethodRecord) (Reason, bool) {
	switch {
	case rec.IsStatic:
		return ReasonStatic, true
	case rec.IsConstructor:
		return ReasonConstructor, true
	case rec.IsOverride:
		return ReasonOverride, true
	case rec.IsAbstract:
		return ReasonAbstract, true
	case rec.Decl.Body == nil:
		return ReasonNoBody, true
	case e.scope.Kind == tree.KindInterface || e.scope.Kind == tree.KindAnnotation:
		return ReasonInterface, true
	case e.scope.Inner && !innerStaticMembers.Check(e.opts.release):
		return ReasonInnerClass, true
	}
	return "", false
}

func (e *engine) resolve(rec *MethodRecord, eligible bool, reason Reason, pass int) {
	rec.state = resolved
	rec.verdict = Verdict{Method: rec.Decl, Name: rec.Name, Eligible: eligible, Reason: reason, Pass: pass}
	if eligible {
		e.scope.markStatic(rec.Name)
	}
	e.log.Debug("resolved", "method", rec.Name, "eligible", eligible, "reason", reason, "pass", pass)
}

// classify decides whether a reference from caller to the non-static method
// name blocks promotion. Overloads share a name, so every non-static method
// with that name is considered.
func (e *engine) classify(name string, caller *MethodRecord) calleeKind {
	kind := calleeSelf
	for _, rec := range e.scope.Methods {
		if rec.Name != name || rec.IsStatic || rec.IsConstructor {
			continue
		}
		switch {
		case rec.state == resolved && rec.verdict.Eligible:
		case rec.state == resolved:
			return calleeBlocking
		case rec != caller:
			kind = calleePending
		}
	}
	return kind
}
