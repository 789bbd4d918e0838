package mi

import "fmt"

// Visitor receives one call per node kind. Implementations that only care
// about some kinds embed BaseVisitor and override the rest.
type Visitor interface {
	VisitResultRecord(*ResultRecord)
	VisitAsyncRecord(*AsyncRecord)
	VisitStreamRecord(*StreamRecord)
	VisitResult(*Result)
	VisitCString(*CString)
	VisitList(*List)
	VisitTuple(*Tuple)
}

// BaseVisitor implements Visitor with no-op methods.
type BaseVisitor struct{}

func (BaseVisitor) VisitResultRecord(*ResultRecord) {}
func (BaseVisitor) VisitAsyncRecord(*AsyncRecord)   {}
func (BaseVisitor) VisitStreamRecord(*StreamRecord) {}
func (BaseVisitor) VisitResult(*Result)             {}
func (BaseVisitor) VisitCString(*CString)           {}
func (BaseVisitor) VisitList(*List)                 {}
func (BaseVisitor) VisitTuple(*Tuple)               {}

// Visit calls the method of v matching the concrete type of n. Visit does
// not descend; handlers call Visit on children themselves.
func Visit(v Visitor, n Node) {
	switch n := n.(type) {
	case *ResultRecord:
		v.VisitResultRecord(n)
	case *AsyncRecord:
		v.VisitAsyncRecord(n)
	case *StreamRecord:
		v.VisitStreamRecord(n)
	case *Result:
		v.VisitResult(n)
	case *CString:
		v.VisitCString(n)
	case *List:
		v.VisitList(n)
	case *Tuple:
		v.VisitTuple(n)
	default:
		// Node is sealed; reaching here means a node kind was added
		// without extending this switch.
		panic(fmt.Sprintf("mi: unexpected node type %T", n))
	}
}

// Inspect traverses the tree rooted at n depth-first, calling f for each
// node before its children. If f returns false the children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch n := n.(type) {
	case *ResultRecord:
		for _, r := range n.Results {
			Inspect(r, f)
		}
	case *AsyncRecord:
		for _, r := range n.Results {
			Inspect(r, f)
		}
	case *Result:
		Inspect(n.Value, f)
	case *List:
		for _, el := range n.Elements {
			Inspect(el, f)
		}
	case *Tuple:
		for _, r := range n.Results {
			Inspect(r, f)
		}
	}
}
