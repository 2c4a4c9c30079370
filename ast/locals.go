package ast

// DiscoverLocals returns the assignment targets in body that are not
// parameters, in first-occurrence pre-order.
func DiscoverLocals(params []Param, body Node) []string {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		seen[p.Name] = true
	}
	var names []string
	Walk(body, func(n Node) bool {
		if a, ok := n.(*Assign); ok && !seen[a.Target.Name] {
			seen[a.Target.Name] = true
			names = append(names, a.Target.Name)
		}
		return true
	})
	return names
}

// Locals is the frozen slot table of a function. Parameters occupy
// [0, NumParams) in declaration order and declared locals follow.
type Locals struct {
	index  map[string]uint32
	names  []string
	params int
}

// NewLocals freezes params followed by discovered into a slot table.
// Names already present keep their first slot.
func NewLocals(params []Param, discovered []string) *Locals {
	l := &Locals{
		index: make(map[string]uint32, len(params)+len(discovered)),
	}
	for _, p := range params {
		l.add(p.Name)
	}
	l.params = len(l.names)
	for _, name := range discovered {
		l.add(name)
	}
	return l
}

func (l *Locals) add(name string) {
	if _, ok := l.index[name]; ok {
		return
	}
	l.index[name] = uint32(len(l.names))
	l.names = append(l.names, name)
}

// Index returns the slot of name.
func (l *Locals) Index(name string) (uint32, bool) {
	idx, ok := l.index[name]
	return idx, ok
}

// Names returns all slot names in index order.
func (l *Locals) Names() []string {
	return append([]string(nil), l.names...)
}

// Declared returns the names of the non-parameter slots.
func (l *Locals) Declared() []string {
	return append([]string(nil), l.names[l.params:]...)
}

// Len returns the total number of slots.
func (l *Locals) Len() int {
	return len(l.names)
}

// NumParams returns the number of parameter slots.
func (l *Locals) NumParams() int {
	return l.params
}
