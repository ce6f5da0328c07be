package smt

// Key identifies the entity attribute slot that owns a Variable.
// Node-owned variables set Node; channel-owned variables set From and To.
// Result projection works off this key directly, so entity identity never
// has to be recovered by splitting the rendered variable name.
type Key struct {
	Node string
	From string
	To   string
	Attr string
}

// IsChannel reports whether the key belongs to a channel attribute.
func (k Key) IsChannel() bool {
	return k.Node == ""
}

// Name renders the wire name used in formulas and solver models:
// "<node>_<attr>" for node variables, "<from>_<to>_<attr>" for channels.
// Entity names must not contain the underscore separator; the validation
// layer enforces that at creation time.
func (k Key) Name() string {
	if k.IsChannel() {
		return k.From + "_" + k.To + "_" + k.Attr
	}
	return k.Node + "_" + k.Attr
}

// Variable is an opaque real-valued unknown. The decision procedure
// resolves every variable to a closed interval, or proves the whole
// formula unsatisfiable.
type Variable struct {
	key Key
}

// NodeVar allocates a variable owned by a node (port or junction) attribute.
func NodeVar(node, attr string) Variable {
	return Variable{key: Key{Node: node, Attr: attr}}
}

// ChannelVar allocates a variable owned by a channel attribute.
func ChannelVar(from, to, attr string) Variable {
	return Variable{key: Key{From: from, To: to, Attr: attr}}
}

// Key returns the structured owner key.
func (v Variable) Key() Key {
	return v.key
}

// Name returns the rendered wire name.
func (v Variable) Name() string {
	return v.key.Name()
}

// Zero reports whether the variable was never allocated.
func (v Variable) Zero() bool {
	return v.key == Key{}
}
