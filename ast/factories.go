package ast

// Columns builds qualified column nodes for a single table.
func Columns(table string, names ...string) []Node {
	nodes := make([]Node, len(names))
	for i, name := range names {
		nodes[i] = NewColumn(table, name, "")
	}
	return nodes
}

func AllColumns(table string) []Node {
	return []Node{NewColumn(table, "*", "")}
}
