/*
Package action implements the executable action tree of a Delta algorithm and
its flat editor-line addressing.

An algorithm is a Root block of Actions. Blocks (If, Else, While, For) own an
ordered list of children; leaves (Set, Input, Print) hold plain text fields that
are parsed with the token package when they execute.

# Editor lines

Every action linearizes into EditorLinesCount() lines:

	leaf                 1
	if / while / for     1 header + children + 1 add line [+ else] + 1 end line
	else                 1 header + children + 1 add line
	root                 children + 1 add line

ActionAt maps a line index back to the action owning it and to the block an
insertion or deletion at that index must be applied to, so a host can edit the
tree by integer position only.
*/
package action
