package dsl

import "github.com/aretw0/delta/pkg/action"

// Block provides a fluent API for appending actions to a block.
type Block struct {
	target action.Block
}

// Input declares an input with its default expression.
func (b *Block) Input(name, def string) *Block {
	b.target.Append(action.NewInput(name, def))
	return b
}

// Set assigns the value of an expression to a variable.
func (b *Block) Set(name, value string) *Block {
	b.target.Append(action.NewSet(name, value))
	return b
}

// Print outputs the value of an expression.
func (b *Block) Print(text string) *Block {
	b.target.Append(action.NewPrint(text))
	return b
}

// If appends a conditional. then receives the then-branch block.
func (b *Block) If(condition string, then func(*Block)) *IfBlock {
	a := action.NewIf(condition)
	b.target.Append(a)
	if then != nil {
		then(&Block{target: a})
	}
	return &IfBlock{Block: b, node: a}
}

// While appends a loop running body while condition holds.
func (b *Block) While(condition string, body func(*Block)) *Block {
	a := action.NewWhile(condition)
	b.target.Append(a)
	if body != nil {
		body(&Block{target: a})
	}
	return b
}

// For appends a loop running body once per element of list.
func (b *Block) For(variable, list string, body func(*Block)) *Block {
	a := action.NewFor(variable, list)
	b.target.Append(a)
	if body != nil {
		body(&Block{target: a})
	}
	return b
}

// IfBlock is returned by If so that an else branch can be attached. It also
// continues the enclosing block.
type IfBlock struct {
	*Block
	node *action.If
}

// Else attaches the alternative branch and returns the enclosing block.
func (i *IfBlock) Else(body func(*Block)) *Block {
	e := action.NewElse()
	i.node.Else = e
	if body != nil {
		body(&Block{target: e})
	}
	return i.Block
}
