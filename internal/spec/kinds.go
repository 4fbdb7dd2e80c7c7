// internal/spec/kinds.go
package spec

import (
	"jamplate/internal/tree"
)

// Kinds of the default dialect.
const (
	KindDocument = "document"
	KindText     = "text"

	KindQuoteDouble     = "quote:double"
	KindQuoteDoubleBody = "quote:double:body"
	KindQuoteSingle     = "quote:single"
	KindQuoteSingleBody = "quote:single:body"

	KindGroup     = "group"
	KindGroupBody = "group:body"

	KindBrackets     = "brackets"
	KindBracketsBody = "brackets:body"

	KindObject     = "object"
	KindObjectBody = "object:body"

	KindNumber    = "value:number"
	KindReference = "reference"

	KindSignPlus    = "sign:plus"
	KindSignMinus   = "sign:minus"
	KindSignStar    = "sign:star"
	KindSignSlash   = "sign:slash"
	KindSignPercent = "sign:percent"
	KindSignColon   = "sign:colon"
	KindSignComma   = "sign:comma"

	KindOpSum        = "operator:sum"
	KindOpDifference = "operator:difference"
	KindOpMinus      = "operator:minus"
	KindOpProduct    = "operator:product"
	KindOpQuotient   = "operator:quotient"
	KindOpRemainder  = "operator:remainder"
	KindOpPair       = "operator:pair"
	KindOpComma      = "operator:comma"

	KindCommandPrefix = "command:"
	KindCommandKey    = "command:key"
	KindParameter     = "command:parameter"
	KindRawParameter  = "command:parameter:raw"

	KindContextIf      = "context:if"
	KindContextFor     = "context:for"
	KindContextCapture = "context:capture"
)

// opaque reports kinds whose contents are never parsed further.
func opaque(t *tree.Tree) bool {
	switch t.Kind() {
	case KindQuoteDoubleBody, KindQuoteSingleBody:
		return true
	}
	return false
}

// exprKinds are the node kinds whose direct text is expression ground:
// literals, references and operator signs may appear there.
var exprKinds = map[string]bool{
	KindGroupBody:    true,
	KindBracketsBody: true,
	KindObjectBody:   true,
	KindParameter:    true,
}

// exprNode accepts nodes whose span is scanned for expression tokens in
// the template dialect.
func exprNode(t *tree.Tree) bool {
	return exprKinds[t.Kind()]
}

// anyNode accepts every node except opaque quote bodies; the arithmetic
// dialect treats the whole document as expression ground.
func anyNode(t *tree.Tree) bool {
	return !opaque(t)
}

// inExpression reports whether t sits inside expression ground, walking
// up until a context decides either way.
func inExpression(t *tree.Tree) bool {
	for p := t.Parent(); p != nil; p = p.Parent() {
		if exprKinds[p.Kind()] {
			return true
		}
		if p.Kind() == KindDocument || opaque(p) || p.Kind() == KindRawParameter {
			return false
		}
	}
	return false
}
