package tree

import (
	"bytes"
	"encoding/json"
)

// NullTree is the serialized form of an empty tree.
const NullTree = "Null"

// rbNodeDoc fixes the field order of the serialized node.
type rbNodeDoc[T any] struct {
	Value     T             `json:"value"`
	Color     string        `json:"color"`
	LeftCount *int64        `json:"leftCount,omitempty"`
	Left      *rbNodeDoc[T] `json:"left"`
	Right     *rbNodeDoc[T] `json:"right"`
}

func (node *rbNode[T]) doc(indexed bool) *rbNodeDoc[T] {
	if node == nil {
		return nil
	}
	d := &rbNodeDoc[T]{
		Value: node.val,
		Color: node.color.String(),
		Left:  node.left.doc(indexed),
		Right: node.right.doc(indexed),
	}
	if indexed {
		lc := node.leftCount
		d.LeftCount = &lc
	}
	return d
}

// Serialize dumps the tree shape as nested JSON objects.
//
//	{
//	    "value": 3,
//	    "color": "black",
//	    "leftCount": 3,
//	    "left": {...},
//	    "right": null
//	}
//
// leftCount only appears for the indexed variant. The pretty form is
// indented by 4 spaces, the compact form has no whitespace.
func (tree *rbTree[T]) Serialize(compact bool) (string, error) {
	if tree.root == nil {
		return NullTree, nil
	}

	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(tree.root.doc(tree.indexed)); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
