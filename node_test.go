package expando

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Node_Equal(t *testing.T) {
	assert := assert.New(t)

	a := containerNode([]*Node{textNode("x"), textNode("y")})
	b := containerNode([]*Node{textNode("x"), textNode("y")})
	c := containerNode([]*Node{textNode("x"), textNode("z")})

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}

func Test_Node_Free_Idempotent(t *testing.T) {
	n := containerNode([]*Node{textNode("x"), containerNode([]*Node{textNode("y")})})
	n.Free()
	assert.Nil(t, n.Children)
	n.Free() // must not panic on an already-freed node
}

func Test_Node_GetChild_ConditionSlots(t *testing.T) {
	assert := assert.New(t)

	cond := makeCondition(emptyNode(), []*Node{textNode("t")}, nil)
	assert.Equal(KindEmpty, cond.GetChild(SlotCondition).Kind)
	assert.NotNil(cond.GetChild(SlotTrue))
	assert.Nil(cond.GetChild(SlotFalse))
}

func Test_Node_String_Stable(t *testing.T) {
	assert := assert.New(t)

	n := textNode("hello")
	assert.Equal(n.String(), textNode("hello").String())
}
