package expando

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RepadList_Idempotent(t *testing.T) {
	assert := assert.New(t)

	elements := []*Node{
		textNode("a"),
		textNode("b"),
		paddingNode(PadSoft, '.'),
		textNode("c"),
		textNode("d"),
	}

	once := repadList(elements)
	twice := repadList(once)

	require := func(ok bool) {
		if !ok {
			t.Fatalf("repadList is not idempotent")
		}
	}
	require(len(once) == len(twice))
	for i := range once {
		assert.True(once[i].Equal(twice[i]))
	}
}

func Test_RepadList_NoMarkers(t *testing.T) {
	assert := assert.New(t)

	elements := []*Node{textNode("a"), textNode("b")}
	out := repadList(elements)

	require := func(ok bool) {
		if !ok {
			t.Fatal("expected single grouped result")
		}
	}
	require(len(out) == 1)
	assert.Equal(KindContainer, out[0].Kind)
}

func Test_RepadList_MultipleEOL(t *testing.T) {
	assert := assert.New(t)

	elements := []*Node{
		textNode("a"),
		paddingNode(PadEOL, ' '),
		textNode("b"),
		paddingNode(PadEOL, ' '),
		textNode("c"),
	}
	out := repadList(elements)

	require := func(ok bool) {
		if !ok {
			t.Fatal("expected 5-element repadded chain")
		}
	}
	require(len(out) == 5)
	assert.Equal(KindPadding, out[1].Kind)
	assert.Equal(KindPadding, out[3].Kind)
}
