package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterNew(t *testing.T) {
	in := []Article{{Link: "a"}, {Link: "b"}, {Link: "c"}, {Link: "d"}}
	out := FilterNew(in, linkSet{"b": true, "d": true})
	assert.Equal(t, []string{"a", "c"}, Links(out))
}

func TestFilterNew_AllSeen(t *testing.T) {
	in := []Article{{Link: "a"}, {Link: "b"}}
	assert.Empty(t, FilterNew(in, linkSet{"a": true, "b": true}))
}

func TestFilterNew_CollapsesRepeatedLinks(t *testing.T) {
	in := []Article{
		{Link: "a", Source: "WSJ"},
		{Link: "b", Source: "FT"},
		{Link: "a", Source: "HBR"},
	}
	out := FilterNew(in, linkSet{})
	assert.Equal(t, []string{"a", "b"}, Links(out))
	assert.Equal(t, "WSJ", out[0].Source)
}

func TestFilterNew_NilSet(t *testing.T) {
	in := []Article{{Link: "a"}}
	assert.Equal(t, in, FilterNew(in, nil))
}

func TestFilterNew_LinkIsTheIdentity(t *testing.T) {
	seen := linkSet{"https://x/1": true}
	in := []Article{{Link: "https://x/1", Title: "Updated headline", Summary: "new text"}}
	assert.Empty(t, FilterNew(in, seen))
}
