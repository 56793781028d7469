package internal

import (
	"iter"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]string{"A": "1"})
	b := maps.All(map[string]string{"B": "2", "C": "3"})

	all := maps.Collect(IterSeq2Concat(a, b))
	assert.Equal(map[string]string{"A": "1", "B": "2", "C": "3"}, all)

	// Later sequences win on collect.
	c := maps.All(map[string]string{"A": "9"})
	assert.Equal("9", maps.Collect(IterSeq2Concat(a, c))["A"])

	// Early stop.
	var keys []string
	for key := range IterSeq2Concat(a, b) {
		keys = append(keys, key)
		break
	}
	assert.Len(keys, 1)

	var empty iter.Seq2[string, string] = IterSeq2Concat[string, string]()
	assert.Empty(maps.Collect(empty))
}
