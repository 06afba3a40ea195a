package hashing_test

import (
	"testing"

	"github.com/speclint/speclint/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustParse(t *testing.T, doc string) *yaml.Node {
	t.Helper()
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &root))
	return root.Content[0]
}

func TestHash_SameContentSameHash(t *testing.T) {
	a := mustParse(t, "name: Widget\nprice: 9\n")
	b := mustParse(t, "name: Widget\nprice: 9\n")

	assert.Equal(t, hashing.Hash(a), hashing.Hash(b))
}

func TestHash_DifferentContentDifferentHash(t *testing.T) {
	a := mustParse(t, "name: Widget\n")
	b := mustParse(t, "name: Gadget\n")

	assert.NotEqual(t, hashing.Hash(a), hashing.Hash(b))
}

func TestHash_IgnoresLineAndColumn(t *testing.T) {
	a := mustParse(t, "name: Widget\nprice: 9\n")
	b := mustParse(t, "\n\n   name: Widget\n   price: 9\n")

	assert.Equal(t, hashing.Hash(a), hashing.Hash(b))
}

func TestHash_MapKeyOrderIsDeterministic(t *testing.T) {
	m1 := map[string]int{"a": 1, "b": 2, "c": 3}
	m2 := map[string]int{"c": 3, "b": 2, "a": 1}

	assert.Equal(t, hashing.Hash(m1), hashing.Hash(m2))
}

func TestHash_NilIsStable(t *testing.T) {
	assert.Equal(t, hashing.Hash(nil), hashing.Hash(nil))
}

func TestHash_SliceOrderMatters(t *testing.T) {
	a := []string{"x", "y"}
	b := []string{"y", "x"}

	assert.NotEqual(t, hashing.Hash(a), hashing.Hash(b))
}

func TestHash_IsFixedLengthHex(t *testing.T) {
	h := hashing.Hash(mustParse(t, "a: 1\n"))
	assert.Len(t, h, 16)
}
