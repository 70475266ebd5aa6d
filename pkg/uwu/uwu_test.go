package uwu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUwuifyWordReplacements(t *testing.T) {
	out := Uwuify("what a cute idiot", Options{Rand: rand.New(rand.NewSource(1))})
	assert.Contains(t, out, "nani")
	assert.Contains(t, out, "kawaii~")
	assert.Contains(t, out, "baka")
}

func TestUwuifyCharReplacement(t *testing.T) {
	out := Uwuify("hello world", Options{Rand: rand.New(rand.NewSource(1))})
	assert.NotContains(t, out, "l")
	assert.NotContains(t, out, "r")
}

func TestUwuifyNya(t *testing.T) {
	out := Uwuify("nat", Options{Rand: rand.New(rand.NewSource(1))})
	assert.Equal(t, "nyat", out)
}

func TestUwuifyStutterAlways(t *testing.T) {
	out := Uwuify("a b", Options{StutterStrength: 1, Rand: rand.New(rand.NewSource(1))})
	assert.Equal(t, "a b-b", out)
}
