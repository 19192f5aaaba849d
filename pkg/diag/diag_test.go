package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := Writer{W: &buf}

	sink.Info("fit start", "pipe", "standardize", "rows", 3)
	sink.Error("fit failed", "pipe", "standardize")

	assert.Equal(t,
		"INFO fit start pipe=standardize rows=3\n"+
			"ERROR fit failed pipe=standardize\n",
		buf.String())
}

func TestWriterOddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	Writer{W: &buf}.Info("msg", "dangling")
	assert.Equal(t, "INFO msg\n", buf.String())
}

func TestNopDiscards(t *testing.T) {
	var s Sink = Nop{}
	s.Info("anything", "k", "v")
	s.Error("anything")
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
