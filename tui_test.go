package ordo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerWrapsAround(t *testing.T) {
	s := newSpinner()
	first := s.View()
	for i := 0; i < len(s.frames); i++ {
		s.tick()
	}
	assert.Equal(t, first, s.View())
}

func TestProgressPlainMode(t *testing.T) {
	p := NewProgress(true)
	p.Start("Moving files")
	p.Update(1, 2)
	p.Update(2, 2)
	p.Stop("")

	assert.Equal(t, 2, p.cur)
	assert.Equal(t, 2, p.total)
}
