package ordo

import (
	"fmt"
	"sync"
	"time"
)

type spinner struct {
	frames []string
	index  int
}

func newSpinner() spinner { return spinner{frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}} }
func (s *spinner) tick()  { s.index = (s.index + 1) % len(s.frames) }

func (s spinner) View() string { return s.frames[s.index] }

// Progress animates long-running phases on the terminal. With animation
// disabled it degrades to plain line output suitable for pipes.
type Progress struct {
	noAnimation bool
	spinner     spinner
	mu          sync.Mutex
	label       string
	cur, total  int
	done        chan struct{}
	wg          sync.WaitGroup
}

func NewProgress(noAnimation bool) *Progress {
	return &Progress{noAnimation: noAnimation, spinner: newSpinner()}
}

// Start opens a phase. Every phase must be closed with Stop before the
// next one starts.
func (p *Progress) Start(label string) {
	p.mu.Lock()
	p.label = label
	p.cur, p.total = 0, 0
	p.mu.Unlock()

	if p.noAnimation {
		fmt.Println(label + "...")
		return
	}

	p.done = make(chan struct{})
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-p.done:
				return
			case <-time.After(100 * time.Millisecond):
				p.spinner.tick()
				p.render()
			}
		}
	}()
}

func (p *Progress) render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 {
		fmt.Printf("\r%s %s %d/%d\x1b[K", p.spinner.View(), p.label, p.cur, p.total)
		return
	}
	fmt.Printf("\r%s %s\x1b[K", p.spinner.View(), p.label)
}

// Update records progress within the current phase.
func (p *Progress) Update(cur, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur, p.total = cur, total
}

// Stop closes the current phase. A non-empty result is printed on its
// own line once the spinner line has been cleared.
func (p *Progress) Stop(result string) {
	if !p.noAnimation && p.done != nil {
		close(p.done)
		p.wg.Wait()
		p.done = nil
		fmt.Print("\r\x1b[K")
	}
	if result != "" {
		fmt.Println(result)
	}
}
