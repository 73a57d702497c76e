package interaction

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when interactive input needs a terminal
var ErrNotTerminal = errors.New("stdin is not a terminal")

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyHome
	KeyEnd
)

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyboardReader delivers key presses from a terminal in raw mode
type KeyboardReader struct {
	in       io.Reader
	events   chan KeyEvent
	stop     chan struct{}
	once     sync.Once
	restorer func() error
}

// NewKeyboardReader puts stdin into raw mode and starts reading keys
func NewKeyboardReader() (*KeyboardReader, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	restore, err := enableRawMode(fd)
	if err != nil {
		return nil, err
	}

	kr := newReader(os.Stdin)
	kr.restorer = restore
	go kr.readInput()
	return kr, nil
}

// NewReaderFrom reads keys from an arbitrary stream without touching terminal modes
func NewReaderFrom(in io.Reader) *KeyboardReader {
	kr := newReader(in)
	go kr.readInput()
	return kr
}

func newReader(in io.Reader) *KeyboardReader {
	return &KeyboardReader{
		in:     in,
		events: make(chan KeyEvent, 10),
		stop:   make(chan struct{}),
	}
}

func (kr *KeyboardReader) readInput() {
	defer close(kr.events)
	buf := make([]byte, 8)

	for {
		n, err := kr.in.Read(buf)
		if n > 0 {
			for _, event := range parseInput(buf[:n]) {
				select {
				case kr.events <- event:
				case <-kr.stop:
					return
				}
			}
		}
		if err != nil {
			return
		}
		select {
		case <-kr.stop:
			return
		default:
		}
	}
}

// parseInput splits one read into key events. Escape sequences for arrows,
// Home and End are recognized; unknown sequences are dropped.
func parseInput(buf []byte) []KeyEvent {
	var events []KeyEvent
	for i := 0; i < len(buf); {
		if buf[i] != 27 {
			events = append(events, KeyEvent{Key: rune(buf[i]), Type: KeyChar})
			i++
			continue
		}

		if i+1 >= len(buf) || (buf[i+1] != '[' && buf[i+1] != 'O') {
			events = append(events, KeyEvent{Key: 27, Type: KeyEscape})
			i++
			continue
		}

		if i+2 >= len(buf) {
			return events
		}
		switch buf[i+2] {
		case 'D':
			events = append(events, KeyEvent{Type: KeyArrowLeft})
		case 'C':
			events = append(events, KeyEvent{Type: KeyArrowRight})
		case 'A':
			events = append(events, KeyEvent{Type: KeyArrowUp})
		case 'B':
			events = append(events, KeyEvent{Type: KeyArrowDown})
		case 'H':
			events = append(events, KeyEvent{Type: KeyHome})
		case 'F':
			events = append(events, KeyEvent{Type: KeyEnd})
		case '1', '4':
			// ESC [ 1 ~ and ESC [ 4 ~
			if i+3 < len(buf) && buf[i+3] == '~' {
				if buf[i+2] == '1' {
					events = append(events, KeyEvent{Type: KeyHome})
				} else {
					events = append(events, KeyEvent{Type: KeyEnd})
				}
				i += 4
				continue
			}
		}
		i += 3
	}
	return events
}

// Events returns the key event channel. It is closed when input ends.
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.events
}

// Close stops delivering events and restores the terminal
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		if kr.restorer != nil {
			err = kr.restorer()
		}
	})
	return err
}
