package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

// Two inverted 125ms phases within the first 500ms.
func TestFlashInverted(t *testing.T) {
	inverted := map[int64]bool{
		-1:   false,
		0:    false,
		124:  false,
		125:  true,
		249:  true,
		250:  false,
		374:  false,
		375:  true,
		499:  true,
		500:  false,
		1000: false,
	}
	for elapsed, want := range inverted {
		if got := flashInverted(elapsed); got != want {
			t.Errorf("flashInverted(%d) = %v, want %v", elapsed, got, want)
		}
	}
}

func TestFlashes(t *testing.T) {
	for msgType, want := range map[MessageType]bool{
		MsgInfo:    false,
		MsgError:   true,
		MsgSuccess: true,
	} {
		if got := flashes(msgType); got != want {
			t.Errorf("flashes(%v) = %v, want %v", msgType, got, want)
		}
	}
}

func TestResetMessageFlashesInStatusBar(t *testing.T) {
	s := newTestSim(t)
	s.showMessage("Position reset", MsgSuccess)
	s.messageFlashStart -= 187

	s.draw()
	s.screen.Show()

	w, h := s.screen.Size()
	x := w - len("Position reset") - 2
	r, _, style, _ := s.screen.GetContent(x, h-1)
	if r != 'P' {
		t.Fatalf("status bar at %d = %q, want message", x, r)
	}
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("message should be reversed during an inverted phase")
	}
}
