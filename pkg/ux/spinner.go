// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// spinnerStyle is the bubbles frame set drawn by Spinner.
var spinnerStyle = spinner.Dot

// Spinner is an animated indicator drawn on stderr while a blocking call
// runs. It only animates when stderr is a terminal; otherwise Start is
// silent and only the final status line is printed.
type Spinner struct {
	message   string
	stop      chan struct{}
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	animating bool
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	message := s.message
	s.mu.Unlock()

	if GetPersonality().Level == PersonalityMachine {
		outf("PROGRESS: %s\n", message)
		return
	}

	w := Stderr()
	if !canAnimate(w) {
		return
	}

	style := spinnerStyle

	s.mu.Lock()
	s.animating = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(style.FPS)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.stop:
				fmt.Fprint(w, "\r\033[K")
				close(s.done)
				return
			case <-ticker.C:
				s.mu.Lock()
				msg := s.message
				s.mu.Unlock()
				fmt.Fprintf(w, "\r%s %s", Styles.Highlight.Render(style.Frames[frame]), msg)
				frame = (frame + 1) % len(style.Frames)
			}
		}
	}()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	animating := s.animating
	s.animating = false
	s.mu.Unlock()

	if !animating {
		return
	}
	close(s.stop)
	<-s.done
}

// UpdateMessage changes the message while running.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// StopWithSuccess stops and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	Success(message)
}

// StopWithError stops and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	Error(message)
}

func canAnimate(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
