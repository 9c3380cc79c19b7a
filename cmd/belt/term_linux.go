// This file is part of belt - https://github.com/db47h/belt
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// keyMode returns a copy of t set for unbuffered single key input without
// echo. Signals and output processing are left alone so that ^C still
// interrupts a stepping session.
func keyMode(t unix.Termios) unix.Termios {
	t.Iflag &^= unix.BRKINT | unix.ISTRIP | unix.IXON | unix.IXOFF
	t.Iflag |= unix.IGNBRK | unix.IGNPAR
	t.Lflag &^= unix.ICANON | unix.IEXTEN | unix.ECHO
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return t
}

// ttyState holds the terminal settings of fd as found before keyMode.
type ttyState struct {
	fd    uintptr
	saved unix.Termios
}

func grabTTY(fd uintptr) (*ttyState, error) {
	s := &ttyState{fd: fd}
	if err := termios.Tcgetattr(fd, &s.saved); err != nil {
		return nil, errors.Wrapf(err, "fd %d: get terminal attributes", fd)
	}
	raw := keyMode(s.saved)
	if err := termios.Tcsetattr(fd, termios.TCSANOW, &raw); err != nil {
		s.release()
		return nil, errors.Wrapf(err, "fd %d: set terminal attributes", fd)
	}
	return s, nil
}

func (s *ttyState) release() {
	termios.Tcsetattr(s.fd, termios.TCSANOW, &s.saved)
}

// setRawIO switches stdin to single key input. The returned function restores
// the previous settings. The higher level functions of the term package
// cannot be used since they do not work on an already open file descriptor.
func setRawIO() (func(), error) {
	s, err := grabTTY(os.Stdin.Fd())
	if err != nil {
		return nil, err
	}
	return s.release, nil
}
