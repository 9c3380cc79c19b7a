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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/db47h/belt/asm"
	"github.com/db47h/belt/vm"
)

func newMachine(t *testing.T, code string) *vm.Machine {
	t.Helper()
	img, err := asm.Assemble("test", strings.NewReader(code))
	if err != nil {
		t.Fatal(err)
	}
	m, err := vm.New(vm.Program(img))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestStepMachine(t *testing.T) {
	const code = "lc 5\nlc 7\nadd b0 b1\nlc 0\ndiv b1 b0"
	for _, tc := range []struct {
		name   string
		keys   string
		steps  int64
		status vm.Status
		fault  bool
	}{
		{"quit", "q", 0, vm.Continue, false},
		{"step then quit", "  \r\nq", 3, vm.Continue, false},
		{"continue", " c", 5, vm.Fail, true},
		{"end of input", "", 5, vm.Fail, true},
		{"fault", "     ", 5, vm.Fail, true},
	} {
		m := newMachine(t, code)
		var out bytes.Buffer
		r, err := stepMachine(context.Background(), m, strings.NewReader(tc.keys), &out, 100)
		if r.Status != tc.status {
			t.Errorf("%s: got %v, want %v", tc.name, r, tc.status)
		}
		if errors.Is(err, vm.ErrFault) != tc.fault {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if m.InstructionCount() != tc.steps {
			t.Errorf("%s: got %d steps, want %d", tc.name, m.InstructionCount(), tc.steps)
		}
		if !strings.HasPrefix(out.String(), "0x0000\tlc 0x0005\t[0 0 0 0 0 0 0 0]\n") {
			t.Errorf("%s: unexpected output %q", tc.name, out.String())
		}
	}
}

func TestStepMachine_limits(t *testing.T) {
	m := newMachine(t, "loop:\njump loop")
	_, err := stepMachine(context.Background(), m, strings.NewReader("   "), &bytes.Buffer{}, 2)
	if !errors.Is(err, vm.ErrStepLimit) {
		t.Errorf("got %v, want a step limit error", err)
	}

	m = newMachine(t, "loop:\njump loop")
	_, err = stepMachine(context.Background(), m, strings.NewReader("c"), &bytes.Buffer{}, 10)
	if !errors.Is(err, vm.ErrStepLimit) || m.InstructionCount() != 10 {
		t.Errorf("got %v after %d steps", err, m.InstructionCount())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = stepMachine(ctx, m, strings.NewReader(""), &bytes.Buffer{}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want %v", err, context.Canceled)
	}
}

func TestDumpMachine(t *testing.T) {
	m := newMachine(t, "lc back\npush b0\nlc 12\nbreak\nback:")
	if _, err := m.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := dumpMachine(&out, m, map[string]uint16{"back": 6}); err != nil {
		t.Fatal(err)
	}
	dump := strings.ToLower(out.String())
	for _, s := range []string{"registers", "belt", "stack", "labels", "0x000c", "0xfffe", "back", "break"} {
		if !strings.Contains(dump, s) {
			t.Errorf("%q not found in dump:\n%s", s, out.String())
		}
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestDumpOrLog(t *testing.T) {
	m := newMachine(t, "break")
	core, logs := observer.New(zapcore.ErrorLevel)
	dumpOrLog(zap.New(core), failWriter{}, m, nil)
	entries := logs.FilterMessage("machine dump failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if err, ok := entries[0].ContextMap()["error"].(string); !ok || !strings.Contains(err, "disk full") {
		t.Errorf("got error field %v", entries[0].ContextMap()["error"])
	}

	var out bytes.Buffer
	dumpOrLog(zap.New(core), &out, m, nil)
	if logs.Len() != 1 || out.Len() == 0 {
		t.Errorf("got %d log entries and %d bytes of dump", logs.Len(), out.Len())
	}
}

func TestExitCode(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{errors.New("boom"), exitError},
		{errors.Wrap(vm.ErrFault, "@pc=2"), exitFault},
		{errors.Wrap(vm.ErrStepLimit, "10 steps"), exitError},
	} {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("%v: got %d, want %d", tc.err, got, tc.want)
		}
	}
}
