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
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/tebeka/atexit"
	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/db47h/belt/asm"
	"github.com/db47h/belt/vm"
)

// exit codes
const (
	exitOK = iota
	exitError
	exitFault
)

var (
	outFileName string
	imageFile   string
	doRun       bool
	doStep      bool
	doDisasm    bool
	showAST     bool
	dump        bool
	debug       bool
	noRawIO     bool
	maxSteps    int64
)

func setupLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		&zapcore.BufferedWriteSyncer{WS: os.Stderr, FlushInterval: time.Second},
		level,
	))
}

// load returns the program to run, either assembled from the source file
// given on the command line or loaded from an image file. labels is nil for
// images.
func load(logger *zap.Logger, args []string) (img []uint16, labels map[string]uint16, err error) {
	if imageFile != "" {
		if len(args) > 0 {
			return nil, nil, errors.New("no source file expected with -image")
		}
		img, err = vm.Load(imageFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("image loaded", zap.String("file", imageFile), zap.Int("words", len(img)))
		return img, nil, nil
	}

	if len(args) != 1 {
		return nil, nil, errors.New("expected exactly one source file")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	prog, err := asm.Parse(args[0], f)
	if err != nil {
		return nil, nil, err
	}
	if showAST {
		pp.Println(prog)
	}
	img, labels, err = asm.Link(prog)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("assembled", zap.String("file", args[0]), zap.Int("words", len(img)), zap.Int("labels", len(labels)))
	return img, labels, nil
}

func runMachine(ctx context.Context, logger *zap.Logger, img []uint16, labels map[string]uint16) error {
	opts := []vm.Option{vm.Program(img)}
	if debug {
		opts = append(opts, vm.Trace(vm.LogTracer(logger)))
	}
	m, err := vm.New(opts...)
	if err != nil {
		return err
	}
	if dump {
		defer dumpOrLog(logger, os.Stdout, m, labels)
	}

	start := time.Now()
	var r vm.Result
	if doStep {
		if !noRawIO {
			if tearDown, err := setRawIO(); err == nil {
				atexit.Register(tearDown)
				defer tearDown()
			} else {
				logger.Debug("raw terminal IO unavailable", zap.Error(err))
			}
		}
		r, err = stepMachine(ctx, m, os.Stdin, os.Stdout, maxSteps)
	} else {
		r, err = m.Run(ctx, maxSteps)
	}
	logger.Info("machine stopped",
		zap.Stringer("result", r),
		zap.Uint16("pc", m.PC),
		zap.Int64("steps", m.InstructionCount()),
		zap.Duration("elapsed", time.Since(start)))
	return err
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, vm.ErrFault):
		return exitFault
	}
	return exitError
}

func main() {
	flag.StringVar(&outFileName, "o", "", "write the assembled memory image to `filename`")
	flag.StringVar(&imageFile, "image", "", "load memory image from file `filename` instead of assembling a source file")
	flag.BoolVar(&doRun, "run", false, "run the program")
	flag.BoolVar(&doStep, "step", false, "run the program one instruction at a time")
	flag.BoolVar(&doDisasm, "disasm", false, "print a disassembly of the program")
	flag.BoolVar(&showAST, "ast", false, "print the parsed program")
	flag.BoolVar(&dump, "dump", false, "dump the machine state upon exit")
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")
	flag.BoolVar(&noRawIO, "noraw", enve.BoolOr("BELT_NORAW", false), "disable raw terminal IO in step mode")
	flag.Int64Var(&maxSteps, "max-steps", int64(enve.IntOr("BELT_MAX_STEPS", 1<<20)), "stop after `n` instructions, 0 for no limit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] source.s\n       %s [flags] -image file.img\n\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := enve.FromTextOr[zapcore.Level]("BELT_LOG_LEVEL", zapcore.InfoLevel)
	if debug {
		level = zapcore.DebugLevel
	}
	logger := setupLogger(level).With(zap.String("run", uuid.New().String()))
	atexit.Register(func() { logger.Sync() })

	// with no action selected, run the program
	if outFileName == "" && !doDisasm && !showAST && !doStep {
		doRun = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := func() error {
		defer stop()
		img, labels, err := load(logger, flag.Args())
		if err != nil {
			return err
		}
		if outFileName != "" {
			if err = vm.Save(outFileName, img); err != nil {
				return err
			}
			logger.Info("image saved", zap.String("file", outFileName))
		}
		if doDisasm {
			if err = asm.DisassembleAll(img, 0, os.Stdout); err != nil {
				return err
			}
		}
		if doRun || doStep {
			return runMachine(ctx, logger, img, labels)
		}
		return nil
	}()

	if err != nil {
		if debug {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
	atexit.Exit(exitCode(err))
}
