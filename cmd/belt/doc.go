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

// The belt command line tool assembles, disassembles and runs programs for
// the belt machine implemented in package github.com/db47h/belt/vm.
//
// Usage:
//
//	belt [flags] source.s
//	belt [flags] -image file.img
//
//	-ast
//		  print the parsed program
//	-debug
//		  enable debug diagnostics
//	-disasm
//		  print a disassembly of the program
//	-dump
//		  dump the machine state upon exit
//	-image filename
//		  load memory image from file filename instead of assembling a source file
//	-max-steps n
//		  stop after n instructions, 0 for no limit (default 1048576)
//	-noraw
//		  disable raw terminal IO in step mode
//	-o filename
//		  write the assembled memory image to filename
//	-run
//		  run the program
//	-step
//		  run the program one instruction at a time
//
// With no -o, -disasm, -ast or -step flag, the program is run.
//
// -debug: logs every executed instruction and prints a full stacktrace on
// errors.
//
// -step: before each instruction, prints its address, its disassembly and the
// most recent belt values, then waits for a key press. 'q' quits, 'c' runs
// the rest of the program without stopping and any other key executes the
// instruction. Unless -noraw is given, the terminal is switched to raw mode so
// that there is no need to press enter.
//
// -dump: prints the registers, belt, top of the stack and labels as tables
// once the machine stops.
//
// -o: the memory image is a flat sequence of little endian 16 bits words. It
// can be run later with -image.
//
// Environment:
//
//	BELT_MAX_STEPS	default value for -max-steps
//	BELT_LOG_LEVEL	log level: debug, info, warn or error (default info)
//	BELT_NORAW	default value for -noraw
//
// Exit status is 0 when the program stops on a break or an invalid
// instruction, 2 on a machine fault such as a division by zero and 1 on any
// other error.
package main
