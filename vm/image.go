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

package vm

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Memory images are a flat sequence of little endian 16 bits words, loaded at
// address 0.

func errTooLarge(n int) error {
	return errors.Errorf("%d words do not fit in %d words of memory", n, MemSize)
}

// ReadImage reads a memory image from r. The image may be shorter than
// MemSize words. A trailing odd byte is an error.
func ReadImage(r io.Reader) ([]uint16, error) {
	var (
		b     [2]byte
		words []uint16
	)
	br := bufio.NewReader(r)
	for {
		_, err := io.ReadFull(br, b[:])
		if err == io.EOF {
			return words, nil
		}
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return nil, errors.Errorf("truncated word at offset %d", 2*len(words))
			}
			return nil, errors.Wrap(err, "word read failed")
		}
		if len(words) == MemSize {
			return nil, errTooLarge(len(words) + 1)
		}
		words = append(words, binary.LittleEndian.Uint16(b[:]))
	}
}

// WriteImage writes words to w as a memory image.
func WriteImage(w io.Writer, words []uint16) error {
	if len(words) > MemSize {
		return errTooLarge(len(words))
	}
	bw := bufio.NewWriter(w)
	var b [2]byte
	for _, v := range words {
		binary.LittleEndian.PutUint16(b[:], v)
		if _, err := bw.Write(b[:]); err != nil {
			return errors.Wrap(err, "write failed")
		}
	}
	return errors.Wrap(bw.Flush(), "write failed")
}

// Load loads a memory image from file fileName.
func Load(fileName string) ([]uint16, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	defer f.Close()
	words, err := ReadImage(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Load %v", fileName)
	}
	return words, nil
}

// Save saves words to an image file. The file is removed if writing fails.
func Save(fileName string, words []uint16) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close failed")
		}
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()
	return errors.Wrap(WriteImage(f, words), "save failed")
}
