// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package distro_test

import (
	"encoding/binary"
	"testing"

	"github.com/playbymail/texls/cerrs"
	"github.com/playbymail/texls/internal/distro"
)

// buildFNDB assembles a minimal well-formed .fndb-5 buffer: a header
// with the table pointer/size at their documented word offsets,
// followed by one 16-byte entry per (fileName, directory) pair, then
// the NUL-terminated string pool the entries' offsets point into.
func buildFNDB(t *testing.T, entries [][2]string) []byte {
	t.Helper()

	const headerSize = 32 // enough to cover word offsets 0..7
	tableAddress := uint32(headerSize)
	tableSize := uint32(len(entries))
	poolStart := tableAddress + tableSize*16

	buf := make([]byte, poolStart)
	binary.LittleEndian.PutUint32(buf[0:4], 0x42_44_4e_46)
	binary.LittleEndian.PutUint32(buf[16:20], tableAddress)
	binary.LittleEndian.PutUint32(buf[24:28], tableSize)

	var pool []byte
	for i, e := range entries {
		fileName, directory := e[0], e[1]
		fileOff := poolStart + uint32(len(pool))
		pool = append(pool, []byte(fileName)...)
		pool = append(pool, 0)
		dirOff := poolStart + uint32(len(pool))
		pool = append(pool, []byte(directory)...)
		pool = append(pool, 0)

		entryOff := tableAddress + uint32(i)*16
		binary.LittleEndian.PutUint32(buf[entryOff:entryOff+4], fileOff)
		binary.LittleEndian.PutUint32(buf[entryOff+4:entryOff+8], dirOff)
	}
	return append(buf, pool...)
}

func TestParseFNDBReadsEntries(t *testing.T) {
	data := buildFNDB(t, [][2]string{
		{"article.cls", "tex/latex/base"},
		{"plain.bst", "bibtex/bst/base"},
	})

	got, err := distro.ParseFNDB(data)
	if err != nil {
		t.Fatalf("ParseFNDB: %v", err)
	}
	if got["article.cls"] != "tex/latex/base/article.cls" {
		t.Errorf("article.cls = %q", got["article.cls"])
	}
	if got["plain.bst"] != "bibtex/bst/base/plain.bst" {
		t.Errorf("plain.bst = %q", got["plain.bst"])
	}
}

func TestParseFNDBRejectsBadSignature(t *testing.T) {
	data := buildFNDB(t, [][2]string{{"a.tex", "dir"}})
	data[0] = 0xFF // corrupt the magic number

	_, err := distro.ParseFNDB(data)
	if err != cerrs.ErrInvalidFNDB {
		t.Fatalf("err = %v, want ErrInvalidFNDB", err)
	}
}

func TestParseFNDBRejectsTruncatedTable(t *testing.T) {
	data := buildFNDB(t, [][2]string{{"a.tex", "dir"}})
	data = data[:len(data)-20] // cut off the table entry

	_, err := distro.ParseFNDB(data)
	if err != cerrs.ErrInvalidFNDB {
		t.Fatalf("err = %v, want ErrInvalidFNDB", err)
	}
}
