// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package distro

import (
	"bytes"
	"encoding/binary"

	"github.com/playbymail/texls/cerrs"
)

// MiKTeX stamps its file-name database with "FNDB" read back as a
// little-endian u32 — byte 0 is 'F' (0x46), byte 1 'N' (0x4e), byte 2
// 'D' (0x44), byte 3 'B' (0x42), giving 0x42_44_4e_46, not the
// 0x4644_4e46 the prose description implies. Trust the byte layout,
// not the hex transcription.
const fndbSignature uint32 = 0x42_44_4e_46

const (
	fndbWordSize           = 4
	fndbTablePointerOffset = 4 * fndbWordSize
	fndbTableSizeOffset    = 6 * fndbWordSize
	fndbEntrySize          = 4 * fndbWordSize
)

// ParseFNDB reads a MiKTeX ".fndb-5" file-name database and returns a
// map from bare file name (with extension) to the path relative to
// the TEXMF root the database was read from, formed by joining the
// entry's directory and file-name fields out of the trailing string
// pool.
func ParseFNDB(data []byte) (map[string]string, error) {
	if len(data) < fndbTableSizeOffset+fndbWordSize {
		return nil, cerrs.ErrInvalidFNDB
	}
	if binary.LittleEndian.Uint32(data[0:4]) != fndbSignature {
		return nil, cerrs.ErrInvalidFNDB
	}

	tableAddress := binary.LittleEndian.Uint32(data[fndbTablePointerOffset : fndbTablePointerOffset+fndbWordSize])
	tableSize := binary.LittleEndian.Uint32(data[fndbTableSizeOffset : fndbTableSizeOffset+fndbWordSize])

	out := make(map[string]string, tableSize)
	for i := uint32(0); i < tableSize; i++ {
		entryOffset := tableAddress + i*fndbEntrySize
		if uint64(entryOffset)+fndbEntrySize > uint64(len(data)) {
			return nil, cerrs.ErrInvalidFNDB
		}
		fileNameOffset := binary.LittleEndian.Uint32(data[entryOffset : entryOffset+fndbWordSize])
		directoryOffset := binary.LittleEndian.Uint32(data[entryOffset+fndbWordSize : entryOffset+2*fndbWordSize])

		fileName, ok := readCString(data, fileNameOffset)
		if !ok {
			return nil, cerrs.ErrInvalidFNDB
		}
		directory, ok := readCString(data, directoryOffset)
		if !ok {
			return nil, cerrs.ErrInvalidFNDB
		}
		if fileName == "" {
			continue
		}
		out[fileName] = joinPath(directory, fileName)
	}
	return out, nil
}

func readCString(data []byte, offset uint32) (string, bool) {
	if uint64(offset) >= uint64(len(data)) {
		return "", false
	}
	rest := data[offset:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", false
	}
	return string(rest[:end]), true
}
