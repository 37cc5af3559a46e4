package todo

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"
)

// List files are a flat little-endian stream with no header or version:
//
//	int32  item count
//	per item:
//	int32  status
//	int64  created_at (unix seconds)
//	uint64 contents length
//	[]byte contents, no terminator

var byteOrder = binary.LittleEndian

const filePermissions = 0o644

// Encode writes every item of list to w.
func Encode(w io.Writer, list *List) error {
	if err := binary.Write(w, byteOrder, int32(list.Len())); err != nil {
		return ioError("save", "failed to write item count", err)
	}

	for _, item := range list.items {
		if err := binary.Write(w, byteOrder, int32(item.Status)); err != nil {
			return ioError("save", "failed to write item status", err)
		}
		if err := binary.Write(w, byteOrder, item.CreatedAt.Unix()); err != nil {
			return ioError("save", "failed to write item create time", err)
		}
		if err := binary.Write(w, byteOrder, uint64(len(item.Contents))); err != nil {
			return ioError("save", "failed to write item contents length", err)
		}
		if _, err := io.WriteString(w, item.Contents); err != nil {
			return ioError("save", "failed to write item contents", err)
		}
	}
	return nil
}

// Decode reads items from r and appends them to list through List.Add.
// An empty stream is not an error. Items decoded before a failure stay in
// the list, so callers should discard it when Decode returns an error.
func Decode(r io.Reader, list *List) error {
	var count int32
	if err := binary.Read(r, byteOrder, &count); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return ioError("load", "failed to read item count", err)
	}
	if count < 0 {
		return formatError("load", "invalid item count in file")
	}

	for i := int32(0); i < count; i++ {
		var (
			status      int32
			created     int64
			contentsLen uint64
		)
		if err := binary.Read(r, byteOrder, &status); err != nil {
			return ioError("load", "failed to read item status", err)
		}
		if !Status(status).Valid() {
			return formatError("load", "invalid item status")
		}
		if err := binary.Read(r, byteOrder, &created); err != nil {
			return ioError("load", "failed to read item create time", err)
		}
		if err := binary.Read(r, byteOrder, &contentsLen); err != nil {
			return ioError("load", "failed to read item contents length", err)
		}
		if contentsLen >= MaxContentsLen {
			return formatError("load", "invalid item contents length")
		}

		contents := make([]byte, contentsLen)
		if _, err := io.ReadFull(r, contents); err != nil {
			return ioError("load", "failed to read item contents", err)
		}

		item := Item{
			Status:    Status(status),
			CreatedAt: time.Unix(created, 0),
			Contents:  string(contents),
		}
		if err := list.Add(item); err != nil {
			return err
		}
	}

	if list.Len() > 0 {
		list.selected = 0
	}
	return nil
}

// Load opens path and decodes it into list.
func Load(list *List, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return ioError("load", "can't open the file", err)
	}
	defer file.Close()

	return Decode(bufio.NewReader(file), list)
}

// Save writes list to path. The data lands in a temporary file beside path
// which is renamed over it once fully flushed, so a failed save leaves the
// previous file intact.
func Save(list *List, path string) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".tudu-*")
	if err != nil {
		return ioError("save", "can't open the file", err)
	}
	defer os.Remove(temp.Name())

	w := bufio.NewWriter(temp)
	if err := Encode(w, list); err != nil {
		temp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		temp.Close()
		return ioError("save", "failed to flush file buffer", err)
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return ioError("save", "failed to flush file buffer", err)
	}
	if err := temp.Close(); err != nil {
		return ioError("save", "failed to close file", err)
	}

	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return ioError("save", "failed to set file mode", err)
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		return ioError("save", "failed to replace file", err)
	}
	return nil
}
