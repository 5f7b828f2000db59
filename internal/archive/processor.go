// Package archive runs the batch edit over a ZIP of invoice files. Each
// entry is independent: XML entries go through the rule engine, anything
// else is copied verbatim, and a single bad file never aborts the batch.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/port"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/rules"
)

// Options controls the optional tag removals of a batch run.
type Options struct {
	RemoveDiscount bool
	RemoveOther    bool
}

// Stats summarizes a batch run.
type Stats struct {
	Total   int `json:"total"`
	Changed int `json:"changed"`
	Copied  int `json:"copied"`
}

// Entry is one file of an archive.
type Entry struct {
	Name string
	Data []byte
}

// IsXML reports whether an entry name has a .xml extension, case-insensitive.
func IsXML(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xml")
}

// Open validates zipData and returns a reader over it.
func Open(zipData []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadArchive, err)
	}
	return zr, nil
}

// XMLEntries reads every XML file of the archive, in archive order. An
// entry whose content cannot be read is still returned, with nil Data, so
// callers count it like any other file.
func XMLEntries(zipData []byte) ([]Entry, error) {
	zr, err := Open(zipData)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !IsXML(f.Name) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			log.Printf("archive: entry %s unreadable: %v", f.Name, err)
			data = nil
		}
		entries = append(entries, Entry{Name: f.Name, Data: data})
	}
	return entries, nil
}

// Process applies the rule set to every XML entry of zipData and returns
// the rebuilt archive. Non-XML entries, unreadable entries and entries that
// fail decoding are copied verbatim. onProgress fires once per entry,
// including the last.
func Process(zipData []byte, set rules.Set, opts Options, onProgress port.ProgressFunc) ([]byte, Stats, error) {
	zr, err := Open(zipData)
	if err != nil {
		return nil, Stats{}, err
	}

	var files []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	stats := Stats{Total: len(files)}

	for i, f := range files {
		if err := processEntry(zw, f, set, opts, &stats); err != nil {
			_ = zw.Close()
			return nil, Stats{}, fmt.Errorf("write entry %s: %w", f.Name, err)
		}
		if onProgress != nil {
			onProgress(i+1, len(files))
		}
	}

	if err := zw.Close(); err != nil {
		return nil, Stats{}, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), stats, nil
}

func processEntry(zw *zip.Writer, f *zip.File, set rules.Set, opts Options, stats *Stats) error {
	data, err := readEntry(f)
	if err != nil {
		// Entry cannot be decompressed; move its raw bytes across so the
		// output archive still covers every input entry.
		log.Printf("archive: entry %s unreadable, raw copy: %v", f.Name, err)
		stats.Copied++
		return rawCopy(zw, f)
	}

	out := data
	if IsXML(f.Name) {
		if edited, ok := rewrite(data, set, opts); ok {
			out = edited
		}
	}

	w, err := zw.Create(f.Name)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}

	if bytes.Equal(out, data) {
		stats.Copied++
	} else {
		stats.Changed++
	}
	return nil
}

// rewrite decodes the entry and applies the rule set. The bool is false
// when decoding failed and the original bytes must pass through unchanged.
func rewrite(data []byte, set rules.Set, opts Options) ([]byte, bool) {
	text, err := DecodeText(data)
	if err != nil {
		return nil, false
	}
	edited := rules.Apply(text, set, opts.RemoveDiscount, opts.RemoveOther)
	return []byte(edited), true
}

func rawCopy(zw *zip.Writer, f *zip.File) error {
	rc, err := f.OpenRaw()
	if err != nil {
		return err
	}
	w, err := zw.CreateRaw(&f.FileHeader)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, rc)
	return err
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
