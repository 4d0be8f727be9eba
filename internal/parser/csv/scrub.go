package csv

import (
	"bufio"
	"bytes"
	"io"
)

// streamingRewriter is an io.Reader that performs a streaming, rolling
// find/replace: it replaces all occurrences of pat with repl without
// buffering the entire stream. To correctly match sequences that may span
// chunk boundaries, it retains the last len(pat)-1 bytes (carry) from each
// processed block and prepends them to the next block before replacement.
//
// The layoffs exports occasionally carry broken quote sequences inside
// company names; the scrub_from/scrub_to parser options let a pipeline fix
// a known-bad byte sequence before the bytes reach encoding/csv.
type streamingRewriter struct {
	br    *bufio.Reader
	pat   []byte
	repl  []byte
	carry []byte       // last len(pat)-1 bytes retained between reads
	buf   bytes.Buffer // pending output to satisfy Read
	eof   bool
}

// newStreamingRewriter wraps r with a rewriter that replaces pat with repl.
func newStreamingRewriter(r io.Reader, pat, repl []byte) *streamingRewriter {
	capacity := 0
	if n := len(pat) - 1; n > 0 {
		capacity = n
	}
	return &streamingRewriter{
		br:    bufio.NewReaderSize(r, 64*1024),
		pat:   pat,
		repl:  repl,
		carry: make([]byte, 0, capacity),
	}
}

// Read implements io.Reader. It fills p from the internal buffer; when
// empty, it reads the next chunk from the underlying reader, performs the
// rolling replacement, and withholds the trailing len(pat)-1 bytes as carry
// for the next call. On EOF it flushes the remaining carry.
func (sr *streamingRewriter) Read(p []byte) (int, error) {
	if sr.buf.Len() > 0 {
		return sr.buf.Read(p)
	}
	if sr.eof {
		return 0, io.EOF
	}

	tmp := make([]byte, 64*1024)
	n, err := sr.br.Read(tmp)
	if n > 0 {
		block := append(append([]byte{}, sr.carry...), tmp[:n]...)
		block = bytes.ReplaceAll(block, sr.pat, sr.repl)

		keep := len(sr.pat) - 1
		if keep > len(block) {
			keep = len(block)
		}
		if keep > 0 {
			sr.buf.Write(block[:len(block)-keep])
			sr.carry = append(sr.carry[:0], block[len(block)-keep:]...)
		} else {
			sr.buf.Write(block)
			sr.carry = sr.carry[:0]
		}
	}
	if err == io.EOF {
		sr.eof = true
		if len(sr.carry) > 0 {
			sr.buf.Write(sr.carry)
			sr.carry = sr.carry[:0]
		}
	} else if err != nil {
		return 0, err
	}

	if sr.buf.Len() == 0 && sr.eof {
		return 0, io.EOF
	}
	return sr.buf.Read(p)
}

// wrapWithScrub wraps r in a streaming rewriter replacing from with to.
// When from is empty, r is returned unchanged. Close() is forwarded to the
// underlying reader.
func wrapWithScrub(r io.ReadCloser, from, to string) io.ReadCloser {
	if from == "" {
		return r
	}
	type rc struct {
		io.Reader
		io.Closer
	}
	return &rc{
		Reader: newStreamingRewriter(r, []byte(from), []byte(to)),
		Closer: r,
	}
}
