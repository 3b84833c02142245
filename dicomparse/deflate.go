package dicomparse

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"

	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomparts"
)

// stepInDeflatedData implements spec §4.5 InDeflatedData. It requires the
// full compressed payload to already be buffered (the upstream must be
// closed): the deflate stream is inflated in one shot, the decompressed
// bytes are re-chunked into DeflatedChunk parts, and a fresh nested Parser
// is primed on the decompressed bytes to continue parsing in
// non-FMI dataset mode, exactly as spec §4.5 describes ("a wrapping flow
// decompresses these chunks and re-feeds them to a fresh parser instance
// running in non-FMI mode"). True incremental (pre-EOF) deflate streaming
// is not supported: compress/flate's Reader assumes a blocking source, and
// bridging it to a Feed-before-EOF Reader would need a pipe and a second
// goroutine for no benefit to this codec's callers, which always drain a
// fully-buffered stream.
func (p *Parser) stepInDeflatedData() (dicomparts.Part, error) {
	if !p.r.IsUpstreamClosed() {
		return nil, ErrNeedMoreData
	}

	if !p.deflateStarted {
		p.deflateStarted = true
		compressed := p.r.Take(len(p.r.RemainingData()))
		inflated, err := inflateAll(compressed, p.deflateNowrap)
		if err != nil {
			p.st = stateFinished
			return nil, dicomerr.At(dicomerr.KindTruncated, p.r.Pos(), "deflate decompression failed: %v", err)
		}
		p.deflateInflated = inflated
		p.deflateChunks = chunkBytes(inflated, p.opts.ChunkSize)
		p.deflateChunkIdx = 0
	}

	if p.deflateChunkIdx < len(p.deflateChunks) {
		b := p.deflateChunks[p.deflateChunkIdx]
		p.deflateChunkIdx++
		return dicomparts.DeflatedChunk{BigEndian: p.bigEndian, Bytes: b, Nowrap: p.deflateNowrap}, nil
	}

	nested := New(p.opts)
	nested.bigEndian = p.bigEndian
	nested.explicitVR = p.explicitVR
	nested.st = stateInDatasetHeader
	nested.r.SetByteOrder(byteOrderFor(p.bigEndian))
	nested.r.Feed(p.deflateInflated)
	nested.r.Close()
	p.nested = nested
	p.st = stateDeflatedNested
	return p.stepDeflatedNested()
}

func (p *Parser) stepDeflatedNested() (dicomparts.Part, error) {
	part, err := p.nested.Next()
	if err == io.EOF {
		p.st = stateFinished
		return nil, io.EOF
	}
	return part, err
}

func inflateAll(data []byte, nowrap bool) ([]byte, error) {
	if nowrap {
		fr := flate.NewReader(bytes.NewReader(data))
		defer fr.Close()
		return io.ReadAll(fr)
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func chunkBytes(data []byte, size int) [][]byte {
	if len(data) == 0 {
		return nil
	}
	var chunks [][]byte
	for i := 0; i < len(data); i += size {
		end := i + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}
	return chunks
}
