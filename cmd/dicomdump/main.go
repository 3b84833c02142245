// Command dicomdump parses a DICOM Part-10 file end to end (Parse →
// Collect (optional) → Sink) and prints the resulting dataset tree. It is
// a thin flag-parsing wrapper around the library, in the vein of
// dicomutil/opendcm-util.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/odincare/dicomstream/dicomcollect"
	"github.com/odincare/dicomstream/dicomlog"
	"github.com/odincare/dicomstream/dicomparse"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomsink"
	"github.com/odincare/dicomstream/dicomtag"
)

var (
	inPath    = flag.String("in", "", "path to a DICOM Part-10 file (required)")
	match     = flag.String("match", "", "if set, a keyword glob (e.g. \"Patient*\"); only matching elements are assembled, via the collect flow")
	chunkSize = flag.Int("chunk-size", dicomparse.DefaultChunkSize, "bytes read per value chunk")
	verbose   = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()
	dicomlog.SetLevel(*verbose)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: dicomdump -in <file> [-match <glob>] [-chunk-size <n>]")
		os.Exit(2)
	}

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatalf("dicomdump: %v", err)
	}
	defer f.Close()

	parts, err := dicomparse.ParseAll(f, dicomparse.Options{ChunkSize: *chunkSize})
	if err != nil {
		log.Fatalf("dicomdump: parse: %v", err)
	}

	if *match == "" {
		elements, err := dicomsink.Sink(parts)
		if err != nil {
			log.Fatalf("dicomdump: sink: %v", err)
		}
		fmt.Print(elements.GoString())
		return
	}

	tags, err := dicomtag.FindByKeywordGlob(*match)
	if err != nil {
		log.Fatalf("dicomdump: -match: %v", err)
	}
	if len(tags) == 0 {
		log.Fatalf("dicomdump: -match %q matched nothing in the dictionary", *match)
	}
	tree := dicomtag.NewTree(tags...)
	collect, stop := dicomcollect.WhitelistPredicates(tree)

	c := dicomcollect.New(newPartSlice(parts), dicomcollect.Options{
		Collect: collect,
		Stop:    stop,
		Label:   *match,
	})
	for {
		part, err := c.Next()
		if err == io.EOF {
			log.Fatalf("dicomdump: -match %q: no elements collected", *match)
		}
		if err != nil {
			log.Fatalf("dicomdump: collect: %v", err)
		}
		if ep, ok := part.(dicomparts.ElementsPart); ok {
			fmt.Print(ep.Elements.GoString())
			return
		}
	}
}

// partSlice adapts an already-parsed []dicomparts.Part into the
// dicomcollect.PartSource a Collector pulls from.
type partSlice struct {
	parts []dicomparts.Part
	i     int
}

func newPartSlice(parts []dicomparts.Part) *partSlice { return &partSlice{parts: parts} }

func (s *partSlice) Next() (dicomparts.Part, error) {
	if s.i >= len(s.parts) {
		return nil, io.EOF
	}
	p := s.parts[s.i]
	s.i++
	return p, nil
}
