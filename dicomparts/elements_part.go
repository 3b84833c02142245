package dicomparts

import "github.com/odincare/dicomstream/dicomelement"

// ElementsPart is the synthetic part the collect flow emits once its stop
// condition fires (spec §4.6 "Emits an ElementsPart{label, elements}
// synthetic part"): the dataset assembled from whatever matched the
// collect predicate, ahead of the buffered tail. Unlike every other Part
// it has no Raw bytes of its own — it is a side channel, not a
// reconstruction of the input.
type ElementsPart struct {
	Label    string
	Elements *dicomelement.Elements
}

func (ElementsPart) isPart() {}
