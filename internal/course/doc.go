// Package course models the slide corpus a pipeline run works on.
//
// SlideID is the ordering key for the whole system: runs, timelines, and
// ledger listings are all sorted by ascending (module, slide). Records are
// decoded from per-slide YAML files and validated as a batch so every
// violation in the corpus is reported at once. Selection helpers translate
// optional (module, slide) CLI arguments into a Run.
package course
