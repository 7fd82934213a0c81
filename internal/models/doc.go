// Package models defines the domain entities flowing through the cuedex
// resolution pipeline.
//
// The package contains three categories of types:
//
// 1. Inputs: [TrackQuery] describes one playlist entry to resolve and
// [MixDescriptor] its parsed mix intent. Both are value objects, built once
// per track and never mutated during a resolution run.
//
// 2. Outputs: [Candidate] is one scored catalog entry, [QueryAudit] the
// record of one issued query, and [TrackResult] everything a single track's
// resolution produced. [ProgressInfo] carries aggregate playlist progress.
//
// 3. Raw collaborator data: [ReleaseFields] holds the unscored fields the
// fetch collaborator extracted from a catalog release page.
package models
