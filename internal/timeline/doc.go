// Package timeline computes the ordered video and audio segment lists for a run.
//
// Assemble performs no encoding; it only checks which compositions and clips
// exist and how long each clip plays. The resulting Plan is rendered by the
// muxer.
//
// Layout of a plan, in order:
//   - intro: the first slide's composition, held without fade, with silence
//   - per slide: the composition held for the clip duration with a fade-out,
//     the clip (or the missing-audio policy's choice), then a black pause
//     with matching silence
//
// Slides without a composition are skipped entirely.
package timeline
