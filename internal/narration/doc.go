// Package narration turns a slide's script into one audio clip.
//
// Each sentence is recorded by a Speaker, a fixed silence is inserted between
// consecutive sentences, and the pieces are joined losslessly into
// sound_<module>_<slide>.wav. Intermediate recordings live in a scratch
// directory unique to the slide and run, and are removed on every exit path.
//
// KokoroClient is the HTTP Speaker for Kokoro-compatible TTS servers.
package narration
