// Package shuffle implements physically inspired, seed-deterministic shuffles
// over tarot deck sequences.
//
// Every algorithm is a pure function: it takes a sequence and a seed and
// returns a new sequence, never aliasing or mutating its input. The same deck
// and seed always produce the same output.
//
// # Algorithms
//
//   - Riffle: cut near the middle, rotate one half 180 degrees, interlace in
//     runs of one to three cards.
//   - Overhand: move small chunks off the top and drop them at the front,
//     somewhere inside, or at the back of the new pile.
//   - OverhandState / ProcessChunk: the overhand shuffle one chunk at a time,
//     for animated continuous shuffling.
//   - Hybrid: two to five riffle or overhand passes.
//   - Randomize: fifteen to twenty passes for thorough mixing.
//   - Spin: re-randomize orientation without touching order.
//
// Empty and single-card decks are returned unchanged by every algorithm.
//
// # Deterministic Testing
//
// RiffleStream, OverhandStream and SpinStream accept any randutil.Stream, so
// tests can script the exact draws and force individual branches:
//
//	s := scripted(0.5, 0.2) // cut in the middle, flip the left half
//	out := shuffle.RiffleStream(deck, s)
package shuffle
